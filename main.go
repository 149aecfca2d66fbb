package main

import "github.com/dheller1/inp2feap/cmd"

func main() {
	cmd.Execute()
}
