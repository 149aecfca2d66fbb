/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dheller1/inp2feap/config"
	"github.com/dheller1/inp2feap/convert"
)

var (
	cfgFile    string
	verbose    bool
	profileRun bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inp2feap <config.json>",
	Short: "Convert an Abaqus .inp mesh to a FEAP input file",
	Long: `
inp2feap converts finite element models from the Abaqus .inp format to a
FEAP input file. Its behavior is controlled completely by a configuration
document in JSON syntax, given as the single argument: it names the .inp
file to read, the output file to write, and how the mesh is processed on
the way (material numbers, element duplication, centering, boundary and
load cards, custom input blocks).

inp2feap model/plate.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if profileRun {
			defer profile.Start(profile.ProfilePath(".")).Stop()
		}
		if viper.GetBool("verbose") {
			verbose = true
		}
		cfg, err := config.Load(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
		if verbose {
			fmt.Printf("Successfully parsed config file '%s'.\n", args[0])
			cfg.Print()
		}
		if err = convert.Run(cfg, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default is $HOME/.inp2feap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "report progress while converting")
	rootCmd.Flags().BoolVar(&profileRun, "profile", false, "write a CPU profile for the conversion")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in the settings file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".inp2feap" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".inp2feap")
	}

	viper.SetEnvPrefix("inp2feap")
	viper.AutomaticEnv() // read in environment variables that match

	// If a settings file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Println("Using settings file:", viper.ConfigFileUsed())
	}
}
