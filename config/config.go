// Package config loads and validates the conversion document that
// drives a run: which .inp file to read, where to write the FEAP file,
// and what to do to the mesh in between. The document is JSON per the
// original tool; the loader also accepts YAML since it goes through
// ghodss/yaml.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
)

type Config struct {
	Input        string       `json:"input"`
	Output       string       `json:"output"`
	Header       string       `json:"header,omitempty"`
	Footer       string       `json:"footer,omitempty"`
	NodesPerElem int          `json:"nodesPerElem,omitempty"`
	CenterMesh   bool         `json:"centerMesh,omitempty"`
	Elsets       []ElsetSpec  `json:"elsets,omitempty"`
	Nsets        []NsetSpec   `json:"nsets,omitempty"`
	CustomInputs CustomInputs `json:"customInput,omitempty"`

	dir string // directory of the document, anchor for relative paths
}

// ElsetSpec instructs the converter what to do with one named element
// set: assign a material number, duplicate its elements, or both.
type ElsetSpec struct {
	Name      string  `json:"name"`
	SetMat    *int    `json:"setMat,omitempty"`
	Duplicate IntList `json:"duplicate,omitempty"`
}

// NsetSpec attaches boundary condition or load cards to every node of
// one named node set.
type NsetSpec struct {
	Name    string `json:"name"`
	SetBoun string `json:"setBoun,omitempty"`
	SetLoad string `json:"setLoad,omitempty"`
}

// CustomInput is a literal FEAP block inserted into the output. Pos
// orders the blocks; pos < 0 places a block before the generated
// boun/load blocks, pos >= 0 after them.
type CustomInput struct {
	Block string   `json:"block"`
	Pos   *int     `json:"pos"`
	Cards []string `json:"cards"`
}

// IntList accepts either a single integer or an array of integers, as
// the original document schema allowed for 'duplicate'.
type IntList []int

func (l *IntList) UnmarshalJSON(data []byte) error {
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		*l = IntList{single}
		return nil
	}
	var many []int
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected an integer or a list of integers: %s", err)
	}
	*l = many
	return nil
}

// CustomInputs accepts either a single custom-input object or an array
// of them.
type CustomInputs []CustomInput

func (c *CustomInputs) UnmarshalJSON(data []byte) error {
	var single CustomInput
	if err := json.Unmarshal(data, &single); err == nil {
		*c = CustomInputs{single}
		return nil
	}
	var many []CustomInput
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected a custom input block or a list of them: %s", err)
	}
	*c = many
	return nil
}

// Load reads, unmarshals and validates a configuration document. All
// of this happens before any mesh or header/footer file is touched.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	cfg := &Config{}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Validate checks required fields. Type mismatches are already fatal at
// unmarshal time; this catches missing or empty values.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("required parameter 'input' not found in config file")
	}
	if c.Output == "" {
		return fmt.Errorf("required parameter 'output' not found in config file")
	}
	if c.NodesPerElem < 0 {
		return fmt.Errorf("'nodesPerElem' must be positive, got %d", c.NodesPerElem)
	}
	for i, es := range c.Elsets {
		if es.Name == "" {
			return fmt.Errorf("elsets[%d]: required parameter 'name' not found", i)
		}
	}
	for i, ns := range c.Nsets {
		if ns.Name == "" {
			return fmt.Errorf("nsets[%d]: required parameter 'name' not found", i)
		}
	}
	for i, ci := range c.CustomInputs {
		if ci.Block == "" {
			return fmt.Errorf("customInput[%d]: required parameter 'block' not found", i)
		}
		if ci.Pos == nil {
			return fmt.Errorf("customInput[%d]: required parameter 'pos' not found", i)
		}
		if ci.Cards == nil {
			return fmt.Errorf("customInput[%d]: required parameter 'cards' not found", i)
		}
	}
	return nil
}

// Path resolves a document-relative path against the directory the
// config file was loaded from. Absolute paths pass through.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// Print reports what the document asks for.
func (c *Config) Print() {
	fmt.Printf("\"%s\"\t= input\n", c.Input)
	fmt.Printf("\"%s\"\t= output\n", c.Output)
	if c.NodesPerElem > 0 {
		fmt.Printf("[%d]\t= nodes per element\n", c.NodesPerElem)
	}
	fmt.Printf("[%v]\t= center mesh\n", c.CenterMesh)
	fmt.Printf(".Found instructions for %d nsets and %d elsets.\n", len(c.Nsets), len(c.Elsets))
	fmt.Printf(".Found %d custom input blocks.\n", len(c.CustomInputs))
}
