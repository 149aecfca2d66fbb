// Package convert drives one conversion run: read the Abaqus mesh,
// apply the configured transforms, and write the FEAP input file with
// header and footer around the generated blocks. Fatal errors abort
// before anything is written to the output path.
package convert

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dheller1/inp2feap/config"
	"github.com/dheller1/inp2feap/feap"
	"github.com/dheller1/inp2feap/mesh"
	"github.com/dheller1/inp2feap/readfiles"
)

// Run executes parse -> transform -> emit for one validated config.
// Set-resolution misses are warnings; everything else is fatal and
// leaves the output file untouched.
func Run(cfg *config.Config, verbose bool) error {
	inputPath := cfg.Path(cfg.Input)
	m, err := readfiles.ReadInp(inputPath, cfg.NodesPerElem, verbose)
	if err != nil {
		return err
	}
	if err = m.Validate(); err != nil {
		return fmt.Errorf("%s: %s", inputPath, err)
	}

	header, err := readAside(cfg.Path(cfg.Header))
	if err != nil {
		return fmt.Errorf("unable to read header file: %w", err)
	}
	footer, err := readAside(cfg.Path(cfg.Footer))
	if err != nil {
		return fmt.Errorf("unable to read footer file: %w", err)
	}

	applyElsets(cfg, m, verbose)

	if cfg.CenterMesh {
		min, max := m.Bounds()
		shift := m.Center()
		if verbose && shift != [3]float64{} {
			fmt.Printf(".Translating mesh from bounding box [%.2f,%.2f]x[%.2f,%.2f]x[%.2f,%.2f] by (%.2f,%.2f,%.2f).\n",
				min[0], max[0], min[1], max[1], min[2], max[2], shift[0], shift[1], shift[2])
		}
	}

	bouns, loads := nodeCardBlocks(cfg, m, verbose)

	customs := make([]feap.CustomBlock, len(cfg.CustomInputs))
	for i, ci := range cfg.CustomInputs {
		customs[i] = feap.CustomBlock{Block: ci.Block, Pos: *ci.Pos, Cards: ci.Cards}
	}

	var body bytes.Buffer
	if header != "" {
		body.WriteString(header)
		body.WriteString("\n")
	}
	if err = feap.WriteBody(&body, m, bouns, loads, customs); err != nil {
		return err
	}
	if footer != "" {
		body.WriteString("\n")
		body.WriteString(footer)
	}

	outputPath := cfg.Path(cfg.Output)
	if err = os.WriteFile(outputPath, body.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	if verbose {
		fmt.Printf("File %s written.\n", outputPath)
	}
	return nil
}

// applyElsets runs the element-set transforms in the fixed order
// materials first, then duplication. Materials go in document order so
// later entries override earlier ones on overlapping sets; duplication
// afterwards only ever reads original elements.
func applyElsets(cfg *config.Config, m *mesh.Mesh, verbose bool) {
	resolved := make([]*mesh.ElSet, len(cfg.Elsets))
	for i, es := range cfg.Elsets {
		set, ok := m.ElSet(es.Name)
		if !ok {
			fmt.Fprintf(os.Stderr, "Warning: couldn't find elset '%s' in mesh.\n", es.Name)
			continue
		}
		resolved[i] = set
	}
	for i, es := range cfg.Elsets {
		if resolved[i] == nil || es.SetMat == nil {
			continue
		}
		n := m.AssignMaterial(resolved[i], *es.SetMat)
		if verbose {
			fmt.Printf(".Setting material number %d for %d elements in elset %s.\n", *es.SetMat, n, es.Name)
		}
	}
	for i, es := range cfg.Elsets {
		if resolved[i] == nil || len(es.Duplicate) == 0 {
			continue
		}
		n := m.DuplicateElements(resolved[i], es.Duplicate)
		if verbose {
			fmt.Printf(".Elset %s duplicated (materials %v), %d new elements.\n", es.Name, []int(es.Duplicate), n)
		}
	}
}

// nodeCardBlocks builds the generated boun and load blocks from the
// configured node sets. An unresolved set still yields its block, with
// zero cards.
func nodeCardBlocks(cfg *config.Config, m *mesh.Mesh, verbose bool) (bouns, loads []feap.NodeCards) {
	for _, ns := range cfg.Nsets {
		var nodes []int
		if set, ok := m.NodeSet(ns.Name); ok {
			nodes = set.Nodes
		} else {
			fmt.Fprintf(os.Stderr, "Warning: couldn't find nset '%s' in mesh.\n", ns.Name)
		}
		if ns.SetBoun != "" {
			if verbose {
				fmt.Printf(".Adding 'boun' card '%s' for all nodes in nset %s.\n", ns.SetBoun, ns.Name)
			}
			bouns = append(bouns, feap.NodeCards{Command: "boun", SetName: ns.Name, Cond: ns.SetBoun, Nodes: nodes})
		}
		if ns.SetLoad != "" {
			if verbose {
				fmt.Printf(".Adding 'load' card '%s' for all nodes in nset %s.\n", ns.SetLoad, ns.Name)
			}
			loads = append(loads, feap.NodeCards{Command: "load", SetName: ns.Name, Cond: ns.SetLoad, Nodes: nodes})
		}
	}
	return
}

// readAside reads an optional header/footer file. An empty path means
// the file is not configured.
func readAside(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
