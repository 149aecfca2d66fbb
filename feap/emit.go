// Package feap renders the block-oriented FEAP input text: coordinate
// and element blocks from the mesh, boun/load blocks generated from
// node sets, and literal custom blocks at configured positions.
package feap

import (
	"fmt"
	"io"
	"sort"

	"github.com/dheller1/inp2feap/mesh"
)

// CustomBlock is a literal block inserted into the output. Blocks are
// ordered by ascending Pos; negative positions go before the generated
// boun/load blocks, the rest after.
type CustomBlock struct {
	Block string
	Pos   int
	Cards []string
}

// NodeCards describes one generated boun or load block: the FEAP
// command, the node set it came from, the literal condition string, and
// the resolved node ids.
type NodeCards struct {
	Command string // "boun" or "load"
	SetName string
	Cond    string
	Nodes   []int
}

// WriteBody writes the complete output body in the required block
// order: coor, elem, custom blocks with pos < 0, boun blocks, load
// blocks, custom blocks with pos >= 0. Blocks are separated by single
// blank lines. Custom block sorting is stable, so equal positions keep
// document order.
func WriteBody(w io.Writer, m *mesh.Mesh, bouns, loads []NodeCards, customs []CustomBlock) error {
	sorted := make([]CustomBlock, len(customs))
	copy(sorted, customs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })

	if err := WriteCoor(w, m); err != nil {
		return err
	}
	if err := WriteElem(w, m); err != nil {
		return err
	}
	for _, cb := range sorted {
		if cb.Pos >= 0 {
			break
		}
		if err := WriteCustom(w, cb); err != nil {
			return err
		}
	}
	for _, nc := range bouns {
		if err := WriteNodeCards(w, nc); err != nil {
			return err
		}
	}
	for _, nc := range loads {
		if err := WriteNodeCards(w, nc); err != nil {
			return err
		}
	}
	for _, cb := range sorted {
		if cb.Pos < 0 {
			continue
		}
		if err := WriteCustom(w, cb); err != nil {
			return err
		}
	}
	return nil
}

// WriteCoor writes the coordinate block, one card per node in
// ascending id order. Coordinates are fixed-point with 8 decimals;
// FEAP's free-format reader takes no scientific notation here.
func WriteCoor(w io.Writer, m *mesh.Mesh) error {
	if _, err := fmt.Fprintf(w, "coor\n"); err != nil {
		return err
	}
	for _, n := range m.NodesByID() {
		var err error
		if n.NDim == 2 {
			_, err = fmt.Fprintf(w, "%8d, 0, %14.8f, %14.8f\n", n.ID, n.X, n.Y)
		} else {
			_, err = fmt.Fprintf(w, "%8d, 0, %14.8f, %14.8f, %14.8f\n", n.ID, n.X, n.Y, n.Z)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteElem writes the element block in parse order, duplicates last:
// id, material number, then the connectivity list.
func WriteElem(w io.Writer, m *mesh.Mesh) error {
	if _, err := fmt.Fprintf(w, "\nelem\n"); err != nil {
		return err
	}
	for _, e := range m.Elems {
		if _, err := fmt.Fprintf(w, "%8d, %d", e.ID, e.Mat); err != nil {
			return err
		}
		for _, nid := range e.Nodes {
			if _, err := fmt.Fprintf(w, ", %d", nid); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteNodeCards writes one generated boun/load block, one card per
// node in ascending node-id order. An empty node list still produces
// the block header, per the warn-and-continue contract for unresolved
// sets.
func WriteNodeCards(w io.Writer, nc NodeCards) error {
	if _, err := fmt.Fprintf(w, "\n%s ** NSET=%s\n", nc.Command, nc.SetName); err != nil {
		return err
	}
	nodes := make([]int, len(nc.Nodes))
	copy(nodes, nc.Nodes)
	sort.Ints(nodes)
	for _, nid := range nodes {
		if _, err := fmt.Fprintf(w, "%d, 0, %s\n", nid, nc.Cond); err != nil {
			return err
		}
	}
	return nil
}

// WriteCustom writes one literal block: the command line, then the
// cards verbatim.
func WriteCustom(w io.Writer, cb CustomBlock) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", cb.Block); err != nil {
		return err
	}
	for _, card := range cb.Cards {
		if _, err := fmt.Fprintf(w, "%s\n", card); err != nil {
			return err
		}
	}
	return nil
}
