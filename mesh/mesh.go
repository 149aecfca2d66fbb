package mesh

import (
	"fmt"
	"sort"
)

// Node is a single mesh vertex: an id as assigned by the source file
// (not necessarily contiguous or 1-based) plus spatial coordinates.
// NDim is 2 or 3; for 2D nodes Z stays zero.
type Node struct {
	ID      int
	X, Y, Z float64
	NDim    int
}

// Element connects NumNodes() nodes in a fixed order. The node order is
// not arbitrary - it determines element orientation for the consuming
// program. Mat selects the FEAP material number, default 1.
type Element struct {
	ID    int
	Mat   int
	Nodes []int
}

func NewElement(id int, nodes []int) *Element {
	return &Element{ID: id, Mat: 1, Nodes: nodes}
}

func (e *Element) NumNodes() int { return len(e.Nodes) }

// NodeSet is a named collection of node ids, referenced from the
// configuration to attach boundary condition or load cards.
type NodeSet struct {
	Name  string
	Nodes []int
}

// ElSet is a named collection of element ids, referenced from the
// configuration to assign material numbers or duplicate elements.
type ElSet struct {
	Name  string
	Elems []int
}

// Mesh gathers everything read from one source file: nodes, elements,
// node sets and element sets. It is built once per conversion run and
// mutated only by the transforms in this package.
type Mesh struct {
	Nodes  []*Node
	Elems  []*Element
	NSets  []*NodeSet
	ElSets []*ElSet

	NDim         int
	NodesPerElem int

	nextElemID int
}

// NodeSet looks up a node set by name. A miss is not an error here;
// callers warn and treat the entry as empty.
func (m *Mesh) NodeSet(name string) (*NodeSet, bool) {
	for _, ns := range m.NSets {
		if ns.Name == name {
			return ns, true
		}
	}
	return nil, false
}

// ElSet looks up an element set by name.
func (m *Mesh) ElSet(name string) (*ElSet, bool) {
	for _, es := range m.ElSets {
		if es.Name == name {
			return es, true
		}
	}
	return nil, false
}

// Validate checks referential integrity: every node id referenced by an
// element must exist among the parsed nodes.
func (m *Mesh) Validate() error {
	known := make(map[int]bool, len(m.Nodes))
	for _, n := range m.Nodes {
		known[n.ID] = true
	}
	for _, e := range m.Elems {
		for _, nid := range e.Nodes {
			if !known[nid] {
				return fmt.Errorf("element %d references undefined node %d", e.ID, nid)
			}
		}
	}
	return nil
}

// NodesByID returns the nodes sorted by ascending id, the order the
// coordinate block is written in.
func (m *Mesh) NodesByID() []*Node {
	sorted := make([]*Node, len(m.Nodes))
	copy(sorted, m.Nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return sorted
}

// NextElemID allocates a fresh element id, guaranteed not to collide
// with any parsed or previously allocated id.
func (m *Mesh) NextElemID() int {
	if m.nextElemID == 0 {
		for _, e := range m.Elems {
			if e.ID >= m.nextElemID {
				m.nextElemID = e.ID + 1
			}
		}
		if m.nextElemID == 0 {
			m.nextElemID = 1
		}
	}
	id := m.nextElemID
	m.nextElemID++
	return id
}
