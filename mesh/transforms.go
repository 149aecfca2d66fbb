package mesh

import (
	"gonum.org/v1/gonum/floats"
)

// AssignMaterial sets mat on every element whose id is in the set.
// Applying configuration entries in document order makes later entries
// win when sets overlap.
func (m *Mesh) AssignMaterial(set *ElSet, mat int) (count int) {
	members := idSet(set.Elems)
	for _, e := range m.Elems {
		if members[e.ID] {
			e.Mat = mat
			count++
		}
	}
	return
}

// DuplicateElements appends, for every element of the set, one copy per
// entry of mats: same node list, that material number, fresh id. The
// element table is snapshotted up front so duplicates created here (or
// by earlier calls for an overlapping set) are never duplicated again.
func (m *Mesh) DuplicateElements(set *ElSet, mats []int) (created int) {
	members := idSet(set.Elems)
	originals := m.Elems[:len(m.Elems):len(m.Elems)]
	for _, e := range originals {
		if !members[e.ID] {
			continue
		}
		for _, mat := range mats {
			dup := &Element{
				ID:    m.NextElemID(),
				Mat:   mat,
				Nodes: e.Nodes,
			}
			m.Elems = append(m.Elems, dup)
			created++
		}
	}
	return
}

// Bounds returns the axis-aligned bounding box over all node
// coordinates, min and max per axis.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if len(m.Nodes) == 0 {
		return
	}
	xs := make([]float64, len(m.Nodes))
	ys := make([]float64, len(m.Nodes))
	zs := make([]float64, len(m.Nodes))
	for i, n := range m.Nodes {
		xs[i], ys[i], zs[i] = n.X, n.Y, n.Z
	}
	min = [3]float64{floats.Min(xs), floats.Min(ys), floats.Min(zs)}
	max = [3]float64{floats.Max(xs), floats.Max(ys), floats.Max(zs)}
	return
}

// Center translates all nodes so the bounding box is centered at the
// origin, and returns the shift that was applied. Centering an already
// centered mesh applies a zero shift.
func (m *Mesh) Center() (shift [3]float64) {
	if len(m.Nodes) == 0 {
		return
	}
	min, max := m.Bounds()
	for i := 0; i < 3; i++ {
		shift[i] = -min[i] - (max[i]-min[i])/2
	}
	if shift == [3]float64{} {
		return
	}
	for _, n := range m.Nodes {
		n.X += shift[0]
		n.Y += shift[1]
		n.Z += shift[2]
	}
	return
}

func idSet(ids []int) map[int]bool {
	s := make(map[int]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}
