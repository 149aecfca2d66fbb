package readfiles

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInp(t *testing.T) {
	m, err := ParseInp(bytes.NewReader(inputFile), 0, false)
	require.NoError(t, err)

	{ // Nodes
		require.Len(t, m.Nodes, 8)
		assert.Equal(t, 3, m.NDim)
		n := m.Nodes[5]
		assert.Equal(t, 6, n.ID)
		assert.Equal(t, 2.0, n.X)
		assert.Equal(t, 0.0, n.Y)
		assert.Equal(t, 1.5, n.Z)
	}
	{ // Elements, width inferred from the first record
		require.Len(t, m.Elems, 1)
		assert.Equal(t, 8, m.NodesPerElem)
		e := m.Elems[0]
		assert.Equal(t, 1, e.ID)
		assert.Equal(t, 1, e.Mat)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, e.Nodes)
	}
	{ // Sets
		ns, ok := m.NodeSet("bottom")
		require.True(t, ok)
		assert.Equal(t, []int{1, 2, 3, 4}, ns.Nodes)
		es, ok := m.ElSet("solid")
		require.True(t, ok)
		assert.Equal(t, []int{1}, es.Elems)
	}
	{ // Referential integrity of the parsed mesh
		assert.NoError(t, m.Validate())
	}
}

func TestParseInpGeneratedSets(t *testing.T) {
	src := []byte(`*Node
1, 0., 0., 0.
2, 1., 0., 0.
3, 2., 0., 0.
4, 3., 0., 0.
5, 4., 0., 0.
*Element
1, 1, 2, 3, 4
*Nset, nset=odd, generate
1, 5, 2
*Elset, elset=range, generate
1, 1, 1
`)
	m, err := ParseInp(bytes.NewReader(src), 0, false)
	require.NoError(t, err)

	ns, ok := m.NodeSet("odd")
	require.True(t, ok)
	assert.Equal(t, []int{1, 3, 5}, ns.Nodes)

	es, ok := m.ElSet("range")
	require.True(t, ok)
	assert.Equal(t, []int{1}, es.Elems)
}

func TestParseInpMultiLineElements(t *testing.T) {
	// With an explicit width, connectivity may continue across lines.
	src := []byte(`*Node
1, 0., 0., 0.
2, 1., 0., 0.
3, 1., 1., 0.
4, 0., 1., 0.
5, 0., 0., 1.
6, 1., 0., 1.
7, 1., 1., 1.
8, 0., 1., 1.
*Element, type=C3D8
1, 1, 2, 3, 4,
5, 6, 7, 8
2, 1, 2, 3,
4, 5, 6,
7, 8
`)
	m, err := ParseInp(bytes.NewReader(src), 8, false)
	require.NoError(t, err)
	require.Len(t, m.Elems, 2)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, m.Elems[0].Nodes)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, m.Elems[1].Nodes)
	assert.Equal(t, 2, m.Elems[1].ID)
}

func TestParseInpWidthMismatch(t *testing.T) {
	src := []byte(`*Element
1, 1, 2, 3, 4
2, 1, 2, 3
`)
	_, err := ParseInp(bytes.NewReader(src), 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 2")
	assert.Contains(t, err.Error(), "expected 4")
}

func TestParseInpBadNumerics(t *testing.T) {
	{ // Bad coordinate, error cites the line
		src := []byte(`*Node
1, 0.0, oops, 0.0
`)
		_, err := ParseInp(bytes.NewReader(src), 0, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
		assert.Contains(t, err.Error(), "oops")
	}
	{ // Bad element id
		src := []byte(`*Element
x, 1, 2, 3
`)
		_, err := ParseInp(bytes.NewReader(src), 0, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	}
	{ // Generated range needs exactly 3 fields
		src := []byte(`*Nset, nset=a, generate
1, 10
`)
		_, err := ParseInp(bytes.NewReader(src), 0, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "start, end, step")
	}
}

func TestParseInp2DNodes(t *testing.T) {
	src := []byte(`*Node
1, 0.0, 0.0
2, 1.0, 0.0
3, 0.5, 1.0
*Element
1, 1, 2, 3
`)
	m, err := ParseInp(bytes.NewReader(src), 0, false)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NDim)
	assert.Equal(t, 2, m.Nodes[0].NDim)
	assert.Equal(t, 0.0, m.Nodes[2].Z)
	assert.Equal(t, 1.0, m.Nodes[2].Y)
}

func TestParseInpIgnoresUnknownSections(t *testing.T) {
	src := []byte(`*Heading
 some model title
*Node
1, 0., 0., 0.
2, 1., 0., 0.
3, 0., 1., 0.
*Boundary
1, ENCASTRE
*Element
1, 1, 2, 3
** a comment between sections
*Elset, elset=all
1,
`)
	m, err := ParseInp(bytes.NewReader(src), 0, false)
	require.NoError(t, err)
	assert.Len(t, m.Nodes, 3)
	assert.Len(t, m.Elems, 1)
	es, ok := m.ElSet("all")
	require.True(t, ok)
	assert.Equal(t, []int{1}, es.Elems)
}

func TestParseInpCaseInsensitiveKeywords(t *testing.T) {
	src := []byte(`*NODE
1, 0., 0., 0.
*ELEMENT, TYPE=S3
1, 1, 1, 1
*NSET, NSET=top
1
`)
	m, err := ParseInp(bytes.NewReader(src), 0, false)
	require.NoError(t, err)
	assert.Len(t, m.Nodes, 1)
	assert.Len(t, m.Elems, 1)
	_, ok := m.NodeSet("top")
	assert.True(t, ok)
}

var inputFile = []byte(`*Heading
** Job name: cube Model name: Model-1
** Generated by: Abaqus/CAE
*Part, name=cube
*Node
       1,           0.,           0.,           0.
       2,           2.,           0.,           0.
       3,           2.,           2.,           0.
       4,           0.,           2.,           0.
       5,           0.,           0.,          1.5
       6,           2.,           0.,          1.5
       7,           2.,           2.,          1.5
       8,           0.,           2.,          1.5
*Element, type=C3D8R
1, 1, 2, 3, 4, 5, 6, 7, 8
*Nset, nset=bottom
 1, 2, 3, 4
*Elset, elset=solid
 1,
*End Part
`)
