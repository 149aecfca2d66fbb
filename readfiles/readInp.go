package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dheller1/inp2feap/mesh"
)

// Section kinds of an Abaqus .inp file this reader interprets. Every
// other keyword section (boundary conditions, steps, parts, ...) is
// skipped.
type readMode uint8

const (
	modeNone readMode = iota
	modeNodes
	modeElems
	modeNSet
	modeElSet
)

// ReadInp reads an Abaqus .inp file into a Mesh. nodesPerElem fixes the
// element width; pass 0 to infer it from the first element record. With
// a fixed width, element connectivity may span multiple physical lines.
func ReadInp(filename string, nodesPerElem int, verbose bool) (*mesh.Mesh, error) {
	var (
		file *os.File
		err  error
	)
	if verbose {
		fmt.Printf("Parsing input file '%s'.\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open mesh file: %w", err)
	}
	defer file.Close()
	m, err := ParseInp(file, nodesPerElem, verbose)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", filename, err)
	}
	return m, nil
}

// ParseInp is the reader-based core of ReadInp, separated out so tests
// can feed it embedded input.
func ParseInp(r io.Reader, nodesPerElem int, verbose bool) (*mesh.Mesh, error) {
	p := &inpParser{
		mode:     modeNone,
		numNodes: nodesPerElem,
		widthSet: nodesPerElem > 0,
		explicit: nodesPerElem > 0,
		verbose:  verbose,
		m:        &mesh.Mesh{},
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "*") {
			p.keywordLine(line)
			continue
		}
		if err := p.dataLine(line); err != nil {
			return nil, fmt.Errorf("line %d: %s", p.lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading mesh file: %w", err)
	}
	p.flushWarnings()

	m := p.m
	m.NodesPerElem = p.numNodes
	if verbose {
		fmt.Printf(".Parsed %d nodes (ndim=%d) and %d elements (nodes per element=%d).\n",
			len(m.Nodes), m.NDim, len(m.Elems), m.NodesPerElem)
		if len(m.NSets) > 0 || len(m.ElSets) > 0 {
			fmt.Printf(".Parsed %d node sets and %d element sets.\n", len(m.NSets), len(m.ElSets))
		}
		if len(p.ignored) > 0 {
			fmt.Printf(".Ignored lines with unknown input: %s\n", joinInts(p.ignored))
		}
	}
	return m, nil
}

type inpParser struct {
	mode   readMode
	lineNo int

	numNodes int  // nodes per element, -ish: 0 until known
	widthSet bool // numNodes is fixed (configured or inferred)
	explicit bool // width was configured, enables multi-line records
	verbose  bool
	pending  []int

	curNSet  *mesh.NodeSet
	curElSet *mesh.ElSet
	generate bool

	ignored []int

	m *mesh.Mesh
}

// keywordLine switches the section state on a '*'-prefixed line. The
// keyword is the first comma-field, matched case-insensitively; comment
// lines ('**') and unknown keywords end the current section.
func (p *inpParser) keywordLine(line string) {
	keyword := strings.TrimSpace(strings.SplitN(line, ",", 2)[0])
	switch {
	case strings.EqualFold(keyword, "*Node"):
		p.flushWarnings()
		p.mode = modeNodes
	case strings.EqualFold(keyword, "*Element"):
		p.flushWarnings()
		p.mode = modeElems
		p.pending = p.pending[:0]
	case strings.EqualFold(keyword, "*Nset"):
		p.flushWarnings()
		p.mode = modeNSet
		name, gen := setParams(line, "nset")
		p.curNSet = &mesh.NodeSet{Name: name}
		p.generate = gen
		p.m.NSets = append(p.m.NSets, p.curNSet)
	case strings.EqualFold(keyword, "*Elset"):
		p.flushWarnings()
		p.mode = modeElSet
		name, gen := setParams(line, "elset")
		p.curElSet = &mesh.ElSet{Name: name}
		p.generate = gen
		p.m.ElSets = append(p.m.ElSets, p.curElSet)
	default:
		p.flushWarnings()
		p.mode = modeNone
	}
}

func (p *inpParser) dataLine(line string) error {
	switch p.mode {
	case modeNodes:
		return p.nodeRecord(line)
	case modeElems:
		return p.elemRecord(line)
	case modeNSet:
		ids, err := p.setRecord(line)
		if err != nil {
			return err
		}
		p.curNSet.Nodes = append(p.curNSet.Nodes, ids...)
	case modeElSet:
		ids, err := p.setRecord(line)
		if err != nil {
			return err
		}
		p.curElSet.Elems = append(p.curElSet.Elems, ids...)
	case modeNone:
		p.ignored = append(p.ignored, p.lineNo)
	}
	return nil
}

// nodeRecord parses 'id, x, y' or 'id, x, y, z'.
func (p *inpParser) nodeRecord(line string) error {
	fields := splitFields(line)
	if len(fields) != 3 && len(fields) != 4 {
		return fmt.Errorf("node record needs 3 or 4 fields, got %d: [%s]", len(fields), line)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("bad node id %q: [%s]", fields[0], line)
	}
	n := &mesh.Node{ID: id, NDim: len(fields) - 1}
	coords := []*float64{&n.X, &n.Y, &n.Z}
	for i, f := range fields[1:] {
		if *coords[i], err = strconv.ParseFloat(f, 64); err != nil {
			return fmt.Errorf("bad coordinate %q: [%s]", f, line)
		}
	}
	if p.m.NDim == 0 {
		p.m.NDim = n.NDim
	} else if p.m.NDim != n.NDim {
		fmt.Fprintf(os.Stderr, "Warning: node %d spatial dimension %d doesn't match previous dimension %d.\n",
			n.ID, n.NDim, p.m.NDim)
		p.m.NDim = n.NDim
	}
	p.m.Nodes = append(p.m.Nodes, n)
	return nil
}

func (p *inpParser) elemRecord(line string) error {
	ints, err := parseInts(line)
	if err != nil {
		return err
	}
	if !p.explicit {
		// One element per record; the first record fixes the width.
		if len(ints) < 2 {
			return fmt.Errorf("element record needs an id and at least one node: [%s]", line)
		}
		width := len(ints) - 1
		if !p.widthSet {
			p.numNodes = width
			p.widthSet = true
			if p.verbose {
				fmt.Printf(".Assuming %d nodes per element.\n", width)
			}
		} else if width != p.numNodes {
			return fmt.Errorf("element %d has %d nodes, expected %d", ints[0], width, p.numNodes)
		}
		p.m.Elems = append(p.m.Elems, mesh.NewElement(ints[0], ints[1:]))
		return nil
	}
	// Fixed width: connectivity may continue on following lines, so
	// accumulate values and cut an element per 1+numNodes of them.
	p.pending = append(p.pending, ints...)
	for len(p.pending) >= 1+p.numNodes {
		rec := p.pending[:1+p.numNodes]
		nodes := make([]int, p.numNodes)
		copy(nodes, rec[1:])
		p.m.Elems = append(p.m.Elems, mesh.NewElement(rec[0], nodes))
		p.pending = p.pending[1+p.numNodes:]
	}
	return nil
}

// setRecord parses one membership line, either an explicit id list or,
// under 'generate', an inclusive 'start, end, step' range.
func (p *inpParser) setRecord(line string) ([]int, error) {
	ints, err := parseInts(line)
	if err != nil {
		return nil, err
	}
	if !p.generate {
		return ints, nil
	}
	if len(ints) != 3 {
		return nil, fmt.Errorf("generated set needs 3 fields (start, end, step), got %d: [%s]", len(ints), line)
	}
	start, end, step := ints[0], ints[1], ints[2]
	if step < 1 {
		return nil, fmt.Errorf("generated set step must be positive, got %d: [%s]", step, line)
	}
	var ids []int
	for id := start; id <= end; id += step {
		ids = append(ids, id)
	}
	return ids, nil
}

// flushWarnings reports element values left over from an ended element
// section, a sign of misaligned connectivity input.
func (p *inpParser) flushWarnings() {
	if len(p.pending) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: there are still %d unprocessed element input entries.\n", len(p.pending))
		p.pending = p.pending[:0]
	}
}

// setParams extracts 'key=NAME' and the bare 'generate' flag from a set
// keyword line.
func setParams(line, key string) (name string, generate bool) {
	name = "UNKNOWN_" + strings.ToUpper(key)
	for _, part := range strings.Split(line, ",")[1:] {
		part = strings.TrimSpace(part)
		if strings.EqualFold(part, "generate") {
			generate = true
			continue
		}
		if k, v, ok := strings.Cut(part, "="); ok {
			if strings.EqualFold(strings.TrimSpace(k), key) {
				name = strings.TrimSpace(v)
			}
		}
	}
	return
}

// splitFields splits a comma-separated record, dropping empty tokens
// such as the one behind a trailing comma.
func splitFields(line string) (fields []string) {
	for _, f := range strings.Split(line, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return
}

func parseInts(line string) ([]int, error) {
	fields := splitFields(line)
	ints := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q: [%s]", f, line)
		}
		ints[i] = v
	}
	return ints, nil
}

func joinInts(vals []int) string {
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = strconv.Itoa(v)
	}
	return strings.Join(strs, ", ")
}
