package tree

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/codec"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
)

// Solution file directives.
const (
	tokSolution = "[Solution]"
	tokTag      = "[Tag]"
	tokProject  = "[Project]"
	tokDiagram  = "[Diagram]"
	tokBind     = "[Bind]"
)

// diagramFields is the field count of a "[Diagram]" line: the token, the
// name and eleven property values.
const diagramFields = 13

// Serialize writes the whole solution:
//
//	[Solution];Adder
//	[Tag];A;%I0.0
//	[Project];Main
//	[Diagram];Half;1260;891;330;31;600;750;30;15;15;0;0
//	[Bind];Input|0;A
//	+;Input|0;30;30
//	...
//
// Each diagram body is its diagram text without the "[Diagram]" header.
func Serialize(t *Tree) string {
	var b strings.Builder
	s := t.solution
	fmt.Fprintf(&b, "%s;%s\n", tokSolution, s.name)
	for _, tag := range s.tags {
		fmt.Fprintf(&b, "%s;%s;%s\n", tokTag, tag.Key, tag.Value)
	}
	for _, p := range s.projects {
		fmt.Fprintf(&b, "%s;%s\n", tokProject, p.name)
		for _, d := range p.diagrams {
			fmt.Fprintf(&b, "%s;%s;%s\n", tokDiagram, d.name, strings.Join(propertyFields(d.Properties), ";"))
			for _, uid := range d.boundUIDs() {
				fmt.Fprintf(&b, "%s;%s;%s\n", tokBind, uid, d.bindings[uid])
			}
			b.WriteString(d.body())
		}
	}
	return b.String()
}

// Write encodes t to w. See [Serialize].
func Write(t *Tree, w io.Writer) error {
	if _, err := io.WriteString(w, Serialize(t)); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}
	return nil
}

// Export writes t to the solution file at path.
func Export(t *Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(t, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Import reads the solution file at path. See [Parse].
func Import(path string, opts ...Option) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, opts...)
}

// Read decodes a solution from r. See [Parse].
func Read(r io.Reader, opts ...Option) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read solution: %w", err)
	}
	return Parse(string(data), opts...)
}

// Parse decodes solution text into a new tree. Every diagram body is
// parsed to validate it; errors carry line numbers of the solution text.
// After parsing, the first diagram, if any, is active and nothing is
// selected.
func Parse(text string, opts ...Option) (*Tree, error) {
	r := &solutionReader{opts: opts}
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		if err := r.line(i+1, strings.TrimSuffix(raw, "\r")); err != nil {
			return nil, err
		}
	}
	if err := r.finishDiagram(); err != nil {
		return nil, err
	}
	if r.t == nil {
		return nil, errors.AtLine(errors.ErrCodeMalformedLine, 1, "missing %s line", tokSolution)
	}

	t := r.t
	t.selected = nil
	if all := t.Diagrams(); len(all) > 0 {
		if err := t.SwitchTo(all[0]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

type pendingBind struct {
	line int
	uid  ids.UID
	key  string
}

type solutionReader struct {
	opts    []Option
	t       *Tree
	project *Project
	diagram *Diagram

	// Body of the open diagram, one entry per line after its header line.
	// Directive lines inside the block are kept as blanks so codec line
	// numbers stay aligned.
	bodyStart int
	body      []string
	binds     []pendingBind
}

func (r *solutionReader) line(n int, line string) error {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") {
		if r.diagram != nil {
			r.body = append(r.body, line)
			return nil
		}
		if trimmed == "" {
			return nil
		}
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "diagram line outside a diagram block")
	}

	fields := strings.Split(trimmed, ";")
	if r.t == nil && fields[0] != tokSolution {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "expected %s line", tokSolution)
	}
	switch fields[0] {
	case tokSolution:
		return r.solution(n, fields)
	case tokTag:
		return r.tag(n, fields)
	case tokProject:
		return r.projectLine(n, fields)
	case tokDiagram:
		return r.diagramLine(n, fields)
	case tokBind:
		return r.bind(n, fields)
	}
	return errors.AtLine(errors.ErrCodeMalformedLine, n, "unknown directive %q", fields[0])
}

func (r *solutionReader) solution(n int, fields []string) error {
	if r.t != nil {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "duplicate %s line", tokSolution)
	}
	if len(fields) != 2 {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "%s line has %d fields, want 2", tokSolution, len(fields))
	}
	t, err := New(fields[1], r.opts...)
	if err != nil {
		return atLine(err, n)
	}
	r.t = t
	return nil
}

func (r *solutionReader) tag(n int, fields []string) error {
	if r.project != nil {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "%s lines must precede projects", tokTag)
	}
	if len(fields) != 3 {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "%s line has %d fields, want 3", tokTag, len(fields))
	}
	if _, exists := r.t.Tag(fields[1]); exists {
		return errors.AtLine(errors.ErrCodeDuplicateID, n, "duplicate tag %q", fields[1])
	}
	if err := r.t.SetTag(fields[1], fields[2]); err != nil {
		return atLine(err, n)
	}
	return nil
}

func (r *solutionReader) projectLine(n int, fields []string) error {
	if err := r.finishDiagram(); err != nil {
		return err
	}
	if len(fields) != 2 {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "%s line has %d fields, want 2", tokProject, len(fields))
	}
	p, err := r.t.AddProject(fields[1])
	if err != nil {
		return atLine(err, n)
	}
	r.project = p
	return nil
}

func (r *solutionReader) diagramLine(n int, fields []string) error {
	if err := r.finishDiagram(); err != nil {
		return err
	}
	if r.project == nil {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "%s line outside a project", tokDiagram)
	}
	if len(fields) != diagramFields {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "%s line has %d fields, want %d",
			tokDiagram, len(fields), diagramFields)
	}
	props, err := parseProperties(n, fields[2:])
	if err != nil {
		return err
	}
	d, err := r.t.AddDiagramWith(r.project, fields[1], props)
	if err != nil {
		return atLine(err, n)
	}
	r.diagram = d
	r.bodyStart = n
	return nil
}

func (r *solutionReader) bind(n int, fields []string) error {
	if r.diagram == nil {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "%s line outside a diagram block", tokBind)
	}
	if len(fields) != 3 {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "%s line has %d fields, want 3", tokBind, len(fields))
	}
	uid, err := codec.ParseUID(fields[1])
	if err != nil {
		return atLine(err, n)
	}
	r.binds = append(r.binds, pendingBind{line: n, uid: uid, key: fields[2]})
	r.body = append(r.body, "")
	return nil
}

// finishDiagram parses the open diagram body and applies its bindings.
func (r *solutionReader) finishDiagram() error {
	d := r.diagram
	if d == nil {
		return nil
	}
	r.diagram = nil
	binds := r.binds
	body := strings.Join(r.body, "\n")
	r.binds, r.body = nil, nil

	g, err := codec.Parse(body)
	if err != nil {
		return errors.Rebase(err, r.bodyStart)
	}
	d.snapshot = codec.Serialize(g)
	d.alloc = g.Allocator()

	for _, b := range binds {
		if !g.Has(b.uid) {
			return errors.AtLine(errors.ErrCodeUnknownElement, b.line, "unknown element %s", b.uid)
		}
		if err := r.t.BindTag(d, b.uid, b.key); err != nil {
			return atLine(err, b.line)
		}
	}
	return nil
}

func propertyFields(p circuit.Properties) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		strconv.Itoa(p.PageWidth), strconv.Itoa(p.PageHeight),
		strconv.Itoa(p.GridOriginX), strconv.Itoa(p.GridOriginY),
		strconv.Itoa(p.GridWidth), strconv.Itoa(p.GridHeight),
		strconv.Itoa(p.GridSize),
		f(p.SnapX), f(p.SnapY), f(p.SnapOffsetX), f(p.SnapOffsetY),
	}
}

func parseProperties(n int, fields []string) (circuit.Properties, error) {
	var p circuit.Properties
	ints := []*int{&p.PageWidth, &p.PageHeight, &p.GridOriginX, &p.GridOriginY, &p.GridWidth, &p.GridHeight, &p.GridSize}
	floats := []*float64{&p.SnapX, &p.SnapY, &p.SnapOffsetX, &p.SnapOffsetY}
	for i, dst := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return p, errors.AtLine(errors.ErrCodeMalformedNumber, n, "malformed property %q", fields[i])
		}
		*dst = v
	}
	for i, dst := range floats {
		s := strings.TrimSpace(fields[len(ints)+i])
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return p, errors.AtLine(errors.ErrCodeMalformedNumber, n, "malformed property %q", s)
		}
		*dst = v
	}
	return p, nil
}

func atLine(err error, n int) error {
	return errors.AtLine(errors.GetCode(err), n, "%s", errors.UserMessage(err))
}
