package tree

import (
	"slices"
	"testing"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/codec"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
)

func newTree(t *testing.T) *Tree {
	t.Helper()
	tr, err := New("Solution")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return tr
}

func mustProject(t *testing.T, tr *Tree, name string) *Project {
	t.Helper()
	p, err := tr.AddProject(name)
	if err != nil {
		t.Fatalf("AddProject(%q) error: %v", name, err)
	}
	return p
}

func mustDiagram(t *testing.T, tr *Tree, p *Project, name string) *Diagram {
	t.Helper()
	d, err := tr.AddDiagram(p, name)
	if err != nil {
		t.Fatalf("AddDiagram(%q) error: %v", name, err)
	}
	return d
}

func mustSwitch(t *testing.T, tr *Tree, d *Diagram) {
	t.Helper()
	if err := tr.SwitchTo(d); err != nil {
		t.Fatalf("SwitchTo(%s) error: %v", nameOf(d), err)
	}
}

func names[N Node](nodes []N) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func TestNewValidatesName(t *testing.T) {
	for _, name := range []string{"", "a;b", "line\nbreak"} {
		if _, err := New(name); !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("New(%q) error = %v, want INVALID_NAME", name, err)
		}
	}
}

func TestAddProjectPosition(t *testing.T) {
	tr := newTree(t)
	a := mustProject(t, tr, "A")
	mustProject(t, tr, "B")
	if err := tr.Select(a); err != nil {
		t.Fatal(err)
	}
	mustProject(t, tr, "C")

	want := []string{"A", "C", "B"}
	if got := names(tr.Solution().Projects()); !slices.Equal(got, want) {
		t.Errorf("projects = %v, want %v", got, want)
	}

	// A selected diagram places the project after the diagram's project.
	d := mustDiagram(t, tr, a, "")
	if err := tr.Select(d); err != nil {
		t.Fatal(err)
	}
	mustProject(t, tr, "D")
	want = []string{"A", "D", "C", "B"}
	if got := names(tr.Solution().Projects()); !slices.Equal(got, want) {
		t.Errorf("projects = %v, want %v", got, want)
	}

	_ = tr.Select(nil)
	mustProject(t, tr, "E")
	if got := names(tr.Solution().Projects()); got[len(got)-1] != "E" {
		t.Errorf("unselected add should append, got %v", got)
	}
}

func TestAddDiagramPosition(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	q := mustProject(t, tr, "Q")
	first := mustDiagram(t, tr, p, "one")
	mustDiagram(t, tr, p, "two")
	_ = tr.Select(first)
	mustDiagram(t, tr, p, "between")

	want := []string{"one", "between", "two"}
	if got := names(p.Diagrams()); !slices.Equal(got, want) {
		t.Errorf("diagrams = %v, want %v", got, want)
	}

	// A selection in another project does not position the insert.
	_ = tr.Select(first)
	mustDiagram(t, tr, q, "q1")
	mustDiagram(t, tr, q, "q2")
	if got := names(q.Diagrams()); !slices.Equal(got, []string{"q1", "q2"}) {
		t.Errorf("q diagrams = %v", got)
	}
}

func TestDefaultNames(t *testing.T) {
	tr := newTree(t)
	p0 := mustProject(t, tr, "")
	p1 := mustProject(t, tr, "")
	d0 := mustDiagram(t, tr, p1, "")
	d1 := mustDiagram(t, tr, p0, "")

	if p0.Name() != "Project0" || p1.Name() != "Project1" {
		t.Errorf("project names = %q, %q", p0.Name(), p1.Name())
	}
	if d0.Name() != "Diagram0" || d1.Name() != "Diagram1" {
		t.Errorf("diagram names = %q, %q", d0.Name(), d1.Name())
	}
	if d1.UID() != (ids.UID{Kind: ids.Diagram, ID: 1}) {
		t.Errorf("UID() = %v", d1.UID())
	}
}

func TestAddDiagramRejects(t *testing.T) {
	tr := newTree(t)
	other := newTree(t)
	foreign := mustProject(t, other, "X")

	if _, err := tr.AddDiagram(foreign, "d"); !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Errorf("AddDiagram(foreign) error = %v, want REFERENCE_UNKNOWN_NODE", err)
	}
	p := mustProject(t, tr, "P")
	if _, err := tr.AddDiagram(p, "bad;name"); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("AddDiagram(bad name) error = %v", err)
	}
	// A rejected name does not consume an id.
	if d := mustDiagram(t, tr, p, ""); d.Name() != "Diagram0" {
		t.Errorf("Name() = %q, want Diagram0", d.Name())
	}
}

func TestSelectAndLookup(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	d := mustDiagram(t, tr, p, "D")

	if err := tr.Select(tr.Solution()); err != nil {
		t.Errorf("Select(solution) error: %v", err)
	}
	if err := tr.Select(&Project{name: "stray"}); !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Errorf("Select(stray) error = %v", err)
	}

	n, err := tr.Lookup(d.UID())
	if err != nil || n != Node(d) {
		t.Errorf("Lookup(%v) = %v, %v", d.UID(), n, err)
	}
	if _, err := tr.Lookup(ids.UID{Kind: ids.Project, ID: 9}); !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Errorf("Lookup(missing) error = %v", err)
	}
	if got, err := tr.Find("P", "D"); err != nil || got != d {
		t.Errorf("Find() = %v, %v", got, err)
	}
	if _, err := tr.Find("P", "nope"); err == nil {
		t.Error("Find(missing) should fail")
	}
}

func TestSwitchActiveDiagram(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	a := mustDiagram(t, tr, p, "A")
	b := mustDiagram(t, tr, p, "B")

	if _, err := tr.Graph(); !errors.Is(err, errors.ErrCodeNoActiveDiagram) {
		t.Errorf("Graph() with nothing active error = %v", err)
	}

	mustSwitch(t, tr, a)
	g, _ := tr.Graph()
	in, _ := g.CreateElement(ids.Input, 30, 30)
	a.History().Record("[Diagram]\n")

	mustSwitch(t, tr, b)
	if a.IsActive() || a.Graph() != nil {
		t.Error("A should be dormant after switching away")
	}
	if !b.IsActive() || tr.Active() != b {
		t.Error("B should be active")
	}
	if a.Text() != "[Diagram]\n+;Input|0;30;30\n" {
		t.Errorf("A snapshot = %q", a.Text())
	}

	mustSwitch(t, tr, a)
	g, _ = tr.Graph()
	if !g.Has(in) {
		t.Error("A's element was not restored")
	}
	if a.History().UndoDepth() != 1 || b.History().UndoDepth() != 0 {
		t.Errorf("histories = %d, %d, want 1, 0", a.History().UndoDepth(), b.History().UndoDepth())
	}
	// Ids keep counting across a dormant period.
	if next, _ := g.CreateElement(ids.Input, 0, 0); next.ID != 1 {
		t.Errorf("next Input id = %d, want 1", next.ID)
	}
}

func TestSwitchKeepsRetiredIDs(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	a := mustDiagram(t, tr, p, "A")
	b := mustDiagram(t, tr, p, "B")

	mustSwitch(t, tr, a)
	g, _ := tr.Graph()
	uid, _ := g.CreateElement(ids.AndGate, 0, 0)
	_ = g.DeleteElement(uid)

	mustSwitch(t, tr, b)
	mustSwitch(t, tr, a)
	g, _ = tr.Graph()
	if next, _ := g.CreateElement(ids.AndGate, 0, 0); next.ID != 1 {
		t.Errorf("next AndGate id = %d, want 1 (deleted ids stay retired)", next.ID)
	}
}

func TestSwitchCorruptSnapshot(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	a := mustDiagram(t, tr, p, "A")
	b := mustDiagram(t, tr, p, "B")
	mustSwitch(t, tr, a)
	g, _ := tr.Graph()
	_, _ = g.CreateElement(ids.Output, 5, 5)
	b.snapshot = "[Diagram]\n+;Bogus|0;1;2\n"

	err := tr.SwitchTo(b)
	if !errors.Is(err, errors.ErrCodeUnknownKind) || errors.GetLine(err) != 2 {
		t.Fatalf("SwitchTo(corrupt) error = %v, want PARSE_UNKNOWN_KIND at line 2", err)
	}
	if tr.Active() != a || !a.IsActive() || a.Graph() != g {
		t.Error("A should remain active with its live graph")
	}
	if b.IsActive() {
		t.Error("B should not be active")
	}
}

func TestSwitchRequiresActiveFrom(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	a := mustDiagram(t, tr, p, "A")
	b := mustDiagram(t, tr, p, "B")
	mustSwitch(t, tr, a)

	if err := tr.SwitchActiveDiagram(b, a); !errors.Is(err, errors.ErrCodeNotActive) {
		t.Errorf("SwitchActiveDiagram(B, A) error = %v, want INVARIANT_NOT_ACTIVE", err)
	}
	if err := tr.SwitchActiveDiagram(a, a); err != nil {
		t.Errorf("SwitchActiveDiagram(A, A) error = %v", err)
	}
	if err := tr.SwitchActiveDiagram(a, nil); err != nil || tr.Active() != nil {
		t.Errorf("switch to nil: err = %v, active = %v", err, tr.Active())
	}
	if a.IsActive() {
		t.Error("A should be committed")
	}
}

func TestDeleteActiveDiagram(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	q := mustProject(t, tr, "Q")
	a := mustDiagram(t, tr, p, "A")
	b := mustDiagram(t, tr, p, "B")
	c := mustDiagram(t, tr, p, "C")
	x := mustDiagram(t, tr, q, "X")

	mustSwitch(t, tr, b)
	steps := []struct {
		del  *Diagram
		want *Diagram
	}{
		{b, c}, // next sibling
		{c, a}, // previous sibling
		{a, x}, // other project
		{x, nil},
	}
	for _, s := range steps {
		if err := tr.DeleteDiagram(s.del); err != nil {
			t.Fatalf("DeleteDiagram(%s) error: %v", s.del.Name(), err)
		}
		if tr.Active() != s.want {
			t.Errorf("after deleting %s active = %s, want %s", s.del.Name(), nameOf(tr.Active()), nameOf(s.want))
		}
		if s.want != nil && !s.want.IsActive() {
			t.Errorf("%s should hold a live graph", s.want.Name())
		}
	}
	if len(tr.Diagrams()) != 0 {
		t.Errorf("Diagrams() = %v", names(tr.Diagrams()))
	}
	if err := tr.DeleteDiagram(a); !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Errorf("second delete error = %v", err)
	}
}

func TestDeleteActiveDiagramAbortsOnCorruptFallback(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	a := mustDiagram(t, tr, p, "A")
	b := mustDiagram(t, tr, p, "B")
	mustSwitch(t, tr, a)
	b.snapshot = "+;Input|0;x;0\n"

	if err := tr.DeleteDiagram(a); !errors.IsParse(err) {
		t.Fatalf("DeleteDiagram error = %v, want parse error", err)
	}
	if tr.Active() != a || len(p.Diagrams()) != 2 {
		t.Error("failed delete must leave the tree unchanged")
	}
}

func TestDeleteProject(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	q := mustProject(t, tr, "Q")
	r := mustProject(t, tr, "R")
	mustDiagram(t, tr, p, "p1")
	q1 := mustDiagram(t, tr, q, "q1")
	r1 := mustDiagram(t, tr, r, "r1")
	mustSwitch(t, tr, q1)
	_ = tr.Select(q1)

	if err := tr.DeleteProject(q); err != nil {
		t.Fatalf("DeleteProject() error: %v", err)
	}
	if tr.Active() != r1 {
		t.Errorf("active = %s, want r1", nameOf(tr.Active()))
	}
	if tr.Selected() != Node(tr.Solution()) {
		t.Errorf("selected = %v, want solution", tr.Selected())
	}
	if got := names(tr.Solution().Projects()); !slices.Equal(got, []string{"P", "R"}) {
		t.Errorf("projects = %v", got)
	}
	if _, err := tr.Lookup(q1.UID()); err == nil {
		t.Error("diagrams of a deleted project should be gone")
	}
}

func TestNavigation(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	q := mustProject(t, tr, "Q")
	a := mustDiagram(t, tr, p, "A")
	b := mustDiagram(t, tr, p, "B")
	x := mustDiagram(t, tr, q, "X")

	if tr.NextDiagram(ScopeSolution) != nil {
		t.Error("NextDiagram with nothing active should be nil")
	}
	mustSwitch(t, tr, b)

	tests := []struct {
		name string
		got  *Diagram
		want *Diagram
	}{
		{"next in project wraps", tr.NextDiagram(ScopeProject), a},
		{"previous in project", tr.PreviousDiagram(ScopeProject), a},
		{"next in solution", tr.NextDiagram(ScopeSolution), x},
		{"previous in solution", tr.PreviousDiagram(ScopeSolution), a},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, nameOf(tt.got), nameOf(tt.want))
		}
	}

	mustSwitch(t, tr, x)
	if got := tr.NextDiagram(ScopeSolution); got != a {
		t.Errorf("next in solution from last = %s, want A", nameOf(got))
	}
	if got := tr.NextDiagram(ScopeProject); got != x {
		t.Errorf("next in single-diagram project = %s, want X", nameOf(got))
	}
}

func TestTags(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	d := mustDiagram(t, tr, p, "D")
	mustSwitch(t, tr, d)
	g, _ := tr.Graph()
	in, _ := g.CreateElement(ids.Input, 0, 0)
	gate, _ := g.CreateElement(ids.AndGate, 0, 0)

	if err := tr.SetTag("Start", "%I0.0"); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetTag("Stop", "%I0.1"); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetTag("Start", "%I0.2"); err != nil {
		t.Fatal(err)
	}
	if v, _ := tr.Tag("Start"); v != "%I0.2" {
		t.Errorf("Tag(Start) = %q", v)
	}
	if got := tr.Solution().Tags(); len(got) != 2 || got[0].Key != "Start" {
		t.Errorf("Tags() = %v, want insertion order kept", got)
	}

	tests := []struct {
		name string
		uid  ids.UID
		key  string
		code errors.Code
	}{
		{"input", in, "Start", ""},
		{"gate", gate, "Start", errors.ErrCodeWrongKind},
		{"unknown tag", in, "Nope", errors.ErrCodeUnknownTag},
		{"missing element", ids.UID{Kind: ids.Output, ID: 4}, "Stop", errors.ErrCodeUnknownElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tr.BindTag(d, tt.uid, tt.key)
			if errors.GetCode(err) != tt.code {
				t.Errorf("BindTag() error = %v, want %q", err, tt.code)
			}
		})
	}

	if key, ok := d.Binding(in); !ok || key != "Start" {
		t.Errorf("Binding(in) = %q, %v", key, ok)
	}
	if err := tr.DeleteTag("Start"); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Binding(in); ok {
		t.Error("deleting a tag should drop its bindings")
	}
	if err := tr.DeleteTag("Start"); !errors.Is(err, errors.ErrCodeUnknownTag) {
		t.Errorf("DeleteTag(missing) error = %v", err)
	}
	if err := tr.SetTag("bad;key", ""); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("SetTag(bad) error = %v", err)
	}
}

func TestRename(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	d := mustDiagram(t, tr, p, "D")

	for _, n := range []Node{tr.Solution(), p, d} {
		if err := tr.Rename(n, "Renamed"); err != nil {
			t.Errorf("Rename(%T) error: %v", n, err)
		}
		if n.Name() != "Renamed" {
			t.Errorf("%T name = %q", n, n.Name())
		}
	}
	if err := tr.Rename(d, ""); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("Rename(empty) error = %v", err)
	}
}

func TestDiagramTexts(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	q := mustProject(t, tr, "Q")
	a := mustDiagram(t, tr, p, "A")
	mustDiagram(t, tr, q, "X")

	if _, err := tr.DiagramTexts(ScopeProject); !errors.Is(err, errors.ErrCodeNoActiveDiagram) {
		t.Errorf("DiagramTexts(project) without active error = %v", err)
	}
	mustSwitch(t, tr, a)
	g, _ := tr.Graph()
	_, _ = g.CreateElement(ids.OrGate, 1, 2)

	project, err := tr.DiagramTexts(ScopeProject)
	if err != nil || len(project) != 1 {
		t.Fatalf("DiagramTexts(project) = %v, %v", project, err)
	}
	if project[0].Text != codec.Serialize(g) {
		t.Errorf("live diagram text = %q", project[0].Text)
	}
	all, _ := tr.DiagramTexts(ScopeSolution)
	if len(all) != 2 || all[1].Project != "Q" || all[1].Text != "[Diagram]\n" {
		t.Errorf("DiagramTexts(solution) = %+v", all)
	}
}

func TestWithDefaults(t *testing.T) {
	props := circuit.DefaultProperties()
	props.SnapX = 5
	tr, err := New("S", WithDefaults(props))
	if err != nil {
		t.Fatal(err)
	}
	d := mustDiagram(t, tr, mustProject(t, tr, "P"), "D")
	if d.Properties.SnapX != 5 {
		t.Errorf("SnapX = %v, want 5", d.Properties.SnapX)
	}
}

func TestBindingsFollowGraph(t *testing.T) {
	tr := newTree(t)
	p := mustProject(t, tr, "P")
	a := mustDiagram(t, tr, p, "A")
	b := mustDiagram(t, tr, p, "B")
	mustSwitch(t, tr, a)
	_ = tr.SetTag("Start", "%I0.0")

	g, _ := tr.Graph()
	in, _ := g.CreateElement(ids.Input, 0, 0)
	out, _ := g.CreateElement(ids.Output, 50, 0)
	for _, uid := range []ids.UID{in, out} {
		if err := tr.BindTag(a, uid, "Start"); err != nil {
			t.Fatal(err)
		}
	}

	// An element removed behind the tree's back is not written out.
	_ = g.DeleteElement(out)
	if _, ok := a.Binding(out); ok {
		t.Error("Binding(out) reported for a missing element")
	}
	if _, err := Parse(Serialize(tr)); err != nil {
		t.Fatalf("Parse(Serialize()) with a removed element: %v", err)
	}

	// Replacing the graph drops bindings it no longer covers.
	if err := tr.ReplaceGraph(circuit.New(g.Allocator())); err != nil {
		t.Fatal(err)
	}
	if got := a.Bindings(); len(got) != 0 {
		t.Errorf("Bindings() after ReplaceGraph = %v, want none", got)
	}

	// Committing on switch prunes too.
	g, _ = tr.Graph()
	in, _ = g.CreateElement(ids.Input, 0, 0)
	_ = tr.BindTag(a, in, "Start")
	_ = g.DeleteElement(in)
	mustSwitch(t, tr, b)
	if got := a.Bindings(); len(got) != 0 {
		t.Errorf("Bindings() after commit = %v, want none", got)
	}
	if _, err := Parse(Serialize(tr)); err != nil {
		t.Fatalf("Parse(Serialize()) after commit: %v", err)
	}
}
