package tree

import (
	"fmt"
	"slices"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
	"github.com/matzehuels/logicdiagram/pkg/observability"
)

// Tree is a solution with its selection and active diagram.
// A Tree is not safe for concurrent use.
type Tree struct {
	solution *Solution
	alloc    *ids.Allocator
	defaults circuit.Properties
	selected Node
	active   *Diagram
}

// Option configures a new Tree.
type Option func(*Tree)

// WithDefaults sets the properties given to diagrams added without
// explicit properties.
func WithDefaults(p circuit.Properties) Option {
	return func(t *Tree) { t.defaults = p }
}

// New returns a tree with an empty solution named name.
func New(name string, opts ...Option) (*Tree, error) {
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	t := &Tree{
		solution: &Solution{name: name},
		alloc:    ids.NewAllocator(),
		defaults: circuit.DefaultProperties(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Solution returns the root node.
func (t *Tree) Solution() *Solution { return t.solution }

// Defaults returns the properties used for new diagrams.
func (t *Tree) Defaults() circuit.Properties { return t.defaults }

// Selected returns the selected node, or nil.
func (t *Tree) Selected() Node { return t.selected }

// Select makes n the selected node. A nil n clears the selection.
func (t *Tree) Select(n Node) error {
	if n != nil && !t.contains(n) {
		return errors.New(errors.ErrCodeUnknownNode, "%s is not in the tree", n.Name())
	}
	t.selected = n
	return nil
}

// Diagrams returns every diagram in solution order.
func (t *Tree) Diagrams() []*Diagram {
	var out []*Diagram
	for _, p := range t.solution.projects {
		out = append(out, p.diagrams...)
	}
	return out
}

// Lookup resolves a Project or Diagram handle.
func (t *Tree) Lookup(uid ids.UID) (Node, error) {
	for _, p := range t.solution.projects {
		if p.UID() == uid {
			return p, nil
		}
		for _, d := range p.diagrams {
			if d.UID() == uid {
				return d, nil
			}
		}
	}
	return nil, errors.New(errors.ErrCodeUnknownNode, "unknown node %s", uid)
}

// Find returns the diagram named diagram in the project named project.
func (t *Tree) Find(project, diagram string) (*Diagram, error) {
	for _, p := range t.solution.projects {
		if p.name != project {
			continue
		}
		for _, d := range p.diagrams {
			if d.name == diagram {
				return d, nil
			}
		}
	}
	return nil, errors.New(errors.ErrCodeUnknownNode, "no diagram %q in project %q", diagram, project)
}

func (t *Tree) contains(n Node) bool {
	switch n := n.(type) {
	case *Solution:
		return n == t.solution
	case *Project:
		return slices.Contains(t.solution.projects, n)
	case *Diagram:
		return n.project != nil && slices.Contains(t.solution.projects, n.project) &&
			slices.Contains(n.project.diagrams, n)
	}
	return false
}

// AddProject inserts a new project after the selected project (or the
// project of the selected diagram), or appends it when nothing below the
// solution is selected. An empty name is replaced by "Project<id>".
// The new project becomes the selection.
func (t *Tree) AddProject(name string) (*Project, error) {
	id := t.alloc.Peek(ids.Project)
	if name == "" {
		name = fmt.Sprintf("Project%d", id)
	}
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	t.alloc.Next(ids.Project)
	p := &Project{id: id, name: name}

	at := len(t.solution.projects)
	if sel := t.selectedProject(); sel != nil {
		at = slices.Index(t.solution.projects, sel) + 1
	}
	t.solution.projects = slices.Insert(t.solution.projects, at, p)
	t.selected = p
	observability.Tree().OnStructure("add", "project", name)
	return p, nil
}

func (t *Tree) selectedProject() *Project {
	switch n := t.selected.(type) {
	case *Project:
		return n
	case *Diagram:
		return n.project
	}
	return nil
}

// AddDiagram inserts a new dormant, empty diagram into p, after the
// selected diagram if it belongs to p, else at the end. An empty name is
// replaced by "Diagram<id>". The diagram gets the tree's default
// properties and becomes the selection.
func (t *Tree) AddDiagram(p *Project, name string) (*Diagram, error) {
	return t.AddDiagramWith(p, name, t.defaults)
}

// AddDiagramWith is AddDiagram with explicit properties.
func (t *Tree) AddDiagramWith(p *Project, name string, props circuit.Properties) (*Diagram, error) {
	if p == nil || !t.contains(p) {
		return nil, errors.New(errors.ErrCodeUnknownNode, "project is not in the tree")
	}
	id := t.alloc.Peek(ids.Diagram)
	if name == "" {
		name = fmt.Sprintf("Diagram%d", id)
	}
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	t.alloc.Next(ids.Diagram)
	d := newDiagram(id, name, p, props)

	at := len(p.diagrams)
	if sel, ok := t.selected.(*Diagram); ok && sel.project == p {
		at = slices.Index(p.diagrams, sel) + 1
	}
	p.diagrams = slices.Insert(p.diagrams, at, d)
	t.selected = d
	observability.Tree().OnStructure("add", "diagram", name)
	return d, nil
}

// DeleteDiagram removes d. If d is active, activation first moves to the
// next diagram of the same project, else the previous one, else the
// nearest diagram of another project, else to no diagram. If that switch
// fails the delete is aborted.
func (t *Tree) DeleteDiagram(d *Diagram) error {
	if d == nil || !t.contains(d) {
		return errors.New(errors.ErrCodeUnknownNode, "diagram is not in the tree")
	}
	if d == t.active {
		next := t.fallback(func(o *Diagram) bool { return o == d })
		if err := t.SwitchActiveDiagram(d, next); err != nil {
			return err
		}
	}
	p := d.project
	p.diagrams = slices.DeleteFunc(p.diagrams, func(o *Diagram) bool { return o == d })
	d.project = nil
	if t.selected == Node(d) {
		t.selected = p
	}
	observability.Tree().OnStructure("delete", "diagram", d.name)
	return nil
}

// DeleteProject removes p and its diagrams. If the active diagram is in
// p, activation first moves to the nearest diagram outside p.
func (t *Tree) DeleteProject(p *Project) error {
	if p == nil || !t.contains(p) {
		return errors.New(errors.ErrCodeUnknownNode, "project is not in the tree")
	}
	if t.active != nil && t.active.project == p {
		next := t.fallback(func(o *Diagram) bool { return o.project == p })
		if err := t.SwitchActiveDiagram(t.active, next); err != nil {
			return err
		}
	}
	t.solution.projects = slices.DeleteFunc(t.solution.projects, func(o *Project) bool { return o == p })
	switch sel := t.selected.(type) {
	case *Project:
		if sel == p {
			t.selected = t.solution
		}
	case *Diagram:
		if sel.project == p {
			t.selected = t.solution
		}
	}
	for _, d := range p.diagrams {
		d.project = nil
	}
	observability.Tree().OnStructure("delete", "project", p.name)
	return nil
}

// fallback picks the diagram that takes over from the active one when the
// diagrams matching gone are removed.
func (t *Tree) fallback(gone func(*Diagram) bool) *Diagram {
	all := t.Diagrams()
	i := slices.Index(all, t.active)
	pick := func(sameProject bool) *Diagram {
		for j := i + 1; j < len(all); j++ {
			if !gone(all[j]) && (!sameProject || all[j].project == t.active.project) {
				return all[j]
			}
		}
		for j := i - 1; j >= 0; j-- {
			if !gone(all[j]) && (!sameProject || all[j].project == t.active.project) {
				return all[j]
			}
		}
		return nil
	}
	if d := pick(true); d != nil {
		return d
	}
	return pick(false)
}

// Rename changes the name of n.
func (t *Tree) Rename(n Node, name string) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if !t.contains(n) {
		return errors.New(errors.ErrCodeUnknownNode, "%s is not in the tree", n.Name())
	}
	switch n := n.(type) {
	case *Solution:
		n.name = name
	case *Project:
		n.name = name
	case *Diagram:
		n.name = name
	}
	return nil
}

// Scope selects the diagrams covered by navigation and export.
type Scope int

const (
	// ScopeProject covers the diagrams of the active project.
	ScopeProject Scope = iota
	// ScopeSolution covers every diagram.
	ScopeSolution
)

// NextDiagram returns the diagram after the active one within scope,
// wrapping around. It returns nil when no diagram is active.
func (t *Tree) NextDiagram(scope Scope) *Diagram { return t.step(scope, 1) }

// PreviousDiagram returns the diagram before the active one within scope,
// wrapping around. It returns nil when no diagram is active.
func (t *Tree) PreviousDiagram(scope Scope) *Diagram { return t.step(scope, -1) }

func (t *Tree) step(scope Scope, delta int) *Diagram {
	if t.active == nil {
		return nil
	}
	list := t.scoped(scope)
	i := slices.Index(list, t.active)
	return list[(i+delta+len(list))%len(list)]
}

func (t *Tree) scoped(scope Scope) []*Diagram {
	if scope == ScopeProject && t.active != nil {
		return t.active.project.diagrams
	}
	return t.Diagrams()
}

// DiagramText is the serialized form of one diagram.
type DiagramText struct {
	Project string `json:"project"`
	Diagram string `json:"diagram"`
	Text    string `json:"text"`
}

// DiagramTexts returns the text of every diagram in scope. ScopeProject
// requires an active diagram.
func (t *Tree) DiagramTexts(scope Scope) ([]DiagramText, error) {
	if scope == ScopeProject && t.active == nil {
		return nil, errors.New(errors.ErrCodeNoActiveDiagram, "no active diagram")
	}
	var out []DiagramText
	for _, d := range t.scoped(scope) {
		out = append(out, DiagramText{Project: d.project.name, Diagram: d.name, Text: d.Text()})
	}
	return out, nil
}
