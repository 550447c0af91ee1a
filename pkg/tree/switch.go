package tree

import (
	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/observability"
)

// Active returns the active diagram, or nil when none is active.
func (t *Tree) Active() *Diagram { return t.active }

// Graph returns the live graph of the active diagram.
func (t *Tree) Graph() (*circuit.Graph, error) {
	if t.active == nil {
		return nil, errors.New(errors.ErrCodeNoActiveDiagram, "no active diagram")
	}
	return t.active.live, nil
}

// SwitchActiveDiagram moves activation from from to to.
//
// from must be the active diagram (nil when none is active). to's snapshot
// is parsed first; if it is corrupt the parse error is returned and from
// stays active and unchanged. On success from's live graph is serialized
// into its snapshot and dropped, and the parsed graph becomes to's live
// graph. A nil to leaves no diagram active.
func (t *Tree) SwitchActiveDiagram(from, to *Diagram) (err error) {
	if from != t.active {
		return errors.New(errors.ErrCodeNotActive, "%s is not the active diagram", nameOf(from))
	}
	if from == to {
		return nil
	}
	defer func() { observability.Tree().OnSwitch(nameOf(from), nameOf(to), err) }()

	if to == nil {
		from.commit()
		t.active = nil
		return nil
	}
	if !t.contains(to) {
		return errors.New(errors.ErrCodeUnknownNode, "diagram %s is not in the tree", to.name)
	}
	g, err := to.load()
	if err != nil {
		return err
	}
	if from != nil {
		from.commit()
	}
	to.live = g
	t.active = to
	return nil
}

// SwitchTo activates d, committing the currently active diagram.
func (t *Tree) SwitchTo(d *Diagram) error {
	return t.SwitchActiveDiagram(t.active, d)
}

// ReplaceGraph installs g as the live graph of the active diagram.
// It is used after undo, redo and whole-text loads. Bindings of elements
// that g does not contain are dropped.
func (t *Tree) ReplaceGraph(g *circuit.Graph) error {
	if t.active == nil {
		return errors.New(errors.ErrCodeNoActiveDiagram, "no active diagram")
	}
	if g == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil graph")
	}
	t.active.pruneBindings(g)
	t.active.live = g
	return nil
}

func nameOf(d *Diagram) string {
	if d == nil {
		return ""
	}
	return d.name
}
