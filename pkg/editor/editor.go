// Package editor applies user edits to the active diagram of a tree and
// keeps its undo history.
//
// Every mutating method snapshots the active graph, applies the change
// and, if the change succeeded and history is enabled, records the
// snapshot. Undo and Redo parse the target snapshot before moving the
// history stacks, so a corrupt snapshot leaves both the graph and the
// stacks untouched.
//
// When snapping is enabled, coordinates passed to the editor are rounded
// to the active diagram's snap grid before they reach the graph.
package editor

import (
	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/codec"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/history"
	"github.com/matzehuels/logicdiagram/pkg/ids"
	"github.com/matzehuels/logicdiagram/pkg/tree"
)

// Options configures an Editor.
type Options struct {
	// History enables undo recording.
	History bool
	// Snap rounds coordinates to the diagram's snap grid.
	Snap bool
}

// DefaultOptions enables history and snapping.
func DefaultOptions() Options {
	return Options{History: true, Snap: true}
}

// Editor edits the active diagram of a tree.
// An Editor is not safe for concurrent use.
type Editor struct {
	tree *tree.Tree
	opts Options
}

// New returns an editor over t.
func New(t *tree.Tree, opts Options) *Editor {
	return &Editor{tree: t, opts: opts}
}

// Tree returns the edited tree.
func (e *Editor) Tree() *tree.Tree { return e.tree }

// Options returns the current options.
func (e *Editor) Options() Options { return e.opts }

// SetHistoryEnabled turns undo recording on or off. Turning it off clears
// the active diagram's history.
func (e *Editor) SetHistoryEnabled(on bool) {
	e.opts.History = on
	if !on {
		if d := e.tree.Active(); d != nil {
			d.History().Clear()
		}
	}
}

// SetSnapEnabled turns coordinate snapping on or off.
func (e *Editor) SetSnapEnabled(on bool) { e.opts.Snap = on }

func (e *Editor) active() (*tree.Diagram, *circuit.Graph, error) {
	d := e.tree.Active()
	if d == nil {
		return nil, nil, errors.New(errors.ErrCodeNoActiveDiagram, "no active diagram")
	}
	return d, d.Graph(), nil
}

// mutate runs fn on the active graph and records the prior state if fn
// succeeds. Graph operations validate before they change anything, so a
// failing fn leaves the graph as it was.
func (e *Editor) mutate(fn func(d *tree.Diagram, g *circuit.Graph) error) error {
	d, g, err := e.active()
	if err != nil {
		return err
	}
	var before string
	if e.opts.History {
		before = codec.Serialize(g)
	}
	if err := fn(d, g); err != nil {
		return err
	}
	if e.opts.History {
		d.History().Record(before)
	}
	return nil
}

func (e *Editor) snap(d *tree.Diagram, x, y float64) (float64, float64) {
	if !e.opts.Snap {
		return x, y
	}
	return d.Properties.Snap(x, y)
}

// InsertElement places a new element of kind at (x, y).
func (e *Editor) InsertElement(kind ids.Kind, x, y float64) (ids.UID, error) {
	var uid ids.UID
	err := e.mutate(func(d *tree.Diagram, g *circuit.Graph) error {
		x, y = e.snap(d, x, y)
		var err error
		uid, err = g.CreateElement(kind, x, y)
		return err
	})
	return uid, err
}

// InsertWire places a new unattached wire.
func (e *Editor) InsertWire(x1, y1, x2, y2 float64) (int, error) {
	var id int
	err := e.mutate(func(d *tree.Diagram, g *circuit.Graph) error {
		x1, y1 = e.snap(d, x1, y1)
		x2, y2 = e.snap(d, x2, y2)
		id = g.CreateWire(x1, y1, x2, y2)
		return nil
	})
	return id, err
}

// Connect attaches element as the role endpoint of wire.
func (e *Editor) Connect(wire int, element ids.UID, role circuit.Role) error {
	return e.mutate(func(_ *tree.Diagram, g *circuit.Graph) error {
		return g.Attach(wire, element, role)
	})
}

// Disconnect frees the role endpoint of wire and returns the element that
// was attached there.
func (e *Editor) Disconnect(wire int, role circuit.Role) (ids.UID, error) {
	var prev ids.UID
	err := e.mutate(func(_ *tree.Diagram, g *circuit.Graph) error {
		var err error
		prev, err = g.Detach(wire, role)
		return err
	})
	return prev, err
}

// Move translates element by (dx, dy). With snapping on, the element's
// resulting position is rounded to the grid and the attached wire
// endpoints follow by the same amount.
func (e *Editor) Move(element ids.UID, dx, dy float64) error {
	return e.mutate(func(d *tree.Diagram, g *circuit.Graph) error {
		el, ok := g.Element(element)
		if !ok {
			return unknownElement(element)
		}
		x, y := e.snap(d, el.X+dx, el.Y+dy)
		return g.Move(element, x-el.X, y-el.Y)
	})
}

// Delete removes element and its tag binding.
func (e *Editor) Delete(element ids.UID) error {
	return e.mutate(func(d *tree.Diagram, g *circuit.Graph) error {
		if err := g.DeleteElement(element); err != nil {
			return err
		}
		return e.tree.UnbindTag(d, element)
	})
}

// DeleteWire removes wire.
func (e *Editor) DeleteWire(wire int) error {
	return e.mutate(func(_ *tree.Diagram, g *circuit.Graph) error {
		return g.DeleteWire(wire)
	})
}

// DeleteSelected removes every selected element.
func (e *Editor) DeleteSelected() (int, error) {
	var n int
	err := e.mutate(func(d *tree.Diagram, g *circuit.Graph) error {
		sel := g.Selected()
		if len(sel) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "nothing selected")
		}
		for _, uid := range sel {
			if err := g.DeleteElement(uid); err != nil {
				return err
			}
			if err := e.tree.UnbindTag(d, uid); err != nil {
				return err
			}
		}
		n = len(sel)
		return nil
	})
	return n, err
}

// Clear removes everything from the active diagram and resets its ids.
func (e *Editor) Clear() error {
	return e.mutate(func(_ *tree.Diagram, g *circuit.Graph) error {
		g.Clear()
		return nil
	})
}

// Load replaces the active graph with the diagram in text. Ids already
// used by the diagram stay retired. A parse failure changes nothing.
func (e *Editor) Load(text string) error {
	d, g, err := e.active()
	if err != nil {
		return err
	}
	parsed, err := codec.Parse(text, codec.WithAllocator(g.Allocator()))
	if err != nil {
		return err
	}
	if e.opts.History {
		d.History().Record(codec.Serialize(g))
	}
	return e.tree.ReplaceGraph(parsed)
}

// Text returns the active diagram text.
func (e *Editor) Text() (string, error) {
	_, g, err := e.active()
	if err != nil {
		return "", err
	}
	return codec.Serialize(g), nil
}

// CopySelection returns the diagram text of the selected elements and
// the wires attached to them.
func (e *Editor) CopySelection() (string, error) {
	_, g, err := e.active()
	if err != nil {
		return "", err
	}
	return codec.Serialize(g, codec.SelectedOnly()), nil
}

// Undo restores the previous snapshot. It reports false if there was
// nothing to undo.
func (e *Editor) Undo() (bool, error) {
	return e.step((*history.Stack).PeekUndo, (*history.Stack).Undo)
}

// Redo restores the next snapshot. It reports false if there was nothing
// to redo.
func (e *Editor) Redo() (bool, error) {
	return e.step((*history.Stack).PeekRedo, (*history.Stack).Redo)
}

func (e *Editor) step(peek func(*history.Stack) (string, bool), move func(*history.Stack, string) (string, bool)) (bool, error) {
	d, g, err := e.active()
	if err != nil {
		return false, err
	}
	h := d.History()
	snapshot, ok := peek(h)
	if !ok {
		return false, nil
	}
	parsed, err := codec.Parse(snapshot, codec.WithAllocator(g.Allocator()))
	if err != nil {
		return false, err
	}
	move(h, codec.Serialize(g))
	return true, e.tree.ReplaceGraph(parsed)
}

// Switch activates d. Each diagram keeps its own history.
func (e *Editor) Switch(d *tree.Diagram) error {
	return e.tree.SwitchTo(d)
}

// Next activates the diagram after the active one within scope.
func (e *Editor) Next(scope tree.Scope) error {
	d := e.tree.NextDiagram(scope)
	if d == nil {
		return errors.New(errors.ErrCodeNoActiveDiagram, "no active diagram")
	}
	return e.tree.SwitchTo(d)
}

// Previous activates the diagram before the active one within scope.
func (e *Editor) Previous(scope tree.Scope) error {
	d := e.tree.PreviousDiagram(scope)
	if d == nil {
		return errors.New(errors.ErrCodeNoActiveDiagram, "no active diagram")
	}
	return e.tree.SwitchTo(d)
}

func unknownElement(uid ids.UID) error {
	return errors.New(errors.ErrCodeUnknownElement, "unknown element %s", uid)
}
