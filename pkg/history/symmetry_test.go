package history_test

import (
	"testing"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/codec"
	"github.com/matzehuels/logicdiagram/pkg/history"
	"github.com/matzehuels/logicdiagram/pkg/ids"
)

// TestUndoRedoSymmetry records k mutations, undoes all of them and redoes
// all of them, and expects the final graph to equal the state after the
// mutations.
func TestUndoRedoSymmetry(t *testing.T) {
	mutations := []func(g *circuit.Graph){
		func(g *circuit.Graph) { _, _ = g.CreateElement(ids.Input, 30, 30) },
		func(g *circuit.Graph) { _, _ = g.CreateElement(ids.AndGate, 325, 30) },
		func(g *circuit.Graph) { g.CreateWire(30, 30, 325, 30) },
		func(g *circuit.Graph) { _ = g.Attach(0, ids.UID{Kind: ids.Input, ID: 0}, circuit.Source) },
		func(g *circuit.Graph) { _ = g.Attach(0, ids.UID{Kind: ids.AndGate, ID: 0}, circuit.Sink) },
		func(g *circuit.Graph) { _ = g.Move(ids.UID{Kind: ids.AndGate, ID: 0}, 15, 15) },
		func(g *circuit.Graph) { _ = g.DeleteElement(ids.UID{Kind: ids.Input, ID: 0}) },
	}

	for k := 1; k <= len(mutations); k++ {
		g := circuit.New(nil)
		h := history.New()
		initial := codec.Serialize(g)
		for _, m := range mutations[:k] {
			h.Record(codec.Serialize(g))
			m(g)
		}
		after := g.Clone()

		apply := func(snapshot string) {
			t.Helper()
			parsed, err := codec.Parse(snapshot, codec.WithAllocator(g.Allocator()))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			g = parsed
		}

		for i := 0; i < k; i++ {
			prev, ok := h.Undo(codec.Serialize(g))
			if !ok {
				t.Fatalf("k=%d: Undo %d reported nothing to undo", k, i)
			}
			apply(prev)
		}
		if got := codec.Serialize(g); got != initial {
			t.Errorf("k=%d: after undoing everything got\n%s", k, got)
		}
		for i := 0; i < k; i++ {
			next, ok := h.Redo(codec.Serialize(g))
			if !ok {
				t.Fatalf("k=%d: Redo %d reported nothing to redo", k, i)
			}
			apply(next)
		}
		if !circuit.Equal(g, after) {
			t.Errorf("k=%d: after redo got\n%s\nwant\n%s", k, codec.Serialize(g), codec.Serialize(after))
		}
	}
}
