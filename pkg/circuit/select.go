package circuit

import (
	"slices"

	"github.com/matzehuels/logicdiagram/pkg/ids"
)

// SelectConnected marks every element reachable from seed through wires as
// selected and returns the reached elements in breadth-first order, seed
// first. Traversal alternates element → attached wire → the wire's other
// endpoint. Existing selections are kept. An unknown seed is a no-op.
func (g *Graph) SelectConnected(seed ids.UID) []ids.UID {
	reached := g.walk(seed)
	g.SetSelected(reached, true)
	return reached
}

// Connected returns the elements reachable from seed without touching
// selection state, sorted by kind then id.
func (g *Graph) Connected(seed ids.UID) []ids.UID {
	reached := g.walk(seed)
	slices.SortFunc(reached, compareUID)
	return reached
}

func (g *Graph) walk(seed ids.UID) []ids.UID {
	if _, ok := g.elements[seed]; !ok {
		return nil
	}

	visited := map[ids.UID]bool{seed: true}
	queue := []ids.UID{seed}
	var reached []ids.UID

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		reached = append(reached, cur)

		for _, a := range g.adjacency[cur] {
			w := g.wires[a.Wire]
			for _, next := range [2]ids.UID{w.Source, w.Sink} {
				if next.IsZero() || visited[next] {
					continue
				}
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reached
}

// Selected returns the UIDs of selected elements in insertion order.
func (g *Graph) Selected() []ids.UID {
	var out []ids.UID
	for _, uid := range g.order {
		if e, ok := g.elements[uid]; ok && e.Selected {
			out = append(out, uid)
		}
	}
	return out
}

// IsSelected reports whether the element is selected.
func (g *Graph) IsSelected(uid ids.UID) bool {
	e, ok := g.elements[uid]
	return ok && e.Selected
}

// SetSelected sets the selection flag of each listed element.
// Unknown UIDs are ignored.
func (g *Graph) SetSelected(uids []ids.UID, selected bool) {
	for _, uid := range uids {
		if e, ok := g.elements[uid]; ok {
			e.Selected = selected
		}
	}
}

// SelectAll selects every element.
func (g *Graph) SelectAll() {
	for _, e := range g.elements {
		e.Selected = true
	}
}

// SelectNone clears every selection flag.
func (g *Graph) SelectNone() {
	for _, e := range g.elements {
		e.Selected = false
	}
}

func compareUID(a, b ids.UID) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	return a.ID - b.ID
}
