package circuit

// Equal reports whether a and b hold the same elements, positions, wires and
// connectivity. Insertion order, selection and allocator state are ignored.
func Equal(a, b *Graph) bool {
	if len(a.elements) != len(b.elements) || len(a.wires) != len(b.wires) {
		return false
	}
	for uid, ea := range a.elements {
		eb, ok := b.elements[uid]
		if !ok || ea.X != eb.X || ea.Y != eb.Y {
			return false
		}
	}
	for id, wa := range a.wires {
		wb, ok := b.wires[id]
		if !ok {
			return false
		}
		if wa.X1 != wb.X1 || wa.Y1 != wb.Y1 || wa.X2 != wb.X2 || wa.Y2 != wb.Y2 {
			return false
		}
		if wa.Source != wb.Source || wa.Sink != wb.Sink {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of g with its own allocator.
func (g *Graph) Clone() *Graph {
	c := New(g.alloc.Clone())
	c.order = append(c.order, g.order...)
	for uid, e := range g.elements {
		cp := *e
		c.elements[uid] = &cp
	}
	for id, w := range g.wires {
		cp := *w
		c.wires[id] = &cp
	}
	for uid, list := range g.adjacency {
		c.adjacency[uid] = append([]Attachment(nil), list...)
	}
	return c
}
