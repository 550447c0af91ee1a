package circuit

import (
	"slices"

	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
)

// Role names which end of a wire an element is attached to.
type Role int

const (
	// Source is the wire's start endpoint (X1, Y1).
	Source Role = iota + 1
	// Sink is the wire's end endpoint (X2, Y2).
	Sink
)

// String returns "source" or "sink".
func (r Role) String() string {
	switch r {
	case Source:
		return "source"
	case Sink:
		return "sink"
	default:
		return "unknown"
	}
}

// Valid reports whether r is Source or Sink.
func (r Role) Valid() bool { return r == Source || r == Sink }

// Element is a placed circuit primitive (Input, Output, AndGate or OrGate).
type Element struct {
	UID      ids.UID // Kind and per-kind id
	X, Y     float64 // Position of the element's origin
	Selected bool    // Selection flag, not part of the serialized form
}

// Wire is a connector between two coordinates. Source and Sink hold the
// attached elements; a zero UID means the endpoint is unresolved (dangling)
// and stays at its stored coordinates.
type Wire struct {
	ID             int
	X1, Y1, X2, Y2 float64
	Source         ids.UID
	Sink           ids.UID
}

// UID returns the wire's handle.
func (w Wire) UID() ids.UID { return ids.UID{Kind: ids.Wire, ID: w.ID} }

// Endpoint returns the element attached at role, or the zero UID.
func (w Wire) Endpoint(role Role) ids.UID {
	if role == Source {
		return w.Source
	}
	return w.Sink
}

// Attachment records that an element is the role endpoint of a wire.
type Attachment struct {
	Wire int
	Role Role
}

// Graph is the in-memory element and wire graph of one diagram.
//
// Elements and wires share one insertion order, which is the order the codec
// writes them in. Wire adjacency is kept in an explicit table keyed by
// element UID; each wire also records its resolved endpoints so lookups in
// either direction are O(1).
//
// The zero value is not usable; use [New]. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	alloc     *ids.Allocator
	order     []ids.UID
	elements  map[ids.UID]*Element
	wires     map[int]*Wire
	adjacency map[ids.UID][]Attachment
}

// New creates an empty graph that allocates ids from alloc.
// A nil alloc creates a fresh allocator owned by the graph.
func New(alloc *ids.Allocator) *Graph {
	if alloc == nil {
		alloc = ids.NewAllocator()
	}
	return &Graph{
		alloc:     alloc,
		elements:  make(map[ids.UID]*Element),
		wires:     make(map[int]*Wire),
		adjacency: make(map[ids.UID][]Attachment),
	}
}

// Allocator returns the graph's id allocator.
func (g *Graph) Allocator() *ids.Allocator { return g.alloc }

// CreateElement allocates an id for kind and appends a new element at (x, y).
// It fails with INVARIANT_WRONG_KIND if kind is not an element kind.
func (g *Graph) CreateElement(kind ids.Kind, x, y float64) (ids.UID, error) {
	if !kind.IsElement() {
		return ids.UID{}, errors.New(errors.ErrCodeWrongKind, "%s is not an element kind", kind)
	}
	uid := ids.UID{Kind: kind, ID: g.alloc.Next(kind)}
	g.insertElement(uid, x, y)
	return uid, nil
}

// AddElement inserts an element with an explicit id, raising the allocator
// floor so the id is never reissued. It fails with PARSE_DUPLICATE_ID if the
// UID is already present.
func (g *Graph) AddElement(uid ids.UID, x, y float64) error {
	if !uid.Kind.IsElement() {
		return errors.New(errors.ErrCodeWrongKind, "%s is not an element kind", uid.Kind)
	}
	if _, exists := g.elements[uid]; exists {
		return errors.New(errors.ErrCodeDuplicateID, "duplicate id %s", uid)
	}
	g.alloc.Observe(uid.Kind, uid.ID)
	g.insertElement(uid, x, y)
	return nil
}

func (g *Graph) insertElement(uid ids.UID, x, y float64) {
	g.elements[uid] = &Element{UID: uid, X: x, Y: y}
	g.order = append(g.order, uid)
}

// CreateWire allocates a wire id and appends an unattached wire.
func (g *Graph) CreateWire(x1, y1, x2, y2 float64) int {
	id := g.alloc.Next(ids.Wire)
	g.insertWire(id, x1, y1, x2, y2)
	return id
}

// AddWire inserts a wire with an explicit id. It fails with
// PARSE_DUPLICATE_ID if the id is already present.
func (g *Graph) AddWire(id int, x1, y1, x2, y2 float64) error {
	if _, exists := g.wires[id]; exists {
		return errors.New(errors.ErrCodeDuplicateID, "duplicate id %s", ids.UID{Kind: ids.Wire, ID: id})
	}
	g.alloc.Observe(ids.Wire, id)
	g.insertWire(id, x1, y1, x2, y2)
	return nil
}

func (g *Graph) insertWire(id int, x1, y1, x2, y2 float64) {
	g.wires[id] = &Wire{ID: id, X1: x1, Y1: y1, X2: x2, Y2: y2}
	g.order = append(g.order, ids.UID{Kind: ids.Wire, ID: id})
}

// Attach makes element the role endpoint of wire.
// It fails with REFERENCE_UNKNOWN_WIRE or REFERENCE_UNKNOWN_ELEMENT if either
// is missing, and with INVARIANT_SLOT_OCCUPIED if the role is already taken;
// the slot must be freed with [Graph.Detach] first. The wire's coordinates
// are not changed.
func (g *Graph) Attach(wire int, element ids.UID, role Role) error {
	w, ok := g.wires[wire]
	if !ok {
		return errors.New(errors.ErrCodeUnknownWire, "unknown wire %d", wire)
	}
	if _, ok := g.elements[element]; !ok {
		return errors.New(errors.ErrCodeUnknownElement, "unknown element %s", element)
	}
	if !role.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid role %d", int(role))
	}
	slot := g.slot(w, role)
	if !slot.IsZero() {
		return errors.New(errors.ErrCodeSlotOccupied, "%s %s is already attached to %s", w.UID(), role, *slot)
	}
	*slot = element
	g.adjacency[element] = append(g.adjacency[element], Attachment{Wire: wire, Role: role})
	return nil
}

// Detach frees the role endpoint of wire and returns the element that was
// attached there (zero if the slot was empty).
func (g *Graph) Detach(wire int, role Role) (ids.UID, error) {
	w, ok := g.wires[wire]
	if !ok {
		return ids.UID{}, errors.New(errors.ErrCodeUnknownWire, "unknown wire %d", wire)
	}
	if !role.Valid() {
		return ids.UID{}, errors.New(errors.ErrCodeInvalidInput, "invalid role %d", int(role))
	}
	slot := g.slot(w, role)
	prev := *slot
	if prev.IsZero() {
		return prev, nil
	}
	*slot = ids.UID{}
	g.dropAttachment(prev, wire, role)
	return prev, nil
}

func (g *Graph) slot(w *Wire, role Role) *ids.UID {
	if role == Source {
		return &w.Source
	}
	return &w.Sink
}

func (g *Graph) dropAttachment(element ids.UID, wire int, role Role) {
	list := slices.DeleteFunc(g.adjacency[element], func(a Attachment) bool {
		return a.Wire == wire && a.Role == role
	})
	if len(list) == 0 {
		delete(g.adjacency, element)
		return
	}
	g.adjacency[element] = list
}

// Move translates element by (dx, dy) together with exactly the wire
// endpoints attached to it. Snapping is the caller's responsibility.
func (g *Graph) Move(element ids.UID, dx, dy float64) error {
	e, ok := g.elements[element]
	if !ok {
		return errors.New(errors.ErrCodeUnknownElement, "unknown element %s", element)
	}
	e.X += dx
	e.Y += dy
	for _, a := range g.adjacency[element] {
		w := g.wires[a.Wire]
		if a.Role == Source {
			w.X1 += dx
			w.Y1 += dy
		} else {
			w.X2 += dx
			w.Y2 += dy
		}
	}
	return nil
}

// DeleteElement removes element. Every wire attached to it keeps its
// coordinates and has the corresponding endpoint cleared.
func (g *Graph) DeleteElement(element ids.UID) error {
	if _, ok := g.elements[element]; !ok {
		return errors.New(errors.ErrCodeUnknownElement, "unknown element %s", element)
	}
	for _, a := range g.adjacency[element] {
		*g.slot(g.wires[a.Wire], a.Role) = ids.UID{}
	}
	delete(g.adjacency, element)
	delete(g.elements, element)
	g.removeFromOrder(element)
	return nil
}

// DeleteWire removes a wire and clears every attachment naming it.
func (g *Graph) DeleteWire(wire int) error {
	w, ok := g.wires[wire]
	if !ok {
		return errors.New(errors.ErrCodeUnknownWire, "unknown wire %d", wire)
	}
	if !w.Source.IsZero() {
		g.dropAttachment(w.Source, wire, Source)
	}
	if !w.Sink.IsZero() {
		g.dropAttachment(w.Sink, wire, Sink)
	}
	delete(g.wires, wire)
	g.removeFromOrder(w.UID())
	return nil
}

func (g *Graph) removeFromOrder(uid ids.UID) {
	g.order = slices.DeleteFunc(g.order, func(u ids.UID) bool { return u == uid })
}

// Clear removes every element and wire and resets the allocator.
func (g *Graph) Clear() {
	g.order = nil
	g.elements = make(map[ids.UID]*Element)
	g.wires = make(map[int]*Wire)
	g.adjacency = make(map[ids.UID][]Attachment)
	g.alloc.Reset()
}

// Element returns a copy of the element with the given UID.
func (g *Graph) Element(uid ids.UID) (Element, bool) {
	e, ok := g.elements[uid]
	if !ok {
		return Element{}, false
	}
	return *e, true
}

// Wire returns a copy of the wire with the given id.
func (g *Graph) Wire(id int) (Wire, bool) {
	w, ok := g.wires[id]
	if !ok {
		return Wire{}, false
	}
	return *w, true
}

// Has reports whether uid names an element or wire in the graph.
func (g *Graph) Has(uid ids.UID) bool {
	if uid.Kind == ids.Wire {
		_, ok := g.wires[uid.ID]
		return ok
	}
	_, ok := g.elements[uid]
	return ok
}

// Order returns the UIDs of all elements and wires in insertion order.
func (g *Graph) Order() []ids.UID {
	return slices.Clone(g.order)
}

// Elements returns copies of all elements in insertion order.
func (g *Graph) Elements() []Element {
	out := make([]Element, 0, len(g.elements))
	for _, uid := range g.order {
		if e, ok := g.elements[uid]; ok {
			out = append(out, *e)
		}
	}
	return out
}

// Wires returns copies of all wires in insertion order.
func (g *Graph) Wires() []Wire {
	out := make([]Wire, 0, len(g.wires))
	for _, uid := range g.order {
		if uid.Kind != ids.Wire {
			continue
		}
		out = append(out, *g.wires[uid.ID])
	}
	return out
}

// Attachments returns the wire attachments of element in the order they
// were made. The returned slice is a copy.
func (g *Graph) Attachments(element ids.UID) []Attachment {
	return slices.Clone(g.adjacency[element])
}

// ElementCount returns the number of elements.
func (g *Graph) ElementCount() int { return len(g.elements) }

// WireCount returns the number of wires.
func (g *Graph) WireCount() int { return len(g.wires) }
