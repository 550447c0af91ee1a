// Package ids provides element kinds, unique identifiers and per-kind
// id allocation for logic diagrams.
//
// # Kinds
//
// Every entity in a diagram has a [Kind]: the four placed element kinds
// ([Input], [Output], [AndGate], [OrGate]), the [Wire] connector, and the
// two tree kinds ([Project], [Diagram]) used for naming tree nodes. Ids are
// unique only within a kind, so the stable handle of an entity is the pair
// [UID]{Kind, ID}, written in the text format as "Kind|ID" (e.g. "AndGate|3").
//
// # Allocation
//
// An [Allocator] holds one monotonically increasing counter per kind,
// starting at 0. [Allocator.Next] hands out the current value and advances
// it. [Allocator.Observe] raises the floor for a kind so that an id read from
// text is never reissued:
//
//	a := ids.NewAllocator()
//	a.Observe(ids.Input, 7)
//	a.Next(ids.Input) // 8
//
// An Allocator is owned by a single diagram or tree and passed explicitly;
// there is no package-level counter state.
package ids

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the type of an entity.
// The zero value is [None] and never names a real entity.
type Kind int

const (
	// None is the zero Kind. A UID with Kind None is the "no element" value.
	None Kind = iota
	Input
	Output
	AndGate
	OrGate
	Wire
	Project
	Diagram
)

var kindNames = [...]string{
	None:    "",
	Input:   "Input",
	Output:  "Output",
	AndGate: "AndGate",
	OrGate:  "OrGate",
	Wire:    "Wire",
	Project: "Project",
	Diagram: "Diagram",
}

// String returns the canonical kind name used in the text format.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsElement reports whether k is one of the placed element kinds.
func (k Kind) IsElement() bool {
	return k == Input || k == Output || k == AndGate || k == OrGate
}

// IsIO reports whether k is Input or Output, the kinds that carry tags.
func (k Kind) IsIO() bool { return k == Input || k == Output }

// ElementKinds lists the placed element kinds in text-format order.
var ElementKinds = []Kind{Input, Output, AndGate, OrGate}

// ParseKind resolves a kind name. Matching is case-insensitive for
// compatibility with hand-edited files; only diagram kinds (elements and
// Wire) are accepted.
func ParseKind(name string) (Kind, bool) {
	for _, k := range []Kind{Input, Output, AndGate, OrGate, Wire} {
		if strings.EqualFold(name, kindNames[k]) {
			return k, true
		}
	}
	return None, false
}

// UID is the unique handle of an entity within one diagram.
type UID struct {
	Kind Kind
	ID   int
}

// String formats the UID as "Kind|ID".
func (u UID) String() string {
	return u.Kind.String() + "|" + strconv.Itoa(u.ID)
}

// IsZero reports whether u is the "no element" value.
func (u UID) IsZero() bool { return u.Kind == None }

// Allocator issues per-kind ids. The zero value is ready to use.
// Allocator is not safe for concurrent use without external synchronization.
type Allocator struct {
	next map[Kind]int
}

// NewAllocator returns an allocator with every counter at 0.
func NewAllocator() *Allocator {
	return &Allocator{next: make(map[Kind]int)}
}

// Next returns the next id for kind and advances its counter.
func (a *Allocator) Next(kind Kind) int {
	if a.next == nil {
		a.next = make(map[Kind]int)
	}
	id := a.next[kind]
	a.next[kind] = id + 1
	return id
}

// Observe records that id is in use for kind, raising the counter to
// id+1 if it is currently lower.
func (a *Allocator) Observe(kind Kind, id int) {
	if a.next == nil {
		a.next = make(map[Kind]int)
	}
	if a.next[kind] < id+1 {
		a.next[kind] = id + 1
	}
}

// Peek returns the id Next would return for kind, without advancing.
func (a *Allocator) Peek(kind Kind) int {
	return a.next[kind]
}

// Clone returns an independent copy of the allocator state.
// A nil allocator clones to a fresh one.
func (a *Allocator) Clone() *Allocator {
	c := NewAllocator()
	if a == nil {
		return c
	}
	for k, v := range a.next {
		c.next[k] = v
	}
	return c
}

// Reset sets every counter back to 0.
func (a *Allocator) Reset() {
	a.next = make(map[Kind]int)
}
