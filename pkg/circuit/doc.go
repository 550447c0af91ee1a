// Package circuit provides the in-memory element and wire graph of a logic
// diagram.
//
// # Overview
//
// A diagram is a set of placed elements (inputs, outputs, AND and OR gates)
// joined by wires. Each wire has two endpoint coordinates and up to two
// resolved endpoints: the element it starts at ([Source]) and the element it
// ends at ([Sink]). An endpoint with no element is dangling and keeps its
// stored coordinates.
//
// # Basic Usage
//
// Create a graph with [New], place elements with [Graph.CreateElement] and
// wires with [Graph.CreateWire], then connect them with [Graph.Attach]:
//
//	g := circuit.New(nil)
//	in, _ := g.CreateElement(ids.Input, 30, 30)
//	and, _ := g.CreateElement(ids.AndGate, 325, 30)
//	w := g.CreateWire(30, 30, 325, 30)
//	_ = g.Attach(w, in, circuit.Source)
//	_ = g.Attach(w, and, circuit.Sink)
//
// # Invariants
//
//   - A wire has at most one source and one sink; attaching to an occupied
//     slot fails until [Graph.Detach] frees it.
//   - [Graph.Move] translates an element and exactly the wire endpoints
//     attached to it.
//   - [Graph.DeleteElement] leaves attached wires in place, clearing only the
//     endpoint reference.
//   - Every mutation validates before it changes anything, so a failed call
//     leaves the graph untouched.
//
// # Selection
//
// Elements carry a selection flag managed by [Graph.SetSelected],
// [Graph.SelectAll] and [Graph.SelectNone]. [Graph.SelectConnected] selects
// the connected component of a seed element by breadth-first traversal over
// the bipartite element/wire adjacency.
//
// # Concurrency
//
// Graph is not safe for concurrent use. The engine assumes a single caller
// that serializes all operations; callers that share a graph across
// goroutines must hold an external lock.
package circuit
