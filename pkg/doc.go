// Package pkg provides the core libraries for logicdiagram.
//
// # Overview
//
// Logicdiagram edits logic circuit diagrams: inputs, outputs, AND and OR
// gates placed on a page and joined by wires. Diagrams are kept in a
// line-based text format and grouped into solutions of projects. The pkg
// directory is organized into three areas:
//
//  1. Engine: [ids], [circuit], [codec], [history], [tree], [editor]
//  2. Infrastructure: [config], [store], [observability], [errors]
//  3. Build metadata: [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	diagram text ("+;AndGate|0;300;30" ...)
//	         ↓
//	    [codec] package (parse, two passes for forward references)
//	         ↓
//	    [circuit] package (element and wire graph, adjacency, selection)
//	         ↓
//	    [editor] package (mutations with undo snapshots in [history])
//	         ↓
//	    [tree] package (solution file, one live diagram at a time)
//	         ↓
//	    [store] package (file, SQLite, Redis or MongoDB)
//
// # Quick Start
//
// Parse a diagram, edit it and write it back:
//
//	g, err := codec.Parse(text)
//	if err != nil {
//	    return err // errors carry the offending line
//	}
//	and, _ := g.CreateElement(ids.AndGate, 300, 30)
//	w := g.CreateWire(30, 30, 300, 30)
//	_ = g.Attach(w, and, circuit.Sink)
//	out := codec.Serialize(g)
//
// Edit through a solution tree with undo:
//
//	t, _ := tree.New("Adder")
//	p, _ := t.AddProject("Main")
//	d, _ := t.AddDiagram(p, "Half")
//	_ = t.SwitchTo(d)
//
//	ed := editor.New(t, editor.DefaultOptions())
//	uid, _ := ed.InsertElement(ids.Input, 30, 30)
//	_ = ed.Move(uid, 15, 0)
//	_, _ = ed.Undo()
//
// # Main Packages
//
// [ids] - Element kinds, "Kind|ID" handles and per-kind id allocation.
//
// [circuit] - The in-memory graph of one diagram. Wires attach to elements
// through explicit source and sink slots; moving an element drags the
// attached wire endpoints.
//
// [codec] - The diagram line format. Serialization is canonical, so
// parse, serialize, parse is a fixed point.
//
// [history] - Snapshot undo and redo stacks, one per diagram.
//
// [tree] - Solution, projects and diagrams. Exactly one diagram is live;
// the rest are held as text. Also the solution file format and the tag
// dictionary that input and output elements bind to.
//
// [editor] - Snapped, recorded edits on the active diagram.
//
// [store] - Persistence of whole solutions.
//
// [config] - TOML configuration for the CLI and server.
//
// [observability] - Hooks for logging codec, history and tree events.
//
// # Testing
//
// Run tests:
//
//	go test ./...                          # All tests
//	go test ./pkg/codec/...                # Specific package
//	go test -run Example ./pkg/...         # Examples only
//	go test -tags integration ./pkg/store  # Redis and MongoDB (set LOGICDIAGRAM_REDIS_ADDR, LOGICDIAGRAM_MONGO_URI)
//
// [ids]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/ids
// [circuit]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/circuit
// [codec]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/codec
// [history]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/history
// [tree]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/tree
// [editor]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/editor
// [config]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/config
// [store]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/logicdiagram/pkg/buildinfo
package pkg
