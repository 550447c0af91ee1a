// Package tree organizes diagrams into a Solution → Project → Diagram
// hierarchy.
//
// # Nodes
//
// [Node] is a closed variant of [*Solution], [*Project] and [*Diagram].
// The solution owns an ordered list of projects and a tag dictionary; a
// project owns an ordered list of diagrams; a diagram owns its properties,
// its [history.Stack], its tag bindings and its graph.
//
// # Activation
//
// At most one diagram is active. The active diagram holds a live
// [circuit.Graph]; every other diagram holds only the serialized snapshot
// of its graph and the id allocator that goes with it. [Tree.SwitchActiveDiagram]
// parses the target's snapshot before touching anything, so a corrupt
// snapshot aborts the switch and leaves the current diagram active.
//
// # Structure edits
//
// New projects and diagrams are inserted after the selected sibling, or
// appended when none is selected, and become the selection. Deleting the
// active diagram first moves activation to a neighbor, or to no diagram
// when it was the last one.
//
// # Solution format
//
// [Serialize] and [Parse] read and write the whole tree as one text file
// that nests the diagram line format of package codec inside "[Solution]",
// "[Project]" and "[Diagram]" directive lines.
package tree
