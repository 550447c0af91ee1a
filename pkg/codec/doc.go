// Package codec reads and writes the diagram line format.
//
// # Format
//
// A diagram is an optional "[Diagram]" header followed by creation and
// attach lines:
//
//	[Diagram]
//	+;Input|0;30;30
//	-;Wire|0;Start
//	+;AndGate|0;325;30
//	-;Wire|0;End
//	+;Wire|0;30;30;325;30
//
// A creation line starts with "+" and names a uid ("Kind|id"). Elements
// (Input, Output, AndGate, OrGate) carry x and y; wires carry x1, y1, x2
// and y2. An attach line starts with "-" and declares that the element of
// the closest preceding creation line is the "Start" (source) or "End"
// (sink) endpoint of the named wire. The wire may be declared before or
// after the attach line.
//
// Kind names and roles are matched case-insensitively when reading and
// always written in canonical form. Blank lines are skipped and CRLF line
// endings are accepted.
//
// # Ids
//
// Parsed ids are observed by the graph's allocator, so ids issued after a
// parse never collide with ids in the text. Pass [WithAllocator] to continue
// from an existing allocator, for example when reloading an undo snapshot
// of a diagram whose deleted ids must stay retired.
//
// # Errors
//
// Every failure is an *errors.Error carrying the offending line number.
// Parse is all-or-nothing: on error no graph is returned and no caller state
// has been touched.
package codec
