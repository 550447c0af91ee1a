// Package history implements per-diagram undo and redo over serialized
// snapshots.
//
// A [Stack] stores diagram text, not graph objects. The caller records the
// serialized state before each mutation and, on undo or redo, parses the
// returned snapshot back into the live graph. Stack depth is unbounded.
//
//	h := history.New()
//	h.Record(codec.Serialize(g)) // before mutating g
//	...
//	if prev, ok := h.Undo(codec.Serialize(g)); ok {
//	    g, err = codec.Parse(prev)
//	}
//
// Undo and Redo move a snapshot between the stacks immediately. A caller
// that may fail to apply the snapshot should inspect it first with
// [Stack.PeekUndo] or [Stack.PeekRedo], and only call Undo or Redo once
// the snapshot is known to parse.
package history

import "github.com/matzehuels/logicdiagram/pkg/observability"

// Stack holds the undo and redo snapshots of one diagram.
// The zero value is an empty stack ready to use. A Stack is not safe for
// concurrent use.
type Stack struct {
	undo []string
	redo []string
}

// New returns an empty stack.
func New() *Stack { return &Stack{} }

// Record pushes snapshot onto the undo stack and clears the redo stack.
func (s *Stack) Record(snapshot string) {
	s.undo = append(s.undo, snapshot)
	s.redo = nil
	s.emit(observability.HistoryRecord)
}

// Undo pops the newest undo snapshot and pushes current onto the redo
// stack. It returns false, changing nothing, if there is nothing to undo.
func (s *Stack) Undo(current string) (string, bool) {
	prev, ok := pop(&s.undo)
	if !ok {
		return "", false
	}
	s.redo = append(s.redo, current)
	s.emit(observability.HistoryUndo)
	return prev, true
}

// Redo pops the newest redo snapshot and pushes current onto the undo
// stack. It returns false, changing nothing, if there is nothing to redo.
func (s *Stack) Redo(current string) (string, bool) {
	next, ok := pop(&s.redo)
	if !ok {
		return "", false
	}
	s.undo = append(s.undo, current)
	s.emit(observability.HistoryRedo)
	return next, true
}

// Clear empties both stacks.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
	s.emit(observability.HistoryClear)
}

// PeekUndo returns the snapshot Undo would return, without moving it.
func (s *Stack) PeekUndo() (string, bool) { return peek(s.undo) }

// PeekRedo returns the snapshot Redo would return, without moving it.
func (s *Stack) PeekRedo() (string, bool) { return peek(s.redo) }

// CanUndo reports whether the undo stack is non-empty.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// UndoDepth returns the number of undo snapshots.
func (s *Stack) UndoDepth() int { return len(s.undo) }

// RedoDepth returns the number of redo snapshots.
func (s *Stack) RedoDepth() int { return len(s.redo) }

func (s *Stack) emit(op string) {
	observability.History().OnHistory(op, len(s.undo), len(s.redo))
}

func pop(stack *[]string) (string, bool) {
	n := len(*stack)
	if n == 0 {
		return "", false
	}
	top := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return top, true
}

func peek(stack []string) (string, bool) {
	if len(stack) == 0 {
		return "", false
	}
	return stack[len(stack)-1], true
}
