// Package observability provides hooks for logging and metrics.
//
// The engine packages (codec, history, tree) never log or measure anything
// themselves. They emit events through the hooks registered here, and the
// application decides what to do with them. The default hooks do nothing.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCodecHooks(&myCodecHooks{})
//	    observability.SetTreeHooks(&myTreeHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	g, err := parse(text)
//	observability.Codec().OnParse(lineCount, time.Since(start), err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Codec Hooks
// =============================================================================

// CodecHooks receives events from diagram text parsing and serialization.
type CodecHooks interface {
	// OnParse records a completed parse attempt over lines of input.
	OnParse(lines int, duration time.Duration, err error)

	// OnSerialize records a serialization that produced size bytes.
	OnSerialize(size int, duration time.Duration)
}

// =============================================================================
// History Hooks
// =============================================================================

// Operations reported through HistoryHooks.
const (
	HistoryRecord = "record"
	HistoryUndo   = "undo"
	HistoryRedo   = "redo"
	HistoryClear  = "clear"
)

// HistoryHooks receives events from undo/redo stacks.
type HistoryHooks interface {
	// OnHistory records a stack operation and the resulting depths.
	OnHistory(op string, undoDepth, redoDepth int)
}

// =============================================================================
// Tree Hooks
// =============================================================================

// TreeHooks receives events from the solution tree.
type TreeHooks interface {
	// OnSwitch records an active-diagram switch. from is empty when no
	// diagram was active.
	OnSwitch(from, to string, err error)

	// OnStructure records an add or delete of a project or diagram.
	OnStructure(op, kind, name string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCodecHooks is a no-op implementation of CodecHooks.
type NoopCodecHooks struct{}

func (NoopCodecHooks) OnParse(int, time.Duration, error)  {}
func (NoopCodecHooks) OnSerialize(int, time.Duration)     {}

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnHistory(string, int, int) {}

// NoopTreeHooks is a no-op implementation of TreeHooks.
type NoopTreeHooks struct{}

func (NoopTreeHooks) OnSwitch(string, string, error)      {}
func (NoopTreeHooks) OnStructure(string, string, string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	codecHooks   CodecHooks   = NoopCodecHooks{}
	historyHooks HistoryHooks = NoopHistoryHooks{}
	treeHooks    TreeHooks    = NoopTreeHooks{}
	hooksMu      sync.RWMutex
)

// SetCodecHooks registers custom codec hooks.
// This should be called once at application startup before any parsing.
func SetCodecHooks(h CodecHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		codecHooks = h
	}
}

// SetHistoryHooks registers custom history hooks.
func SetHistoryHooks(h HistoryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		historyHooks = h
	}
}

// SetTreeHooks registers custom tree hooks.
func SetTreeHooks(h TreeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		treeHooks = h
	}
}

// Codec returns the registered codec hooks.
func Codec() CodecHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return codecHooks
}

// History returns the registered history hooks.
func History() HistoryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return historyHooks
}

// Tree returns the registered tree hooks.
func Tree() TreeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return treeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	codecHooks = NoopCodecHooks{}
	historyHooks = NoopHistoryHooks{}
	treeHooks = NoopTreeHooks{}
}
