package codec

import (
	"strconv"

	"github.com/matzehuels/logicdiagram/pkg/ids"
)

// Tokens of the line format.
const (
	// Header is the optional first line of a diagram.
	Header = "[Diagram]"

	opCreate  = "+"
	opAttach  = "-"
	roleStart = "Start"
	roleEnd   = "End"
	fieldSep  = ";"
	uidSep    = "|"
)

// Field counts per creation line, including the "+" and uid fields.
const (
	elementFields = 4
	wireFields    = 6
	attachFields  = 3
)

// Option configures Parse and Serialize.
type Option func(*options)

type options struct {
	alloc        *ids.Allocator
	selectedOnly bool
	noHeader     bool
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithAllocator makes Parse start from a copy of alloc instead of a fresh
// allocator. The copy is raised by every id in the text and becomes the
// parsed graph's allocator; alloc itself is never modified, so a failed
// parse leaves the caller's counters untouched.
func WithAllocator(alloc *ids.Allocator) Option {
	return func(o *options) { o.alloc = alloc }
}

// SelectedOnly makes Serialize emit only selected elements, the wires
// attached to them, and their attach lines.
func SelectedOnly() Option {
	return func(o *options) { o.selectedOnly = true }
}

// WithoutHeader makes Serialize omit the "[Diagram]" header line. It is used
// when diagram bodies are nested inside a solution file.
func WithoutHeader() Option {
	return func(o *options) { o.noHeader = true }
}

// formatNumber writes coordinates in their shortest exact decimal form
// ("30", "12.5").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
