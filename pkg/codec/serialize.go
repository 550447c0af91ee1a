package codec

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/ids"
	"github.com/matzehuels/logicdiagram/pkg/observability"
)

// Serialize writes g in the diagram line format.
//
// The output is the header followed, for every element and wire in
// insertion order, by its creation line and then one attach line per wire
// attachment recorded on it ("Start" for source, "End" for sink):
//
//	[Diagram]
//	+;Input|0;30;30
//	-;Wire|0;Start
//	+;AndGate|0;325;30
//	-;Wire|0;End
//	+;Wire|0;30;30;325;30
//
// Parsing the result reproduces a graph equal to g.
func Serialize(g *circuit.Graph, opts ...Option) string {
	start := time.Now()
	o := buildOptions(opts)

	var b strings.Builder
	if !o.noHeader {
		b.WriteString(Header)
		b.WriteByte('\n')
	}

	include := func(ids.UID) bool { return true }
	if o.selectedOnly {
		include = selectedFilter(g)
	}

	for _, uid := range g.Order() {
		if !include(uid) {
			continue
		}
		if uid.Kind == ids.Wire {
			w, _ := g.Wire(uid.ID)
			fmt.Fprintf(&b, "%s;%s;%s;%s;%s;%s\n", opCreate, uid,
				formatNumber(w.X1), formatNumber(w.Y1), formatNumber(w.X2), formatNumber(w.Y2))
			continue
		}
		e, _ := g.Element(uid)
		fmt.Fprintf(&b, "%s;%s;%s;%s\n", opCreate, uid, formatNumber(e.X), formatNumber(e.Y))
		for _, a := range g.Attachments(uid) {
			role := roleStart
			if a.Role == circuit.Sink {
				role = roleEnd
			}
			fmt.Fprintf(&b, "%s;%s;%s\n", opAttach, ids.UID{Kind: ids.Wire, ID: a.Wire}, role)
		}
	}

	out := b.String()
	observability.Codec().OnSerialize(len(out), time.Since(start))
	return out
}

// selectedFilter keeps selected elements and every wire with at least one
// endpoint on a selected element. Attachments of kept elements always name
// kept wires, so attach lines need no extra filtering.
func selectedFilter(g *circuit.Graph) func(ids.UID) bool {
	keep := make(map[ids.UID]bool)
	for _, uid := range g.Selected() {
		keep[uid] = true
		for _, a := range g.Attachments(uid) {
			keep[ids.UID{Kind: ids.Wire, ID: a.Wire}] = true
		}
	}
	return func(uid ids.UID) bool { return keep[uid] }
}

// Write encodes g to w. See [Serialize].
func Write(g *circuit.Graph, w io.Writer, opts ...Option) error {
	if _, err := io.WriteString(w, Serialize(g, opts...)); err != nil {
		return fmt.Errorf("write diagram: %w", err)
	}
	return nil
}
