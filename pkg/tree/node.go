package tree

import (
	"slices"
	"strings"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/codec"
	"github.com/matzehuels/logicdiagram/pkg/history"
	"github.com/matzehuels/logicdiagram/pkg/ids"
)

// Node is one of *Solution, *Project or *Diagram. The set is closed;
// callers dispatch with a type switch.
type Node interface {
	Name() string
	isNode()
}

// Tag is a key/value entry of the solution tag dictionary.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Solution is the root of the tree.
type Solution struct {
	name     string
	projects []*Project
	tags     []Tag
}

func (*Solution) isNode() {}

// Name returns the solution name.
func (s *Solution) Name() string { return s.name }

// Projects returns the projects in order.
func (s *Solution) Projects() []*Project { return append([]*Project(nil), s.projects...) }

// Tags returns the tag dictionary in insertion order.
func (s *Solution) Tags() []Tag { return append([]Tag(nil), s.tags...) }

func (s *Solution) tagIndex(key string) int {
	for i, tag := range s.tags {
		if tag.Key == key {
			return i
		}
	}
	return -1
}

// Project groups diagrams.
type Project struct {
	id       int
	name     string
	diagrams []*Diagram
}

func (*Project) isNode() {}

// Name returns the project name.
func (p *Project) Name() string { return p.name }

// UID returns the project's tree handle.
func (p *Project) UID() ids.UID { return ids.UID{Kind: ids.Project, ID: p.id} }

// Diagrams returns the project's diagrams in order.
func (p *Project) Diagrams() []*Diagram { return append([]*Diagram(nil), p.diagrams...) }

// Diagram is a leaf of the tree. It owns its history and is either live,
// holding the graph being edited, or dormant, holding only the serialized
// snapshot of that graph.
type Diagram struct {
	id      int
	name    string
	project *Project

	// Properties are the page, grid and snap settings of the diagram.
	Properties circuit.Properties

	history  *history.Stack
	snapshot string
	live     *circuit.Graph
	alloc    *ids.Allocator
	bindings map[ids.UID]string
}

func (*Diagram) isNode() {}

func newDiagram(id int, name string, p *Project, props circuit.Properties) *Diagram {
	return &Diagram{
		id:         id,
		name:       name,
		project:    p,
		Properties: props,
		history:    history.New(),
		snapshot:   codec.Serialize(circuit.New(nil)),
		alloc:      ids.NewAllocator(),
		bindings:   make(map[ids.UID]string),
	}
}

// Name returns the diagram name.
func (d *Diagram) Name() string { return d.name }

// UID returns the diagram's tree handle.
func (d *Diagram) UID() ids.UID { return ids.UID{Kind: ids.Diagram, ID: d.id} }

// Project returns the project that contains d.
func (d *Diagram) Project() *Project { return d.project }

// History returns the diagram's undo/redo stack.
func (d *Diagram) History() *history.Stack { return d.history }

// IsActive reports whether d holds a live graph.
func (d *Diagram) IsActive() bool { return d.live != nil }

// Graph returns the live graph, or nil if d is dormant.
func (d *Diagram) Graph() *circuit.Graph { return d.live }

// Text returns the diagram text: the serialized live graph, or the stored
// snapshot of a dormant diagram.
func (d *Diagram) Text() string {
	if d.live != nil {
		return codec.Serialize(d.live)
	}
	return d.snapshot
}

// body returns the diagram text without its header line.
func (d *Diagram) body() string {
	if d.live != nil {
		return codec.Serialize(d.live, codec.WithoutHeader())
	}
	return strings.TrimPrefix(d.snapshot, codec.Header+"\n")
}

// Allocator returns the diagram's id allocator.
func (d *Diagram) Allocator() *ids.Allocator {
	if d.live != nil {
		return d.live.Allocator()
	}
	return d.alloc
}

// Binding returns the tag key bound to uid.
func (d *Diagram) Binding(uid ids.UID) (string, bool) {
	if d.live != nil && !d.live.Has(uid) {
		return "", false
	}
	key, ok := d.bindings[uid]
	return key, ok
}

// Bindings returns a copy of the element-to-tag bindings.
func (d *Diagram) Bindings() map[ids.UID]string {
	out := make(map[ids.UID]string, len(d.bindings))
	for _, uid := range d.boundUIDs() {
		out[uid] = d.bindings[uid]
	}
	return out
}

// commit serializes the live graph into the snapshot and drops it.
func (d *Diagram) commit() {
	if d.live == nil {
		return
	}
	d.pruneBindings(d.live)
	d.snapshot = codec.Serialize(d.live)
	d.alloc = d.live.Allocator()
	d.live = nil
}

// pruneBindings drops the bindings of elements that g does not contain.
func (d *Diagram) pruneBindings(g *circuit.Graph) {
	for uid := range d.bindings {
		if !g.Has(uid) {
			delete(d.bindings, uid)
		}
	}
}

// boundUIDs returns the uids bound in d, in kind then id order. A live
// diagram reports only the elements its graph contains.
func (d *Diagram) boundUIDs() []ids.UID {
	uids := make([]ids.UID, 0, len(d.bindings))
	for uid := range d.bindings {
		if d.live != nil && !d.live.Has(uid) {
			continue
		}
		uids = append(uids, uid)
	}
	slices.SortFunc(uids, func(a, b ids.UID) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		return a.ID - b.ID
	})
	return uids
}

// load parses the snapshot into a new graph without installing it.
func (d *Diagram) load() (*circuit.Graph, error) {
	return codec.Parse(d.snapshot, codec.WithAllocator(d.alloc))
}
