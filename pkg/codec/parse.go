package codec

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
	"github.com/matzehuels/logicdiagram/pkg/observability"
)

// pendingAttach is an attach line collected in the first pass. An attach
// line under a Wire block has no element of its own; last holds the most
// recent element block before it.
type pendingAttach struct {
	line    int
	wire    int
	element ids.UID
	role    circuit.Role
	last    ids.UID
}

// parser holds the state of one Parse call.
type parser struct {
	g           *circuit.Graph
	current     ids.UID
	lastElement ids.UID
	pending     []pendingAttach
	wireBlock   []pendingAttach
}

// Parse decodes diagram text into a new graph.
//
// Parsing runs in two passes. The first creates every element and wire and
// collects the attach lines under the block that declared them; the second
// resolves each attach line against the complete graph, so an attach line
// may name a wire declared further down.
//
// A creation line repeated verbatim reopens the earlier block, and the
// attach lines that follow it apply to the existing entity. A repeated id
// with different coordinates fails with PARSE_DUPLICATE_ID.
//
// An attach line under a Wire block binds the element positioned exactly
// at the named wire's endpoint for that role, or else the most recent
// element block. These lines resolve after all element-block attaches; one
// that names an element already attached at that slot is a no-op, and one
// with no candidate element is ignored.
//
// Errors carry the 1-based number of the offending line. Parse never
// returns a partial graph.
func Parse(text string, opts ...Option) (*circuit.Graph, error) {
	start := time.Now()
	o := buildOptions(opts)

	lines := splitLines(text)
	g, err := parse(lines, o)
	observability.Codec().OnParse(len(lines), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Read decodes diagram text from r. See [Parse].
func Read(r io.Reader, opts ...Option) (*circuit.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read diagram: %w", err)
	}
	return Parse(string(data), opts...)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func parse(lines []string, o options) (*circuit.Graph, error) {
	p := &parser{g: circuit.New(o.alloc.Clone())}

	first := true
	for i, raw := range lines {
		n := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if line == Header {
			if !first {
				return nil, errors.AtLine(errors.ErrCodeMalformedLine, n, "header must be the first line")
			}
			first = false
			continue
		}
		first = false
		if err := p.line(n, line); err != nil {
			return nil, err
		}
	}

	for _, a := range p.pending {
		if _, ok := p.g.Wire(a.wire); !ok {
			return nil, errors.AtLine(errors.ErrCodeUnknownWire, a.line, "unknown wire %s",
				ids.UID{Kind: ids.Wire, ID: a.wire})
		}
		if err := p.g.Attach(a.wire, a.element, a.role); err != nil {
			return nil, atLine(err, a.line)
		}
	}
	for _, a := range p.wireBlock {
		w, ok := p.g.Wire(a.wire)
		if !ok {
			return nil, errors.AtLine(errors.ErrCodeUnknownWire, a.line, "unknown wire %s",
				ids.UID{Kind: ids.Wire, ID: a.wire})
		}
		element := p.endpointElement(w, a.role)
		if element.IsZero() {
			element = a.last
		}
		if element.IsZero() || w.Endpoint(a.role) == element {
			continue
		}
		if err := p.g.Attach(a.wire, element, a.role); err != nil {
			return nil, atLine(err, a.line)
		}
	}
	return p.g, nil
}

// endpointElement returns the first element, in sequence order, whose
// position equals the role endpoint of w.
func (p *parser) endpointElement(w circuit.Wire, role circuit.Role) ids.UID {
	x, y := w.X1, w.Y1
	if role == circuit.Sink {
		x, y = w.X2, w.Y2
	}
	for _, e := range p.g.Elements() {
		if e.X == x && e.Y == y {
			return e.UID
		}
	}
	return ids.UID{}
}

func (p *parser) line(n int, line string) error {
	fields := strings.Split(line, fieldSep)
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	switch fields[0] {
	case opCreate:
		return p.create(n, fields)
	case opAttach:
		return p.attach(n, fields)
	default:
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "unknown line type %q", fields[0])
	}
}

func (p *parser) create(n int, fields []string) error {
	if len(fields) < 2 {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "missing uid")
	}
	uid, err := parseUID(n, fields[1])
	if err != nil {
		return err
	}

	want := elementFields
	if uid.Kind == ids.Wire {
		want = wireFields
	}
	if len(fields) != want {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "%s line has %d fields, want %d",
			uid.Kind, len(fields), want)
	}
	coords := make([]float64, 0, want-2)
	for _, f := range fields[2:] {
		v, err := parseNumber(n, f)
		if err != nil {
			return err
		}
		coords = append(coords, v)
	}

	if p.g.Has(uid) {
		if !p.sameCoords(uid, coords) {
			return errors.AtLine(errors.ErrCodeDuplicateID, n, "duplicate id %s", uid)
		}
		p.setCurrent(uid)
		return nil
	}

	if uid.Kind == ids.Wire {
		err = p.g.AddWire(uid.ID, coords[0], coords[1], coords[2], coords[3])
	} else {
		err = p.g.AddElement(uid, coords[0], coords[1])
	}
	if err != nil {
		return atLine(err, n)
	}
	p.setCurrent(uid)
	return nil
}

func (p *parser) setCurrent(uid ids.UID) {
	p.current = uid
	if uid.Kind != ids.Wire {
		p.lastElement = uid
	}
}

// sameCoords reports whether an existing entity matches a repeated
// creation line exactly.
func (p *parser) sameCoords(uid ids.UID, coords []float64) bool {
	if uid.Kind == ids.Wire {
		w, _ := p.g.Wire(uid.ID)
		return w.X1 == coords[0] && w.Y1 == coords[1] && w.X2 == coords[2] && w.Y2 == coords[3]
	}
	e, _ := p.g.Element(uid)
	return e.X == coords[0] && e.Y == coords[1]
}

func (p *parser) attach(n int, fields []string) error {
	if len(fields) != attachFields {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "attach line has %d fields, want %d",
			len(fields), attachFields)
	}
	if p.current.IsZero() {
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "attach line before any creation line")
	}
	wire, err := parseUID(n, fields[1])
	if err != nil {
		return err
	}
	if wire.Kind != ids.Wire {
		return errors.AtLine(errors.ErrCodeUnknownWire, n, "%s is not a wire", wire)
	}

	var role circuit.Role
	switch {
	case strings.EqualFold(fields[2], roleStart):
		role = circuit.Source
	case strings.EqualFold(fields[2], roleEnd):
		role = circuit.Sink
	default:
		return errors.AtLine(errors.ErrCodeMalformedLine, n, "unknown role %q, want %s or %s",
			fields[2], roleStart, roleEnd)
	}

	if p.current.Kind == ids.Wire {
		p.wireBlock = append(p.wireBlock, pendingAttach{line: n, wire: wire.ID, role: role, last: p.lastElement})
		return nil
	}
	p.pending = append(p.pending, pendingAttach{line: n, wire: wire.ID, element: p.current, role: role})
	return nil
}

// ParseUID decodes a "Kind|id" reference such as "AndGate|3".
func ParseUID(s string) (ids.UID, error) {
	return parseUID(0, s)
}

func parseUID(n int, s string) (ids.UID, error) {
	name, num, ok := strings.Cut(s, uidSep)
	if !ok || strings.Contains(num, uidSep) {
		return ids.UID{}, errors.AtLine(errors.ErrCodeMalformedLine, n, "malformed uid %q", s)
	}
	kind, ok := ids.ParseKind(name)
	if !ok {
		return ids.UID{}, errors.AtLine(errors.ErrCodeUnknownKind, n, "unknown kind %q", name)
	}
	id, err := strconv.Atoi(num)
	if err != nil || id < 0 {
		return ids.UID{}, errors.AtLine(errors.ErrCodeMalformedNumber, n, "malformed id %q", num)
	}
	return ids.UID{Kind: kind, ID: id}, nil
}

func parseNumber(n int, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.AtLine(errors.ErrCodeMalformedNumber, n, "malformed number %q", s)
	}
	return v, nil
}

// atLine attaches a line number to a graph error.
func atLine(err error, n int) error {
	return errors.AtLine(errors.GetCode(err), n, "%s", errors.UserMessage(err))
}
