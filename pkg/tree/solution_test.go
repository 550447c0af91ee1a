package tree

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/codec"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
)

const sampleSolution = `[Solution];Adder
[Tag];A;%I0.0
[Tag];Sum;%Q0.0
[Project];Main
[Diagram];Half;1260;891;330;31;600;750;30;15;15;0;0
[Bind];Input|0;A
[Bind];Output|0;Sum
+;Input|0;30;30
-;Wire|0;Start
+;Output|0;600;30
-;Wire|0;End
+;Wire|0;30;30;600;30
[Diagram];Empty;800;600;0;0;400;300;20;10;10;2.5;2.5
[Project];Spare
`

func TestParseSolution(t *testing.T) {
	tr, err := Parse(sampleSolution)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if tr.Solution().Name() != "Adder" {
		t.Errorf("solution name = %q", tr.Solution().Name())
	}
	if got := names(tr.Solution().Projects()); strings.Join(got, ",") != "Main,Spare" {
		t.Errorf("projects = %v", got)
	}
	half, err := tr.Find("Main", "Half")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Active() != half || tr.Selected() != nil {
		t.Errorf("active = %s, selected = %v; want Half active and nothing selected", nameOf(tr.Active()), tr.Selected())
	}
	g, _ := tr.Graph()
	w, _ := g.Wire(0)
	if w.Source != (ids.UID{Kind: ids.Input, ID: 0}) || w.Sink != (ids.UID{Kind: ids.Output, ID: 0}) {
		t.Errorf("wire = %v -> %v", w.Source, w.Sink)
	}
	if key, _ := half.Binding(ids.UID{Kind: ids.Output, ID: 0}); key != "Sum" {
		t.Errorf("Binding(Output|0) = %q", key)
	}

	empty, _ := tr.Find("Main", "Empty")
	want := circuit.Properties{
		PageWidth: 800, PageHeight: 600, GridWidth: 400, GridHeight: 300, GridSize: 20,
		SnapX: 10, SnapY: 10, SnapOffsetX: 2.5, SnapOffsetY: 2.5,
	}
	if empty.Properties != want {
		t.Errorf("Empty properties = %+v, want %+v", empty.Properties, want)
	}
}

func TestSolutionRoundTrip(t *testing.T) {
	tr, err := Parse(sampleSolution)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := Serialize(tr); got != sampleSolution {
		t.Errorf("Serialize() =\n%s\nwant\n%s", got, sampleSolution)
	}

	// Edits on the live diagram and on dormant ones both survive.
	g, _ := tr.Graph()
	_, _ = g.CreateElement(ids.AndGate, 325, 30)
	empty, _ := tr.Find("Main", "Empty")
	if err := tr.SwitchTo(empty); err != nil {
		t.Fatal(err)
	}
	g, _ = tr.Graph()
	_, _ = g.CreateElement(ids.OrGate, 10, 10)

	again, err := Parse(Serialize(tr))
	if err != nil {
		t.Fatalf("Parse(Serialize()) error: %v", err)
	}
	for _, name := range []string{"Half", "Empty"} {
		a, _ := tr.Find("Main", name)
		b, _ := again.Find("Main", name)
		ga, _ := codec.Parse(a.Text())
		gb, _ := codec.Parse(b.Text())
		if !circuit.Equal(ga, gb) {
			t.Errorf("%s differs after round trip:\n%s\nvs\n%s", name, a.Text(), b.Text())
		}
	}
}

func TestParseSolutionErrors(t *testing.T) {
	header := "[Solution];S\n[Project];P\n[Diagram];D;1;1;1;1;1;1;1;1;1;0;0\n"
	tests := []struct {
		name string
		text string
		code errors.Code
		line int
	}{
		{"empty", "", errors.ErrCodeMalformedLine, 1},
		{"no solution line", "[Project];P\n", errors.ErrCodeMalformedLine, 1},
		{"duplicate solution", "[Solution];S\n[Solution];T\n", errors.ErrCodeMalformedLine, 2},
		{"bad solution name", "[Solution];\n", errors.ErrCodeInvalidName, 1},
		{"unknown directive", "[Solution];S\n[Folder];F\n", errors.ErrCodeMalformedLine, 2},
		{"diagram outside project", "[Solution];S\n[Diagram];D;1;1;1;1;1;1;1;1;1;0;0\n", errors.ErrCodeMalformedLine, 2},
		{"diagram field count", "[Solution];S\n[Project];P\n[Diagram];D;1;2\n", errors.ErrCodeMalformedLine, 3},
		{"bad property", "[Solution];S\n[Project];P\n[Diagram];D;x;1;1;1;1;1;1;1;1;0;0\n", errors.ErrCodeMalformedNumber, 3},
		{"nan snap", "[Solution];S\n[Project];P\n[Diagram];D;1;1;1;1;1;1;1;NaN;1;0;0\n", errors.ErrCodeMalformedNumber, 3},
		{"infinite offset", "[Solution];S\n[Project];P\n[Diagram];D;1;1;1;1;1;1;1;1;1;-Inf;0\n", errors.ErrCodeMalformedNumber, 3},
		{"padded solution name", "[Solution]; S\n", errors.ErrCodeInvalidName, 1},
		{"body outside diagram", "[Solution];S\n+;Input|0;1;2\n", errors.ErrCodeMalformedLine, 2},
		{"tag after project", "[Solution];S\n[Project];P\n[Tag];A;1\n", errors.ErrCodeMalformedLine, 3},
		{"duplicate tag", "[Solution];S\n[Tag];A;1\n[Tag];A;2\n", errors.ErrCodeDuplicateID, 3},
		{"body error rebased", header + "+;Input|0;30;30\n+;Gate|0;1;1\n", errors.ErrCodeUnknownKind, 5},
		{"body error after bind", "[Solution];S\n[Tag];A;1\n[Project];P\n[Diagram];D;1;1;1;1;1;1;1;1;1;0;0\n[Bind];Input|0;A\n+;Input|0;x;0\n",
			errors.ErrCodeMalformedNumber, 6},
		{"unknown wire rebased", header + "+;Input|0;30;30\n-;Wire|3;Start\n", errors.ErrCodeUnknownWire, 5},
		{"bind unknown tag", header + "[Bind];Input|0;A\n+;Input|0;30;30\n", errors.ErrCodeUnknownTag, 4},
		{"bind wrong kind", "[Solution];S\n[Tag];A;1\n[Project];P\n[Diagram];D;1;1;1;1;1;1;1;1;1;0;0\n[Bind];OrGate|0;A\n+;OrGate|0;1;1\n",
			errors.ErrCodeWrongKind, 5},
		{"bind missing element", "[Solution];S\n[Tag];A;1\n[Project];P\n[Diagram];D;1;1;1;1;1;1;1;1;1;0;0\n[Bind];Input|2;A\n",
			errors.ErrCodeUnknownElement, 5},
		{"bind outside diagram", "[Solution];S\n[Bind];Input|0;A\n", errors.ErrCodeMalformedLine, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse(tt.text)
			if err == nil {
				t.Fatalf("Parse() = %v, want error", tr)
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
			if got := errors.GetLine(err); got != tt.line {
				t.Errorf("line = %d, want %d (%v)", got, tt.line, err)
			}
		})
	}
}

func TestImportExport(t *testing.T) {
	tr, err := Parse(sampleSolution)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "adder.lds")
	if err := Export(tr, path); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	got, err := Import(path)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if Serialize(got) != sampleSolution {
		t.Errorf("imported solution differs:\n%s", Serialize(got))
	}
}

func TestParseSolutionCRLF(t *testing.T) {
	text := strings.ReplaceAll(sampleSolution, "\n", "\r\n")
	tr, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(CRLF) error: %v", err)
	}
	if Serialize(tr) != sampleSolution {
		t.Errorf("CRLF solution did not normalize:\n%s", Serialize(tr))
	}
}

func TestExampleFiles(t *testing.T) {
	sol, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.lds"))
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range sol {
		t.Run(filepath.Base(path), func(t *testing.T) {
			tr, err := Import(path)
			if err != nil {
				t.Fatalf("Import() error: %v", err)
			}
			again, err := Parse(Serialize(tr))
			if err != nil {
				t.Fatalf("re-parse error: %v", err)
			}
			if Serialize(again) != Serialize(tr) {
				t.Error("serialization is not stable")
			}
		})
	}

	diagrams, _ := filepath.Glob(filepath.Join("..", "..", "examples", "*.ld"))
	for _, path := range diagrams {
		t.Run(filepath.Base(path), func(t *testing.T) {
			if _, err := codec.ImportDiagram(path); err != nil {
				t.Fatalf("ImportDiagram() error: %v", err)
			}
		})
	}
}
