package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/codec"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
	"github.com/matzehuels/logicdiagram/pkg/tree"
)

// solutionPrefix starts every solution file; diagram files start with
// the diagram header instead.
const solutionPrefix = "[Solution]"

var statOrder = []string{"inputs", "outputs", "and gates", "or gates", "wires", "dangling"}

// diagramStats counts elements by kind, wires, and unresolved wire endpoints.
func diagramStats(g *circuit.Graph) map[string]int {
	counts := make(map[string]int)
	for _, el := range g.Elements() {
		switch el.UID.Kind {
		case ids.Input:
			counts["inputs"]++
		case ids.Output:
			counts["outputs"]++
		case ids.AndGate:
			counts["and gates"]++
		case ids.OrGate:
			counts["or gates"]++
		}
	}
	for _, w := range g.Wires() {
		counts["wires"]++
		if w.Source.IsZero() {
			counts["dangling"]++
		}
		if w.Sink.IsZero() {
			counts["dangling"]++
		}
	}
	return counts
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func isSolution(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), solutionPrefix)
}

// =============================================================================
// check
// =============================================================================

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a diagram or solution file",
		Long: `Parse a diagram or solution file and report what it contains.

Files starting with [Solution] are checked as solutions; every diagram in
them is validated. Errors report the offending line.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *CLI) runCheck(w io.Writer, path string) error {
	text, err := readInput(path)
	if err != nil {
		return err
	}
	prog := newProgress(c.Logger)

	if isSolution(text) {
		t, err := tree.Parse(text, tree.WithDefaults(c.config.Diagram))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		printSuccess(w, "%s: solution %s", path, StyleHighlight.Render(t.Solution().Name()))
		for _, d := range t.Diagrams() {
			g, err := codec.Parse(d.Text())
			if err != nil {
				return fmt.Errorf("%s/%s: %w", d.Project().Name(), d.Name(), err)
			}
			printInfo(w, "%s/%s", d.Project().Name(), d.Name())
			printStats(w, diagramStats(g), statOrder)
		}
		prog.done("Checked " + path)
		return nil
	}

	g, err := codec.Parse(text)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	stats := diagramStats(g)
	printSuccess(w, "%s: valid diagram", path)
	printStats(w, stats, statOrder)
	if stats["dangling"] > 0 {
		printWarning(w, "%d unattached wire endpoints", stats["dangling"])
	}
	prog.done("Checked " + path)
	return nil
}

// =============================================================================
// fmt
// =============================================================================

func (c *CLI) fmtCommand() *cobra.Command {
	var output string
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite a diagram or solution file in canonical form",
		Long: `Parse a diagram or solution file and print it in canonical form.

Lines are reordered into insertion order with attach lines after their
element, numbers are normalized, and blank lines are dropped.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if write {
				output = args[0]
			}
			return c.runFmt(cmd.OutOrStdout(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place")
	return cmd
}

func (c *CLI) runFmt(w io.Writer, path, output string) error {
	text, err := readInput(path)
	if err != nil {
		return err
	}

	var out string
	if isSolution(text) {
		t, err := tree.Parse(text, tree.WithDefaults(c.config.Diagram))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out = tree.Serialize(t)
	} else {
		g, err := codec.Parse(text)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out = codec.Serialize(g)
	}

	if output == "" {
		_, err := io.WriteString(w, out)
		return err
	}
	if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
		return err
	}
	c.Logger.Debug("formatted", "input", path, "output", output)
	printSuccess(w, "Formatted")
	printFile(w, output)
	return nil
}

// =============================================================================
// connected
// =============================================================================

func (c *CLI) connectedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connected <file> <uid>",
		Short: "List the elements connected to an element",
		Long: `List every element reachable from <uid> through wires, including
<uid> itself, sorted by kind and id. <uid> is written Kind|ID, for
example AndGate|3.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConnected(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func (c *CLI) runConnected(w io.Writer, path, seedText string) error {
	seed, err := codec.ParseUID(seedText)
	if err != nil {
		return err
	}
	text, err := readInput(path)
	if err != nil {
		return err
	}
	g, err := codec.Parse(text)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if seed.Kind == ids.Wire || !g.Has(seed) {
		return errors.New(errors.ErrCodeUnknownElement, "unknown element %s", seed)
	}
	for _, uid := range g.Connected(seed) {
		fmt.Fprintln(w, uid)
	}
	return nil
}
