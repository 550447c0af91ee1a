package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/logicdiagram/pkg/codec"
	"github.com/matzehuels/logicdiagram/pkg/tree"
)

// solutionCommand creates the solution command with its subcommands.
func (c *CLI) solutionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solution",
		Short: "Create, inspect and export solution files",
		Long:  `A solution groups diagrams into projects and carries a tag dictionary that input and output elements can be bound to.`,
	}
	cmd.AddCommand(c.solutionNewCommand())
	cmd.AddCommand(c.solutionTreeCommand())
	cmd.AddCommand(c.solutionExportCommand())
	return cmd
}

func (c *CLI) solutionNewCommand() *cobra.Command {
	var output, project, diagram string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a solution with one project and one empty diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolutionNew(cmd.OutOrStdout(), args[0], project, diagram, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (required)")
	cmd.Flags().StringVar(&project, "project", "", "first project name (default Project0)")
	cmd.Flags().StringVar(&diagram, "diagram", "", "first diagram name (default Diagram0)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (c *CLI) runSolutionNew(w io.Writer, name, project, diagram, output string) error {
	t, err := c.newTree(name)
	if err != nil {
		return err
	}
	p, err := t.AddProject(project)
	if err != nil {
		return err
	}
	if _, err := t.AddDiagram(p, diagram); err != nil {
		return err
	}
	if err := tree.Export(t, output); err != nil {
		return err
	}
	printSuccess(w, "Created solution %s", StyleHighlight.Render(name))
	printFile(w, output)
	printNextStep(w, "Inspect it", fmt.Sprintf("%s solution tree %s", appName, output))
	return nil
}

func (c *CLI) solutionTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "tree <file>",
		Short:             "Print the project and diagram tree of a solution",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolutionTree(cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *CLI) runSolutionTree(w io.Writer, path string) error {
	t, err := c.importSolution(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	s := t.Solution()
	fmt.Fprintln(w, StyleTitle.Render(s.Name()))
	for _, tag := range s.Tags() {
		printKeyValue(w, tag.Key, tag.Value)
	}
	for _, p := range s.Projects() {
		printNode(w, 1, p.Name(), p.UID().String(), false)
		for _, d := range p.Diagrams() {
			g, err := codec.Parse(d.Text())
			if err != nil {
				return err
			}
			detail := fmt.Sprintf("%s · %d elements · %d wires", d.UID(), g.ElementCount(), g.WireCount())
			if n := len(d.Bindings()); n > 0 {
				detail += fmt.Sprintf(" · %d bound", n)
			}
			printNode(w, 2, d.Name(), detail, d.IsActive())
		}
	}
	return nil
}

func (c *CLI) solutionExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "export <file> <project> <diagram>",
		Short:             "Write one diagram of a solution as a diagram file",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolutionExport(cmd.OutOrStdout(), args[0], args[1], args[2], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) runSolutionExport(w io.Writer, path, project, diagram, output string) error {
	t, err := c.importSolution(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	d, err := t.Find(project, diagram)
	if err != nil {
		return err
	}
	if output == "" {
		_, err := io.WriteString(w, d.Text())
		return err
	}
	if err := os.WriteFile(output, []byte(d.Text()), 0o644); err != nil {
		return err
	}
	printSuccess(w, "Exported %s/%s", project, diagram)
	printFile(w, output)
	return nil
}
