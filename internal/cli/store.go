package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/store"
	"github.com/matzehuels/logicdiagram/pkg/tree"
)

// storeCommand creates the store command with its subcommands.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save and load solutions in the configured store",
		Long: `Manage solutions kept in the store selected by the [store] section of
the config file: a directory of JSON files (default), a SQLite database,
Redis or MongoDB.`,
	}
	cmd.AddCommand(c.storeSaveCommand())
	cmd.AddCommand(c.storeLoadCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeRemoveCommand())
	cmd.AddCommand(c.storeRevisionsCommand())
	return cmd
}

func (c *CLI) storeSaveCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:               "save <file>",
		Short:             "Save a solution file to the store",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.importSolution(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			prog := newProgress(c.Logger)
			doc := store.NewDocument(t)
			doc.ID = id
			if err := st.Put(cmd.Context(), doc); err != nil {
				return err
			}
			prog.done("Saved " + doc.Name)
			w := cmd.OutOrStdout()
			printSuccess(w, "Saved %s", StyleHighlight.Render(doc.Name))
			printKeyValue(w, "id", doc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "document id (default: new id, or replace when given)")
	return cmd
}

func (c *CLI) storeLoadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "load <id>",
		Short:             "Load a solution from the store",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDocumentIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			t, err := doc.Tree(tree.WithDefaults(c.config.Diagram))
			if err != nil {
				return fmt.Errorf("stored document %s: %w", doc.ID, err)
			}
			w := cmd.OutOrStdout()
			if output == "" {
				return tree.Write(t, w)
			}
			if err := tree.Export(t, output); err != nil {
				return err
			}
			printSuccess(w, "Loaded %s", StyleHighlight.Render(doc.Name))
			printFile(w, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored solutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			docs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			printDocuments(cmd.OutOrStdout(), docs)
			return nil
		},
	}
}

func printDocuments(w io.Writer, docs []store.Document) {
	if len(docs) == 0 {
		printInfo(w, "No stored solutions")
		return
	}
	for _, doc := range docs {
		printKeyValue(w, doc.ID, doc.Name+"  "+StyleDim.Render(doc.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <id>",
		Aliases:           []string{"remove"},
		Short:             "Remove a stored solution",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDocumentIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Removed %s", args[0])
			return nil
		},
	}
}

// revisionLister is implemented by stores that keep every saved version.
type revisionLister interface {
	Revisions(ctx context.Context, id string) ([]store.Revision, error)
}

func (c *CLI) storeRevisionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "revisions <id>",
		Short:             "List saved versions of a solution (sqlite store only)",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDocumentIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			rl, ok := st.(revisionLister)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "store backend %q does not keep revisions", c.config.Store.Backend)
			}
			revs, err := rl.Revisions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range revs {
				printKeyValue(w, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), fmt.Sprintf("%s  %d bytes", r.ID, len(r.Content)))
			}
			return nil
		},
	}
}
