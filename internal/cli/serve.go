package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/logicdiagram/internal/server"
	"github.com/matzehuels/logicdiagram/pkg/tree"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr, solution, name string
	var noStore bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP editing server",
		Long: `Serve one editing session over HTTP.

The session starts from --solution if given, otherwise from a new solution
with one project and one empty diagram. Unless --no-store is set, the
configured store is available under /documents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.sessionTree(solution, name)
			if err != nil {
				return err
			}
			opts := []server.Option{server.WithLogger(c.Logger)}
			if !noStore {
				st, err := c.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer st.Close()
				opts = append(opts, server.WithStore(st))
			}
			if addr == "" {
				addr = c.config.Server.Addr
			}
			srv := server.New(c.newEditor(t), opts...)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&solution, "solution", "", "solution file to start from")
	cmd.Flags().StringVar(&name, "name", "Untitled", "solution name when starting empty")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the /documents routes")
	return cmd
}

// sessionTree returns the tree a serve session starts with, with a diagram
// active.
func (c *CLI) sessionTree(path, name string) (*tree.Tree, error) {
	if path != "" {
		return c.importSolution(path)
	}
	t, err := c.newTree(name)
	if err != nil {
		return nil, err
	}
	p, err := t.AddProject("")
	if err != nil {
		return nil, err
	}
	d, err := t.AddDiagram(p, "")
	if err != nil {
		return nil, err
	}
	if err := t.SwitchTo(d); err != nil {
		return nil, err
	}
	return t, nil
}

