// Package cli implements the logicdiagram command-line interface.
//
// # Commands
//
//   - check, fmt, connected: work on a single diagram file
//   - solution: create, inspect and export solution files
//   - store: save and load solutions in the configured store
//   - serve: run the HTTP editing server
//   - completion: shell completion scripts
//
// All commands accept --config to point at a TOML file and --verbose for
// debug logging, which includes codec, history and tree events.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/logicdiagram/pkg/buildinfo"
	"github.com/matzehuels/logicdiagram/pkg/config"
	"github.com/matzehuels/logicdiagram/pkg/editor"
	"github.com/matzehuels/logicdiagram/pkg/observability"
	"github.com/matzehuels/logicdiagram/pkg/store"
	"github.com/matzehuels/logicdiagram/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "logicdiagram"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Logicdiagram edits logic circuit diagrams",
		Long:         `Logicdiagram checks, formats and edits logic circuit diagrams (inputs, outputs, gates and wires) stored in a line-based text format, and organizes them into solutions of projects and diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/logicdiagram/config.toml)")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.fmtCommand())
	root.AddCommand(c.connectedCommand())
	root.AddCommand(c.solutionCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	installHooks(c.Logger)
	return nil
}

func installHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetCodecHooks(h)
	observability.SetHistoryHooks(h)
	observability.SetTreeHooks(h)
}

// newTree returns an empty tree using the configured diagram defaults.
func (c *CLI) newTree(name string) (*tree.Tree, error) {
	return tree.New(name, tree.WithDefaults(c.config.Diagram))
}

func (c *CLI) importSolution(path string) (*tree.Tree, error) {
	return tree.Import(path, tree.WithDefaults(c.config.Diagram))
}

func (c *CLI) newEditor(t *tree.Tree) *editor.Editor {
	return editor.New(t, editor.Options{
		History: c.config.Editor.EnableHistory,
		Snap:    c.config.Editor.EnableSnap,
	})
}

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	c.Logger.Debug("opening store", "backend", c.config.Store.Backend)
	return store.Open(ctx, c.config.Store)
}
