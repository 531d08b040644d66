// Package cli implements lcactl, the command line front end.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/metalcycle/lcastudio/internal/app"
	"github.com/metalcycle/lcastudio/internal/config"
	"github.com/spf13/cobra"
)

// env carries the state shared by every command of one invocation.
type env struct {
	cfgFile string
	noColor bool
	cfg     config.Config
	stderr  io.Writer
}

// open wires the application for a command. The caller closes it.
func (e *env) open(ctx context.Context) (*app.App, error) {
	return app.New(ctx, e.cfg, app.NewLogger(e.cfg, e.stderr))
}

// NewRootCommand builds the lcactl command tree.
func NewRootCommand() *cobra.Command {
	e := &env{stderr: os.Stderr}

	root := &cobra.Command{
		Use:           "lcactl",
		Short:         "lcactl captures and analyses metal LCA projects",
		Long:          `lcactl captures life-cycle assessment projects for metal products, serves them over MCP and reports on them.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if e.noColor {
				color.NoColor = true
			}
			e.stderr = cmd.ErrOrStderr()

			path := e.cfgFile
			if path == "" {
				path = os.Getenv("LCA_CONFIG_PATH")
			}
			cfg, err := config.LoadFile(path)
			if err != nil {
				return fmt.Errorf("unable to load config: %w", err)
			}
			e.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&e.cfgFile, "config", "", "path to config file (YAML)")
	root.PersistentFlags().BoolVar(&e.noColor, "no-color", false, "disable ANSI color output")

	root.AddCommand(
		newServeCommand(e),
		newProjectsCommand(e),
		newTemplatesCommand(e),
		newNewCommand(e),
		newAnalyticsCommand(e),
		newExportCommand(e),
	)
	return root
}

// Execute runs lcactl and exits non-zero on failure.
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
