package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.ServeStdio(ctx)
		},
	}
}
