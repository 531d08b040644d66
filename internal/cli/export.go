package cli

import (
	"fmt"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/export"
	"github.com/spf13/cobra"
)

func newExportCommand(e *env) *cobra.Command {
	var (
		outDir      string
		toClipboard bool
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a project as JSON to a file or the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.Projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			target, where := "file", ""
			if toClipboard {
				target, where = "clipboard", "clipboard"
				if err := export.ToClipboard(nil, *p); err != nil {
					return err
				}
			} else {
				if outDir == "" {
					outDir = e.cfg.Export.Dir
				}
				if where, err = export.WriteFile(outDir, *p); err != nil {
					return err
				}
			}

			a.Activity.Record(cmd.Context(), activity.TypeExportWritten, p.ID, nil,
				fmt.Sprintf("Exported %q to %s", p.Name, target), map[string]string{"target": target, "path": where})
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("Exported to"), where)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write into (defaults to export.dir)")
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "copy the JSON to the system clipboard instead")
	return cmd
}
