package cli

import (
	"fmt"
	"strings"

	"github.com/metalcycle/lcastudio/internal/domain/template"
	"github.com/spf13/cobra"
)

func newTemplatesCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the project templates a new form can start from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, t := range template.Builtin().List() {
				fmt.Fprintf(out, "%s  %s\n", cyan(t.ID), bold(t.Name))
				if t.Description != "" {
					fmt.Fprintf(out, "    %s\n", t.Description)
				}
				if len(t.Project.Metals) > 0 {
					fmt.Fprintf(out, "    metals: %s\n", strings.Join(t.Project.Metals, ", "))
				}
			}
			return nil
		},
	}
}
