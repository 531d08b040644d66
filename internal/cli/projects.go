package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/spf13/cobra"
)

func newProjectsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"p"},
		Short:   "List and inspect stored projects",
	}
	cmd.AddCommand(newProjectsListCommand(e), newProjectsShowCommand(e), newProjectsDuplicateCommand(e))
	return cmd
}

func newProjectsListCommand(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			overview, err := a.Projects.Overview(cmd.Context())
			if err != nil {
				return err
			}
			projects, err := a.Projects.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s projects: %d completed, %d in progress, %d drafts\n\n",
				bold(overview.TotalProjects), overview.Completed, overview.InProgress, overview.Drafts)
			if len(projects) == 0 {
				fmt.Fprintln(out, faint("No projects yet. Create one with `lcactl new`."))
				return nil
			}

			now := time.Now()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tMETALS\tUPDATED")
			for _, p := range projects {
				s := p.Summarize()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					s.ID, s.Name, statusLabel(s.Status), strings.Join(s.Metals, ", "), ago(s.Updated, now))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n projects (0 for all)")
	return cmd
}

func newProjectsShowCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project with its metal inventory",
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
			printProject(cmd.OutOrStdout(), *p, time.Now())
			return nil
		},
	}
}

func newProjectsDuplicateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Store a draft copy of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			cp, err := a.Projects.Duplicate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.Activity.Record(cmd.Context(), activity.TypeProjectDuplicated, cp.ID, nil,
				fmt.Sprintf("Duplicated %s as %q", args[0], cp.Name), map[string]string{"source_id": args[0]})
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", green("Duplicated as"), cp.Name, cp.ID)
			return nil
		},
	}
}
