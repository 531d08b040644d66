package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/metalcycle/lcastudio/internal/domain/analytics"
	"github.com/metalcycle/lcastudio/internal/export"
	"github.com/spf13/cobra"
)

func newAnalyticsCommand(e *env) *cobra.Command {
	var (
		projectID string
		xlsxPath  string
	)
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show emissions, scope split, sensitivity and hotspots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			projects, err := a.Projects.ListRecent(cmd.Context(), 0)
			if err != nil {
				return err
			}
			report, err := analytics.Build(projects, projectID)
			if err != nil {
				return fmt.Errorf("project %q: %w", projectID, err)
			}

			printReport(cmd.OutOrStdout(), report)
			if xlsxPath != "" {
				if err := export.SaveWorkbook(xlsxPath, report); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s\n", green("Workbook written to"), xlsxPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", analytics.AllProjects, "project id, or \"all\" for the combined view")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the report as an Excel workbook")
	return cmd
}

func printReport(w io.Writer, r analytics.Report) {
	h := r.Headline
	fmt.Fprintf(w, "%s\n", bold(h.Title))
	fmt.Fprintf(w, "  projects: %d   latest emissions: %d tCO2e   avg circularity: %d%%\n\n",
		h.TotalProjects, h.LatestEmissions, h.AvgCircularity)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "YEAR\tEMISSIONS\tENERGY\tCIRCULARITY\t")
	for _, p := range r.Series {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d%%\t\n", p.Year, p.Emissions, p.Energy, p.Circularity)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%s\n", bold("Scope split"))
	for _, s := range r.Scope {
		fmt.Fprintf(w, "  %-8s %3d%% %s\n", s.Name, s.Value, strings.Repeat("█", s.Value/4))
	}

	fmt.Fprintf(w, "\n%s\n", bold("Sensitivity"))
	for _, b := range r.Tornado {
		fmt.Fprintf(w, "  %-22s %+4d%% / %+4d%%\n", b.Variable, b.Low, b.High)
	}

	fmt.Fprintf(w, "\n%s\n", bold("Hotspots"))
	fmt.Fprintf(w, "  %-16s", "")
	for _, y := range r.Heatmap.Years {
		fmt.Fprintf(w, " %6d", y)
	}
	fmt.Fprintln(w)
	for _, row := range r.Heatmap.Rows {
		fmt.Fprintf(w, "  %-16s", row.Process)
		for _, c := range row.Cells {
			fmt.Fprint(w, " "+heatCell(c))
		}
		fmt.Fprintln(w)
	}
}

// heatCell paints a cell with its heatmap colour when the terminal allows it.
func heatCell(c analytics.Cell) string {
	text := fmt.Sprintf("%6d", c.Value)
	if color.NoColor {
		return text
	}
	bg, err := colorful.Hex(c.Color)
	if err != nil {
		return text
	}
	r, g, b := bg.RGB255()
	fg := "38;2;17;24;39"
	if c.Dark {
		fg = "38;2;255;255;255"
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%d;%sm%s\x1b[0m", r, g, b, fg, text)
}
