package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/metalcycle/lcastudio/internal/domain/assist"
	"github.com/metalcycle/lcastudio/internal/domain/project"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

func statusLabel(s project.Status) string {
	switch s {
	case project.StatusCompleted:
		return green(string(s))
	case project.StatusInProgress:
		return yellow(string(s))
	default:
		return faint(string(s))
	}
}

// ago renders a stored YYYY-MM-DD date relative to now.
func ago(date string, now time.Time) string {
	t, err := time.Parse(project.DateLayout, date)
	if err != nil {
		return date
	}
	if now.Sub(t) < 24*time.Hour {
		return "today"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func number(v *float64, unit string) string {
	if v == nil {
		return faint("-")
	}
	s := humanize.FormatFloat("#,###.##", *v)
	if unit != "" {
		s += " " + unit
	}
	return s
}

func printProject(w io.Writer, p project.Project, now time.Time) {
	fmt.Fprintf(w, "%s  %s\n", bold(p.Name), statusLabel(p.Status))
	fmt.Fprintf(w, "  id:               %s\n", p.ID)
	if p.Description != "" {
		fmt.Fprintf(w, "  description:      %s\n", p.Description)
	}
	fmt.Fprintf(w, "  goal:             %s\n", p.AssessmentGoal)
	fmt.Fprintf(w, "  scope / horizon:  %s / %s\n", p.GeographicScope, p.TimeHorizon)
	fmt.Fprintf(w, "  functional unit:  %s (reference year %s)\n", p.FunctionalUnit, p.ReferenceYear)
	fmt.Fprintf(w, "  objective:        %s\n", p.PrimaryObjective)
	fmt.Fprintf(w, "  target recycled:  %s\n", number(p.TargetRecycled, "%"))
	fmt.Fprintf(w, "  carbon budget:    %s\n", number(p.CarbonBudget, "tCO2e"))
	fmt.Fprintf(w, "  created:          %s (%s)\n", p.Created, ago(p.Created, now))
	fmt.Fprintf(w, "  updated:          %s (%s)\n", p.Updated, ago(p.Updated, now))
	fmt.Fprintf(w, "  metals (%d):\n", len(p.Metals))
	for i, m := range p.Metals {
		printMetal(w, i, m)
	}
}

func printMetal(w io.Writer, i int, m project.MetalEntry) {
	name := m.Type
	if name == "" {
		name = faint("(unnamed)")
	}
	fmt.Fprintf(w, "    %d. %s  %s  [%s]\n", i+1, cyan(name), number(m.Quantity, "t"), m.ID)
	if len(m.LifecycleStages) > 0 {
		fmt.Fprintf(w, "       stages: %s\n", strings.Join(m.LifecycleStages, ", "))
	}
	if m.PreferredTreatment != "" {
		fmt.Fprintf(w, "       treatment: %s\n", m.PreferredTreatment)
	}
	if m.Transport != nil && (m.Transport.Mode != "" || m.Transport.DistanceKM != nil) {
		fmt.Fprintf(w, "       transport: %s %s %s\n", m.Transport.Stage, m.Transport.Mode, number(m.Transport.DistanceKM, "km"))
	}
	if m.Use != nil && m.Use.LifetimeYears != nil {
		fmt.Fprintf(w, "       lifetime: %s\n", number(m.Use.LifetimeYears, "years"))
	}
	if m.EOL != nil && m.EOL.CollectionRate != nil {
		fmt.Fprintf(w, "       collection: %s\n", number(m.EOL.CollectionRate, "%"))
	}
}

// noticePrinter renders notifier messages as they appear.
func noticePrinter(w io.Writer) assist.Listener {
	return func(msg assist.Message, visible bool) {
		if !visible {
			return
		}
		var text string
		switch msg.Kind {
		case assist.KindDone:
			text = green("✔ " + msg.Text)
		case assist.KindProgress:
			text = cyan("… " + msg.Text)
		default:
			text = yellow("ℹ " + msg.Text)
		}
		fmt.Fprintln(w, text)
		if msg.Detail != "" {
			fmt.Fprintln(w, "  "+faint(msg.Detail))
		}
	}
}
