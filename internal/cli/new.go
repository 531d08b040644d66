package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/metalcycle/lcastudio/internal/domain/analytics"
	"github.com/metalcycle/lcastudio/internal/domain/form"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/metalcycle/lcastudio/internal/domain/session"
	"github.com/spf13/cobra"
)

func newNewCommand(e *env) *cobra.Command {
	var (
		req     session.StartRequest
		autoAll bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Walk through the four form steps and save a project",
		Long: `Open a project form and walk through its four steps.

Without flags the form starts blank. --template seeds it from the gallery,
--from stores a draft copy of an existing project and edits that, and --edit
reopens a stored project. --assist fills every step automatically and saves
without prompting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !autoAll && !isInteractiveAllowed() {
				return errors.New("an interactive terminal is required; pass --assist to fill the form automatically")
			}

			ctx := cmd.Context()
			a, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.Sessions.Start(ctx, req)
			if err != nil {
				return err
			}
			defer a.Sessions.Close(sess.ID)

			out := cmd.OutOrStdout()
			unsubscribe := sess.Form.Notifier().Subscribe(noticePrinter(cmd.ErrOrStderr()))
			defer unsubscribe()

			var saved *project.Project
			if autoAll {
				saved, err = autofill(ctx, out, a.Sessions, sess)
			} else {
				saved, err = (&walkthrough{ctx: ctx, out: out, forms: a.Sessions, sess: sess, p: terminalPrompter{}}).run()
			}
			if errors.Is(err, errCancelled) {
				fmt.Fprintln(out, faint("Form discarded."))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s (%s)\n", green("Saved"), saved.Name, saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.TemplateID, "template", "t", "", "seed the form from a template id")
	cmd.Flags().StringVar(&req.DuplicateOf, "from", "", "edit a draft copy of an existing project")
	cmd.Flags().StringVar(&req.ProjectID, "edit", "", "reopen a stored project")
	cmd.Flags().BoolVar(&autoAll, "assist", false, "fill every step with assist and save without prompting")
	cmd.MarkFlagsMutuallyExclusive("template", "from", "edit")
	return cmd
}

// formSessions is the part of the session registry the form commands drive.
type formSessions interface {
	Next(ctx context.Context, id string) (form.Outcome, error)
	Assist(ctx context.Context, id string) (form.AssistResult, error)
}

// autofill runs assist on every step and advances until the project is saved.
func autofill(ctx context.Context, out io.Writer, forms formSessions, sess *session.FormSession) (*project.Project, error) {
	for range form.StepReview {
		step := sess.Form.Step()
		fmt.Fprintf(out, "%s %s\n", bold(fmt.Sprintf("Step %d/%d", step, form.StepReview)), form.StepTitle(step))
		if _, err := forms.Assist(ctx, sess.ID); err != nil {
			return nil, err
		}
		outcome, err := forms.Next(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		if outcome.Submitted != nil {
			return outcome.Submitted, nil
		}
	}
	return nil, fmt.Errorf("form stopped on step %d", sess.Form.Step())
}

// Fields edited on the details and goals steps, in display order.
var (
	detailFields = []string{
		"name", "description", "assessmentGoal", "geographicScope",
		"timeHorizon", "functionalUnit", "referenceYear",
	}
	goalFields = []string{
		"primaryObjective", "targetRecycled", "carbonBudget", "improvementTimeframe",
		"investmentWillingness", "dataSource", "comparisonBenchmark", "sensitivityVars",
	}
)

var fieldLabels = map[string]string{
	"name":                  "Project name",
	"description":           "Description",
	"assessmentGoal":        "Assessment goal",
	"geographicScope":       "Geographic scope",
	"timeHorizon":           "Time horizon",
	"functionalUnit":        "Functional unit",
	"referenceYear":         "Reference year",
	"primaryObjective":      "Primary objective",
	"targetRecycled":        "Target recycled content (%)",
	"carbonBudget":          "Carbon budget (tCO2e)",
	"improvementTimeframe":  "Improvement timeframe",
	"investmentWillingness": "Investment willingness",
	"dataSource":            "Data source",
	"comparisonBenchmark":   "Comparison benchmark",
	"sensitivityVars":       "Sensitivity variables",
	"status":                "Status",
}

// fieldValue renders the current value of a project-level field.
func fieldValue(p project.Project, name string) string {
	num := func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	switch name {
	case "name":
		return p.Name
	case "description":
		return p.Description
	case "assessmentGoal":
		return p.AssessmentGoal
	case "geographicScope":
		return p.GeographicScope
	case "timeHorizon":
		return p.TimeHorizon
	case "functionalUnit":
		return p.FunctionalUnit
	case "referenceYear":
		return p.ReferenceYear
	case "primaryObjective":
		return p.PrimaryObjective
	case "targetRecycled":
		return num(p.TargetRecycled)
	case "carbonBudget":
		return num(p.CarbonBudget)
	case "improvementTimeframe":
		return p.ImprovementTimeframe
	case "investmentWillingness":
		return p.InvestmentWillingness
	case "dataSource":
		return p.DataSource
	case "comparisonBenchmark":
		return p.ComparisonBenchmark
	case "sensitivityVars":
		return p.SensitivityVars
	case "status":
		return string(p.Status)
	}
	return ""
}

type action struct {
	label string
	run   func() (done bool, err error)
}

// walkthrough is the interactive editor over one form session.
type walkthrough struct {
	ctx   context.Context
	out   io.Writer
	forms formSessions
	sess  *session.FormSession
	p     prompter
	saved *project.Project
}

func (w *walkthrough) run() (*project.Project, error) {
	for {
		f := w.sess.Form
		step := f.Step()
		fmt.Fprintf(w.out, "\n%s %s\n", bold(fmt.Sprintf("Step %d/%d", step, form.StepReview)), form.StepTitle(step))
		if errs := f.Errors(); len(errs) > 0 {
			fmt.Fprintf(w.out, "%s %s\n", yellow("Please complete:"), strings.Join(errs, ", "))
		}
		if step == form.StepReview {
			w.printReview()
		}

		actions := w.actions(step)
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = a.label
		}
		idx, err := w.p.Select(fmt.Sprintf("Step %d: choose an action", step), labels)
		if err != nil {
			return nil, err
		}
		done, err := actions[idx].run()
		if err != nil {
			return nil, err
		}
		if done {
			return w.saved, nil
		}
	}
}

func (w *walkthrough) actions(step int) []action {
	p := w.sess.Form.Project()
	var out []action

	fieldAction := func(name string) action {
		label := fieldLabels[name]
		if v := fieldValue(p, name); v != "" {
			label += ": " + v
		}
		return action{label: label, run: func() (bool, error) { return false, w.editField(name) }}
	}

	switch step {
	case form.StepDetails:
		for _, name := range detailFields {
			out = append(out, fieldAction(name))
		}
	case form.StepMetals:
		for i, m := range p.Metals {
			id := m.ID
			out = append(out, action{
				label: fmt.Sprintf("Edit metal %d: %s", i+1, metalLine(m)),
				run:   func() (bool, error) { return false, w.editMetal(id) },
			})
		}
		out = append(out, action{label: "Add a metal", run: func() (bool, error) { return false, w.addMetal() }})
		if len(p.Metals) > 1 {
			out = append(out, action{label: "Remove a metal", run: func() (bool, error) { return false, w.removeMetal() }})
		}
	case form.StepGoals:
		for _, name := range goalFields {
			out = append(out, fieldAction(name))
		}
	case form.StepReview:
		out = append(out, fieldAction("status"))
	}

	if missing := w.sess.Form.Missing(); len(missing) > 0 {
		out = append(out, action{
			label: fmt.Sprintf("Fill missing fields (%d)", len(missing)),
			run:   func() (bool, error) { return false, w.assist() },
		})
	}
	next := "Next step"
	if step == form.StepReview {
		next = "Save project"
	}
	out = append(out, action{label: next, run: w.next})
	if step > form.StepDetails {
		out = append(out, action{label: "Previous step", run: func() (bool, error) {
			w.sess.Form.Prev()
			return false, nil
		}})
	}
	out = append(out, action{label: "Discard and quit", run: func() (bool, error) {
		ok, err := w.p.Confirm("Discard the unsaved form")
		if err != nil {
			return false, err
		}
		if ok {
			return false, errCancelled
		}
		return false, nil
	}})
	return out
}

func metalLine(m project.MetalEntry) string {
	name := m.Type
	if name == "" {
		name = "(unnamed)"
	}
	if m.Quantity != nil {
		name += fmt.Sprintf(" %s t", strconv.FormatFloat(*m.Quantity, 'f', -1, 64))
	}
	if len(m.LifecycleStages) > 0 {
		name += " [" + strings.Join(m.LifecycleStages, ", ") + "]"
	}
	return name
}

// rejected prints a user-correctable error and swallows it.
func (w *walkthrough) rejected(err error) error {
	var verr *form.ValidationError
	var ferr *project.FieldError
	if errors.As(err, &verr) || errors.As(err, &ferr) || errors.Is(err, form.ErrLastMetal) {
		fmt.Fprintf(w.out, "%s %v\n", yellow("Not applied:"), err)
		return nil
	}
	return err
}

func (w *walkthrough) ask(name, label, current string) (string, error) {
	if choices, ok := project.Choices[name]; ok {
		idx, err := w.p.Select(label, choices)
		if err != nil {
			return "", err
		}
		return choices[idx], nil
	}
	return w.p.Input(label, current)
}

func (w *walkthrough) editField(name string) error {
	p := w.sess.Form.Project()
	v, err := w.ask(name, fieldLabels[name], fieldValue(p, name))
	if err != nil {
		return err
	}
	return w.rejected(w.sess.Form.SetField(name, v))
}

func (w *walkthrough) addMetal() error {
	name, err := w.p.Input("Metal type", "")
	if err != nil {
		return err
	}
	id := w.sess.Form.AddMetal(name)
	return w.editMetal(id)
}

func (w *walkthrough) removeMetal() error {
	p := w.sess.Form.Project()
	labels := make([]string, len(p.Metals))
	for i, m := range p.Metals {
		labels[i] = metalLine(m)
	}
	idx, err := w.p.Select("Remove which metal", labels)
	if err != nil {
		return err
	}
	_, err = w.sess.Form.RemoveMetal(p.Metals[idx].ID)
	return w.rejected(err)
}

// Leaves of a metal entry offered by editMetal, as section.field.
var metalLeaves = []struct {
	path, label string
}{
	{"type", "Metal type"},
	{"quantity", "Quantity (t)"},
	{"lifecycleStages", "Lifecycle stages (comma separated)"},
	{"preferredTreatment", "Preferred treatment"},
	{"transport.stage", "Transport stage"},
	{"transport.mode", "Transport mode"},
	{"transport.distanceKm", "Transport distance (km)"},
	{"use.lifetimeYears", "Lifetime (years)"},
	{"eol.collectionRatePercent", "Collection rate (%)"},
}

func (w *walkthrough) editMetal(id string) error {
	for {
		p := w.sess.Form.Project()
		i := p.FindMetal(id)
		if i < 0 {
			return nil
		}
		fmt.Fprintf(w.out, "%s %s\n", bold("Metal:"), metalLine(p.Metals[i]))

		labels := make([]string, 0, len(metalLeaves)+1)
		for _, leaf := range metalLeaves {
			labels = append(labels, leaf.label)
		}
		labels = append(labels, "Done")
		idx, err := w.p.Select("Edit which field", labels)
		if err != nil {
			return err
		}
		if idx == len(metalLeaves) {
			return nil
		}
		if err := w.editMetalLeaf(p.Metals[i], metalLeaves[idx].path, metalLeaves[idx].label); err != nil {
			return err
		}
	}
}

func (w *walkthrough) editMetalLeaf(m project.MetalEntry, path, label string) error {
	f := w.sess.Form
	section, field, isSection := strings.Cut(path, ".")
	if isSection {
		v, err := w.ask(path, label, "")
		if err != nil {
			return err
		}
		_, err = f.UpdateMetalSection(m.ID, project.SectionPatch{Section: section, Field: field, Value: v})
		return w.rejected(err)
	}

	mp := project.MetalPatch{ID: m.ID}
	switch path {
	case "type":
		v, err := w.p.Input(label, m.Type)
		if err != nil {
			return err
		}
		mp.Type = &v
	case "quantity":
		current := ""
		if m.Quantity != nil {
			current = strconv.FormatFloat(*m.Quantity, 'f', -1, 64)
		}
		v, err := w.p.Input(label, current)
		if err != nil {
			return err
		}
		q, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fmt.Fprintf(w.out, "%s %q is not a number\n", yellow("Not applied:"), v)
			return nil
		}
		mp.Quantity = &q
	case "lifecycleStages":
		v, err := w.p.Input(label, strings.Join(m.LifecycleStages, ", "))
		if err != nil {
			return err
		}
		mp.LifecycleStages = []string{}
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				mp.LifecycleStages = append(mp.LifecycleStages, s)
			}
		}
	case "preferredTreatment":
		v, err := w.p.Input(label, m.PreferredTreatment)
		if err != nil {
			return err
		}
		mp.PreferredTreatment = &v
	}
	_, err := f.UpdateMetal(mp)
	return w.rejected(err)
}

func (w *walkthrough) assist() error {
	_, err := w.forms.Assist(w.ctx, w.sess.ID)
	return err
}

func (w *walkthrough) next() (bool, error) {
	outcome, err := w.forms.Next(w.ctx, w.sess.ID)
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			return false, nil
		}
		return false, err
	}
	if outcome.Submitted != nil {
		w.saved = outcome.Submitted
		return true, nil
	}
	return false, nil
}

func (w *walkthrough) printReview() {
	rv := w.sess.Form.Review()
	printProject(w.out, rv.Project, time.Now())
	printMetrics(w.out, rv.Metrics)
}

func printMetrics(out io.Writer, m analytics.Review) {
	fmt.Fprintf(out, "  estimated emissions: %d tCO2e   circularity index: %d   estimated cost: $%d\n",
		m.EstimatedEmissions, m.CircularityIndex, m.EstimatedCost)
	for _, s := range m.Metals {
		fmt.Fprintf(out, "    %-16s %3d%%  %s\n", s.Type, s.SharePercent, s.PreferredTreatment)
	}
}
