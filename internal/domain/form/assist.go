package form

import (
	"context"
	"fmt"

	"github.com/metalcycle/lcastudio/internal/domain/assist"
	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// AssistResult describes one assist run.
type AssistResult struct {
	Step        int             `json:"step"`
	Missing     []string        `json:"missing"`
	NothingToDo bool            `json:"nothingToDo"`
	Patch       assist.Patch    `json:"patch"`
	Project     project.Project `json:"project"`
}

// Assist fills the fields missing for the current step. Progress is shown
// on the notifier in stages; the patch is merged in one step at the end.
// Cancelling ctx during the stages aborts the run without touching the
// project. The fill targets the step current when the stages end, so a
// navigation during the stages redirects it.
func (f *Form) Assist(ctx context.Context) (AssistResult, error) {
	f.mu.Lock()
	step := f.step
	missing := assist.MissingFields(step, f.project)
	f.mu.Unlock()

	res := AssistResult{Step: step, Missing: missing}
	if len(missing) == 0 {
		f.notifier.Show(assist.MsgNothingToDo, assist.NothingToDoTTL)
		res.NothingToDo = true
		res.Project = f.Project()
		return res, nil
	}

	stages := []assist.Message{assist.MsgFilling(missing), assist.MsgGenerating, assist.MsgApplying}
	for _, msg := range stages {
		if err := f.notifier.Stage(ctx, msg, f.delay); err != nil {
			f.notifier.Close()
			return res, fmt.Errorf("assist interrupted: %w", err)
		}
	}

	f.mu.Lock()
	if f.step != step {
		res.Step = f.step
		res.Missing = assist.MissingFields(f.step, f.project)
		if len(res.Missing) == 0 {
			res.NothingToDo = true
			res.Project = f.project.Clone()
			f.mu.Unlock()
			f.notifier.Show(assist.MsgNothingToDo, assist.NothingToDoTTL)
			return res, nil
		}
	}
	pt := f.engine.Synthesize(res.Step, f.project)
	f.project = pt.Apply(f.project, f.nextMetalID)
	res.Project = f.project.Clone()
	f.mu.Unlock()

	res.Patch = pt
	f.notifier.Show(assist.MsgDone, assist.DoneTTL)
	return res, nil
}
