// Package form implements the four-step project editor: the step gates, the
// navigation state machine, the metal sub-editor and the assist run.
package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/metalcycle/lcastudio/internal/domain/analytics"
	"github.com/metalcycle/lcastudio/internal/domain/assist"
	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// Saver receives the finished project on submit.
type Saver interface {
	Save(ctx context.Context, proj project.Project) (*project.Project, error)
}

// Options configures a Form. Zero values get working defaults.
type Options struct {
	Engine     *assist.Engine
	Notifier   *assist.Notifier
	StageDelay time.Duration
	Now        func() time.Time
}

// Form owns one in-progress project for the duration of editing.
type Form struct {
	mu       sync.Mutex
	step     int
	reached  int
	project  project.Project
	errors   []string
	expanded map[string]bool
	metalSeq int

	saver    Saver
	engine   *assist.Engine
	notifier *assist.Notifier
	delay    time.Duration
	now      func() time.Time
}

// New opens a form at step 1. A nil seed starts from a blank project; a
// seed is copied and never shared with the caller.
func New(seed *project.Project, saver Saver, opts Options) *Form {
	p := project.Blank()
	if seed != nil {
		p = seed.Clone()
	}
	if p.Metals == nil {
		p.Metals = []project.MetalEntry{}
	}

	f := &Form{
		step:     StepDetails,
		reached:  StepDetails,
		project:  p,
		expanded: make(map[string]bool),
		metalSeq: len(p.Metals),
		saver:    saver,
		engine:   opts.Engine,
		notifier: opts.Notifier,
		delay:    opts.StageDelay,
		now:      opts.Now,
	}
	if f.engine == nil {
		f.engine = assist.NewSeededEngine(0)
	}
	if f.notifier == nil {
		f.notifier = assist.NewNotifier()
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// Step returns the current step.
func (f *Form) Step() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Reached returns the furthest step unlocked through validated advances.
func (f *Form) Reached() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reached
}

// Project returns a copy of the in-progress project.
func (f *Form) Project() project.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.project.Clone()
}

// Notifier returns the assist message surface of this form.
func (f *Form) Notifier() *assist.Notifier {
	return f.notifier
}

// Errors returns the inline field errors of the last rejected Next.
func (f *Form) Errors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.errors...)
}

// Check runs the gate of the current step without moving.
func (f *Form) Check() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ValidateStep(f.step, f.project)
}

// Update merges a partial project-level update. Out-of-range numbers are
// rejected and leave the project unchanged.
func (f *Form) Update(pt project.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if pt.Status != nil && *pt.Status != "" && !pt.Status.Valid() {
		return &ValidationError{Step: f.step, Fields: []string{"Status"}, Err: ErrInvalidValue}
	}
	return f.commit(f.project.ApplyPatch(pt))
}

// SetField parses a raw value for a named field and merges it.
func (f *Form) SetField(name string, value any) error {
	pt, err := project.ParseValue(name, value)
	if err != nil {
		return err
	}
	return f.Update(pt)
}

// commit swaps in next when its numbers are valid. Callers hold f.mu.
func (f *Form) commit(next project.Project) error {
	if bad := next.InvalidFields(); len(bad) > 0 {
		return &ValidationError{Step: f.step, Fields: bad, Err: ErrInvalidValue}
	}
	f.project = next
	return nil
}

// Outcome reports where Next left the form.
type Outcome struct {
	Step      int              `json:"step"`
	Submitted *project.Project `json:"submitted,omitempty"`
}

// Next validates the current step and advances. On the last step it submits.
func (f *Form) Next(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	r := ValidateStep(f.step, f.project)
	if !r.Passed {
		f.errors = r.Fields
		step := f.step
		f.mu.Unlock()
		return Outcome{Step: step}, r.Err()
	}
	f.errors = nil
	if f.step < StepReview {
		f.step++
		f.reached = max(f.reached, f.step)
		step := f.step
		f.mu.Unlock()
		return Outcome{Step: step}, nil
	}
	f.mu.Unlock()

	saved, err := f.Submit(ctx)
	if err != nil {
		return Outcome{Step: f.Step()}, err
	}
	return Outcome{Step: StepReview, Submitted: saved}, nil
}

// Prev moves one step back. It is a no-op on the first step.
func (f *Form) Prev() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step > StepDetails {
		f.step--
		f.errors = nil
	}
	return f.step
}

// JumpTo moves directly to step n, which must be backward or already reached.
func (f *Form) JumpTo(n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < StepDetails || n > StepReview {
		return fmt.Errorf("%w: step %d is out of range", ErrStepLocked, n)
	}
	if n > f.step && n > f.reached {
		return fmt.Errorf("%w: step %d", ErrStepLocked, n)
	}
	f.step = n
	f.errors = nil
	return nil
}

// Submit re-checks the details and metals gates, then stamps the dates and
// hands a copy to the saver. Updated is always stamped and Created only when
// absent. The form keeps its state and adopts the identity the store assigned.
func (f *Form) Submit(ctx context.Context) (*project.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saver == nil {
		return nil, ErrNoSaver
	}
	// Steps 1 and 2 may have been edited after they were passed; the
	// first one that no longer holds becomes the current step.
	for _, step := range []int{StepDetails, StepMetals} {
		if r := ValidateStep(step, f.project); !r.Passed {
			f.errors = r.Fields
			f.step = step
			return nil, r.Err()
		}
	}

	out := f.project.Clone()
	today := f.now().Format(project.DateLayout)
	out.Updated = today
	if out.Created == "" {
		out.Created = today
	}

	saved, err := f.saver.Save(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("submitting form: %w", err)
	}
	f.project.ID = saved.ID
	f.project.Created = saved.Created
	f.project.Updated = saved.Updated

	result := saved.Clone()
	return &result, nil
}

// Missing runs the advisory missing-field scan for the current step.
func (f *Form) Missing() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return assist.MissingFields(f.step, f.project)
}

// ReviewSummary is the review-step view of the form.
type ReviewSummary struct {
	Project project.Project  `json:"project"`
	Metrics analytics.Review `json:"metrics"`
}

// Review returns the project with its proxy figures.
func (f *Form) Review() ReviewSummary {
	p := f.Project()
	return ReviewSummary{Project: p, Metrics: analytics.ReviewOf(p)}
}
