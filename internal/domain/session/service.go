package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/domain/assist"
	"github.com/metalcycle/lcastudio/internal/domain/form"
	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// Options configures the forms a Service opens.
type Options struct {
	// Engine is shared by every form; nil gives each form a time-seeded one.
	Engine     *assist.Engine
	StageDelay time.Duration
	Now        func() time.Time
}

// Service is the registry of open form sessions. Each form is owned by
// exactly one session.
type Service struct {
	projects  ProjectStore
	templates Templates
	activity  ActivityRecorder
	logger    *slog.Logger
	opts      Options

	mu    sync.Mutex
	forms map[string]*FormSession
}

// NewService creates a new session service.
func NewService(
	projects ProjectStore,
	templates Templates,
	activity ActivityRecorder,
	logger *slog.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		projects:  projects,
		templates: templates,
		activity:  activity,
		logger:    logger,
		opts:      opts,
		forms:     make(map[string]*FormSession),
	}
}

// StartRequest selects the seed of a new form. At most one field may be set;
// none opens a blank form.
type StartRequest struct {
	ProjectID   string
	DuplicateOf string
	TemplateID  string
}

// Start opens a form session.
func (s *Service) Start(ctx context.Context, req StartRequest) (*FormSession, error) {
	set := 0
	for _, v := range []string{req.ProjectID, req.DuplicateOf, req.TemplateID} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("%w: choose one of project, duplicate or template", ErrInvalidInput)
	}

	var (
		seed   *project.Project
		origin = OriginBlank
		source string
	)
	switch {
	case req.ProjectID != "":
		p, err := s.projects.Get(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		seed, origin, source = p, OriginEdit, req.ProjectID
	case req.DuplicateOf != "":
		p, err := s.projects.Duplicate(ctx, req.DuplicateOf)
		if err != nil {
			return nil, err
		}
		s.activity.Record(ctx, activity.TypeProjectDuplicated, p.ID, nil,
			fmt.Sprintf("Duplicated %s as %q", req.DuplicateOf, p.Name), map[string]string{"source_id": req.DuplicateOf})
		seed, origin, source = p, OriginDuplicate, req.DuplicateOf
	case req.TemplateID != "":
		tpl, err := s.templates.Get(req.TemplateID)
		if err != nil {
			return nil, err
		}
		p := tpl.Seed()
		seed, origin, source = &p, OriginTemplate, req.TemplateID
	}

	now := s.opts.Now()
	sess := &FormSession{
		ID:       uuid.NewString(),
		Origin:   origin,
		SourceID: source,
		Form: form.New(seed, s.projects, form.Options{
			Engine:     s.opts.Engine,
			StageDelay: s.opts.StageDelay,
			Now:        s.opts.Now,
		}),
		CreatedAt:    now,
		LastActivity: now,
	}

	s.mu.Lock()
	s.forms[sess.ID] = sess
	s.mu.Unlock()

	formID := sess.ID
	projectID := ""
	if seed != nil {
		projectID = seed.ID
	}
	s.activity.Record(ctx, activity.TypeFormStarted, projectID, &formID,
		fmt.Sprintf("Form opened (%s)", origin), map[string]string{"origin": string(origin), "source_id": source})
	s.logger.Info("form started", "form_id", sess.ID, "origin", origin, "source_id", source)
	return sess, nil
}

// Get returns an open session and marks it active.
func (s *Service) Get(id string) (*FormSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.forms[id]
	if !ok {
		return nil, ErrFormNotFound
	}
	sess.LastActivity = s.opts.Now()
	return sess, nil
}

// List returns the open sessions, oldest first.
func (s *Service) List() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Info, 0, len(s.forms))
	for _, sess := range s.forms {
		out = append(out, sess.Info())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Close discards a session. Unsubmitted edits are dropped.
func (s *Service) Close(id string) error {
	s.mu.Lock()
	sess, ok := s.forms[id]
	delete(s.forms, id)
	s.mu.Unlock()
	if !ok {
		return ErrFormNotFound
	}
	sess.Form.Notifier().Close()
	s.logger.Info("form closed", "form_id", id)
	return nil
}

// Submit saves the form's project through the project store.
func (s *Service) Submit(ctx context.Context, id string) (*project.Project, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	saved, err := sess.Form.Submit(ctx)
	if err != nil {
		return nil, err
	}
	s.recordSaved(ctx, id, saved)
	return saved, nil
}

// Next advances the form, recording the save when the last step submits.
func (s *Service) Next(ctx context.Context, id string) (form.Outcome, error) {
	sess, err := s.Get(id)
	if err != nil {
		return form.Outcome{}, err
	}
	out, err := sess.Form.Next(ctx)
	if err != nil {
		var verr *form.ValidationError
		if !errors.As(err, &verr) {
			s.logger.Warn("form advance failed", "form_id", id, "error", err)
		}
		return out, err
	}
	if out.Submitted != nil {
		s.recordSaved(ctx, id, out.Submitted)
	}
	return out, nil
}

// Assist runs the assist for the form's current step.
func (s *Service) Assist(ctx context.Context, id string) (form.AssistResult, error) {
	sess, err := s.Get(id)
	if err != nil {
		return form.AssistResult{}, err
	}
	res, err := sess.Form.Assist(ctx)
	if err != nil {
		return res, err
	}
	if !res.NothingToDo {
		formID := id
		s.activity.Record(ctx, activity.TypeAssistApplied, res.Project.ID, &formID,
			fmt.Sprintf("Assist filled %d field(s) on step %d", len(res.Missing), res.Step),
			map[string]any{"step": res.Step, "missing": res.Missing})
	}
	return res, nil
}

func (s *Service) recordSaved(ctx context.Context, formID string, saved *project.Project) {
	id := formID
	s.activity.Record(ctx, activity.TypeProjectSaved, saved.ID, &id,
		fmt.Sprintf("Saved %q", saved.Name), map[string]string{"status": string(saved.Status)})
}
