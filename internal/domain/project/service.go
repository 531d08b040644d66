package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout of the created and updated stamps.
const DateLayout = "2006-01-02"

// Service is the project store.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the clock used for date stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{repo: repo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current date stamp.
func (s *Service) Today() string {
	return s.now().Format(DateLayout)
}

// Save stores a finished project. A project without an ID gets a new one.
// Updated is always stamped and Created only when absent.
func (s *Service) Save(ctx context.Context, proj Project) (*Project, error) {
	if strings.TrimSpace(proj.Name) == "" || strings.TrimSpace(proj.FunctionalUnit) == "" {
		return nil, fmt.Errorf("%w: name and functional unit are required", ErrInvalidInput)
	}
	if err := proj.ValidateValues(); err != nil {
		return nil, err
	}
	if proj.Status == "" {
		proj.Status = StatusDraft
	}
	if !proj.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, proj.Status)
	}

	out := proj.Clone()
	if strings.TrimSpace(out.ID) == "" {
		out.ID = uuid.NewString()
	}
	today := s.Today()
	if out.Created == "" {
		out.Created = today
	}
	out.Updated = today

	if err := s.repo.Save(ctx, &out); err != nil {
		return nil, storeErr("saving project", err)
	}
	s.logger.Info("project saved", "project_id", out.ID, "name", out.Name, "metals", len(out.Metals))
	return &out, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storeErr("getting project", err)
	}
	return proj, nil
}

// Duplicate copies a stored project under a new ID as a fresh draft.
func (s *Service) Duplicate(ctx context.Context, id string) (*Project, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cp := src.Clone()
	cp.ID = uuid.NewString()
	cp.Name = src.Name + " (Copy)"
	cp.Status = StatusDraft
	cp.Created = s.Today()
	cp.Updated = cp.Created

	if err := s.repo.Save(ctx, &cp); err != nil {
		return nil, storeErr("duplicating project", err)
	}
	s.logger.Info("project duplicated", "source_id", id, "project_id", cp.ID)
	return &cp, nil
}

// ListRecent returns up to n projects, newest first. n <= 0 returns all.
func (s *Service) ListRecent(ctx context.Context, n int) ([]Project, error) {
	if n < 0 {
		n = 0
	}
	list, err := s.repo.List(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return list, nil
}

// List returns project summaries, newest first.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	list, err := s.ListRecent(ctx, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(list))
	for _, p := range list {
		out = append(out, p.Summarize())
	}
	return out, nil
}

// Overview counts projects by status.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	list, err := s.ListRecent(ctx, 0)
	if err != nil {
		return Overview{}, err
	}
	ov := Overview{TotalProjects: len(list)}
	for _, p := range list {
		switch p.Status {
		case StatusCompleted:
			ov.Completed++
		case StatusInProgress:
			ov.InProgress++
		default:
			ov.Drafts++
		}
	}
	return ov, nil
}

// Seed loads the sample projects into an empty store. It reports how many were added.
func (s *Service) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting projects: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	samples := Samples()
	for i := range samples {
		if err := s.repo.Save(ctx, &samples[i]); err != nil {
			return i, fmt.Errorf("seeding project %s: %w", samples[i].ID, err)
		}
	}
	s.logger.Debug("sample projects seeded", "count", len(samples))
	return len(samples), nil
}
