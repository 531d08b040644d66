package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || !entry.ActivityType.Valid() {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// Record logs an entry and only reports failures to the logger.
// Details, when non-nil, are stored as JSON.
func (s *Service) Record(ctx context.Context, typ ActivityType, projectID string, formID *string, summary string, details any) {
	entry := &ActivityEntry{
		ProjectID:    projectID,
		FormID:       formID,
		ActivityType: typ,
		Summary:      summary,
	}
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = string(b)
		}
	}
	if err := s.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("activity not recorded", "type", typ, "error", err)
	}
}

// GetRecentActivity lists activity entries with filtering.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.ActivityType != nil && !opts.ActivityType.Valid() {
		return nil, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, *opts.ActivityType)
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return s.repo.List(ctx, opts)
}
