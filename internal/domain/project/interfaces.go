package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	// Save inserts the project or replaces the stored copy with the same ID.
	Save(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	// List returns projects newest first.
	List(ctx context.Context, limit int) ([]Project, error)
	Count(ctx context.Context) (int, error)
}
