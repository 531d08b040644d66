package session

import (
	"context"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/metalcycle/lcastudio/internal/domain/template"
)

// ProjectStore is the project store as seen by form sessions.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	Duplicate(ctx context.Context, id string) (*project.Project, error)
	Save(ctx context.Context, proj project.Project) (*project.Project, error)
}

// Templates supplies template seeds.
type Templates interface {
	Get(id string) (template.Template, error)
}

// ActivityRecorder receives fire-and-forget activity entries.
type ActivityRecorder interface {
	Record(ctx context.Context, typ activity.ActivityType, projectID string, formID *string, summary string, details any)
}
