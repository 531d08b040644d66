package session

import (
	"time"

	"github.com/metalcycle/lcastudio/internal/domain/form"
)

// Origin describes what a form session was seeded from.
type Origin string

const (
	OriginBlank     Origin = "blank"
	OriginEdit      Origin = "edit"
	OriginDuplicate Origin = "duplicate"
	OriginTemplate  Origin = "template"
)

// FormSession is one open form.
type FormSession struct {
	ID           string
	Origin       Origin
	SourceID     string
	Form         *form.Form
	CreatedAt    time.Time
	LastActivity time.Time
}

// Info provides information about an open form session.
type Info struct {
	ID           string    `json:"form_id"`
	Origin       Origin    `json:"origin"`
	SourceID     string    `json:"source_id,omitempty"`
	Step         int       `json:"step"`
	ProjectID    string    `json:"project_id,omitempty"`
	ProjectName  string    `json:"project_name"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Info summarises the session.
func (s *FormSession) Info() Info {
	p := s.Form.Project()
	return Info{
		ID:           s.ID,
		Origin:       s.Origin,
		SourceID:     s.SourceID,
		Step:         s.Form.Step(),
		ProjectID:    p.ID,
		ProjectName:  p.Name,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
	}
}
