package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeFormStarted       ActivityType = "form_started"
	TypeAssistApplied     ActivityType = "assist_applied"
	TypeProjectSaved      ActivityType = "project_saved"
	TypeProjectDuplicated ActivityType = "project_duplicated"
	TypeExportWritten     ActivityType = "export_written"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeFormStarted, TypeAssistApplied, TypeProjectSaved, TypeProjectDuplicated, TypeExportWritten:
		return true
	}
	return false
}

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    string       `json:"project_id,omitempty"`
	FormID       *string      `json:"form_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
