package mcp

import (
	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/domain/analytics"
	"github.com/metalcycle/lcastudio/internal/domain/assist"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/metalcycle/lcastudio/internal/domain/session"
)

// Tool parameter types. Fields without omitempty are required.

type ListProjectsParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of projects, newest first (0 for all)"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"Project ID"`
}

type DuplicateProjectParams struct {
	ID string `json:"id" jsonschema:"ID of the project to copy"`
}

type ListTemplatesParams struct{}

type StartFormParams struct {
	ProjectID   string `json:"project_id,omitempty" jsonschema:"Edit this stored project"`
	DuplicateOf string `json:"duplicate_of,omitempty" jsonschema:"Copy this stored project and edit the copy"`
	TemplateID  string `json:"template_id,omitempty" jsonschema:"Start from this template"`
}

type FormParams struct {
	FormID string `json:"form_id,omitempty" jsonschema:"Form ID (defaults to _meta.form_id)"`
}

type UpdateFormParams struct {
	FormID string         `json:"form_id,omitempty" jsonschema:"Form ID (defaults to _meta.form_id)"`
	Fields map[string]any `json:"fields" jsonschema:"Project fields to set, by JSON name; null or empty clears optional numbers"`
}

type FormJumpParams struct {
	FormID string `json:"form_id,omitempty" jsonschema:"Form ID (defaults to _meta.form_id)"`
	Step   int    `json:"step" jsonschema:"Target step (1-4); forward jumps need the step to have been reached"`
}

type AddMetalParams struct {
	FormID string `json:"form_id,omitempty" jsonschema:"Form ID (defaults to _meta.form_id)"`
	Type   string `json:"type,omitempty" jsonschema:"Metal type, e.g. Copper"`
}

type RemoveMetalParams struct {
	FormID  string `json:"form_id,omitempty" jsonschema:"Form ID (defaults to _meta.form_id)"`
	MetalID string `json:"metal_id" jsonschema:"Metal entry ID"`
}

type UpdateMetalParams struct {
	FormID             string   `json:"form_id,omitempty" jsonschema:"Form ID (defaults to _meta.form_id)"`
	MetalID            string   `json:"metal_id" jsonschema:"Metal entry ID"`
	Type               *string  `json:"type,omitempty" jsonschema:"Metal type"`
	Quantity           *float64 `json:"quantity,omitempty" jsonschema:"Quantity in tonnes"`
	LifecycleStages    []string `json:"lifecycle_stages,omitempty" jsonschema:"Lifecycle stages covered"`
	PreferredTreatment *string  `json:"preferred_treatment,omitempty" jsonschema:"Preferred end-of-life treatment"`
	Section            string   `json:"section,omitempty" jsonschema:"Sub-record to change: transport, use or eol"`
	Field              string   `json:"field,omitempty" jsonschema:"Leaf within section: stage, mode, distanceKm, lifetimeYears or collectionRatePercent"`
	Value              any      `json:"value,omitempty" jsonschema:"New leaf value; null clears it"`
}

type ExportProjectParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Stored project to export"`
	FormID    string `json:"form_id,omitempty" jsonschema:"Open form whose in-progress project to export"`
	Target    string `json:"target,omitempty" jsonschema:"file (default), clipboard or inline"`
	Dir       string `json:"dir,omitempty" jsonschema:"Directory for file exports"`
}

type GetAnalyticsParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Project ID, or all for the combined view"`
	XLSXPath  string `json:"xlsx_path,omitempty" jsonschema:"Also write the report as a spreadsheet to this path"`
}

type RecentActivityParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Filter by project"`
	FormID    string `json:"form_id,omitempty" jsonschema:"Filter by form"`
	Type      string `json:"type,omitempty" jsonschema:"Filter by activity type"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum entries (default 50)"`
	Offset    int    `json:"offset,omitempty" jsonschema:"Offset for pagination"`
}

// Responses.

type ListProjectsResponse struct {
	Overview project.Overview  `json:"overview"`
	Projects []project.Summary `json:"projects"`
}

type FormView struct {
	FormID    string          `json:"form_id"`
	Origin    session.Origin  `json:"origin"`
	Step      int             `json:"step"`
	StepTitle string          `json:"step_title"`
	Reached   int             `json:"reached"`
	Project   project.Project `json:"project"`
	Errors    []string        `json:"errors,omitempty"`
	Missing   []string        `json:"missing"`
	Notice    *assist.Message `json:"notice,omitempty"`
}

type FormNextResponse struct {
	Form      FormView         `json:"form"`
	Submitted *project.Project `json:"submitted,omitempty"`
}

type AddMetalResponse struct {
	MetalID string   `json:"metal_id"`
	Form    FormView `json:"form"`
}

type ChangeMetalResponse struct {
	Found bool     `json:"found"`
	Form  FormView `json:"form"`
}

type AssistResponse struct {
	NothingToDo bool     `json:"nothing_to_do"`
	Filled      []string `json:"filled"`
	Form        FormView `json:"form"`
}

type ExportResponse struct {
	Target   string `json:"target"`
	Path     string `json:"path,omitempty"`
	FileName string `json:"file_name"`
	JSON     string `json:"json,omitempty"`
}

type AnalyticsResponse struct {
	Report   analytics.Report `json:"report"`
	XLSXPath string           `json:"xlsx_path,omitempty"`
}

type RecentActivityResponse struct {
	Entries []activity.ActivityEntry `json:"entries"`
}
