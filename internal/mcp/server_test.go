package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/domain/assist"
	"github.com/metalcycle/lcastudio/internal/domain/form"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/metalcycle/lcastudio/internal/domain/session"
	"github.com/metalcycle/lcastudio/internal/domain/template"
	"github.com/metalcycle/lcastudio/internal/export"
	"github.com/metalcycle/lcastudio/internal/sqlite"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type memClipboard struct {
	text string
	err  error
}

func (c *memClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type harness struct {
	cs        *sdkmcp.ClientSession
	projects  *project.Service
	clipboard *memClipboard
	exportDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	now := func() time.Time { return time.Date(2025, 10, 3, 9, 0, 0, 0, time.UTC) }
	projects := project.NewService(sqlite.NewProjectRepository(db), nil, project.WithClock(now))
	_, err = projects.Seed(ctx)
	require.NoError(t, err)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	sessions := session.NewService(projects, template.Builtin(), activitySvc, nil, session.Options{
		Engine: assist.NewSeededEngine(11),
		Now:    now,
	})

	h := &harness{projects: projects, clipboard: &memClipboard{}, exportDir: t.TempDir()}
	server := NewServer(Config{
		Services: Services{
			Projects:  projects,
			Sessions:  sessions,
			Activity:  activitySvc,
			Templates: template.Builtin(),
		},
		ExportDir: h.exportDir,
		Clipboard: h.clipboard,
	})

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })

	h.cs = cs
	return h
}

// call invokes a tool and decodes its JSON text into out. It returns the
// API error when the tool reports one.
func (h *harness) call(t *testing.T, name string, args map[string]any, out any) *APIError {
	t.Helper()
	res, err := h.cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)

	if res.IsError {
		var apiErr APIError
		require.NoError(t, json.Unmarshal([]byte(text.Text), &apiErr), text.Text)
		return &apiErr
	}
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(text.Text), out), text.Text)
	}
	return nil
}

func (h *harness) mustCall(t *testing.T, name string, args map[string]any, out any) {
	t.Helper()
	apiErr := h.call(t, name, args, out)
	require.Nil(t, apiErr, "%s failed: %+v", name, apiErr)
}

func TestServerListsToolsAndDocs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tools, err := h.cs.ListTools(ctx, nil)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"list_projects", "get_project", "duplicate_project", "list_templates", "start_form",
		"get_form", "update_form", "form_next", "form_prev", "form_jump", "add_metal",
		"remove_metal", "update_metal", "missing_fields", "assist_fill", "submit_form",
		"close_form", "export_project", "get_analytics", "recent_activity",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}

	res, err := h.cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "lca://docs/fields"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "assessmentGoal")
	require.Contains(t, res.Contents[0].Text, "transport.mode")
}

func TestListAndGetProjects(t *testing.T) {
	h := newHarness(t)

	var list ListProjectsResponse
	h.mustCall(t, "list_projects", map[string]any{}, &list)
	require.Equal(t, 3, list.Overview.TotalProjects)
	require.Len(t, list.Projects, 3)

	var p project.Project
	h.mustCall(t, "get_project", map[string]any{"id": "1"}, &p)
	require.Equal(t, "Green Copper Initiative", p.Name)

	apiErr := h.call(t, "get_project", map[string]any{"id": "404"}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "PROJECT_NOT_FOUND", apiErr.Code)
}

func TestFormRunEndToEnd(t *testing.T) {
	h := newHarness(t)

	var view FormView
	h.mustCall(t, "start_form", map[string]any{}, &view)
	require.Equal(t, 1, view.Step)
	require.Equal(t, form.StepTitle(1), view.StepTitle)
	formID := view.FormID

	apiErr := h.call(t, "form_next", map[string]any{"form_id": formID}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "STEP_INCOMPLETE", apiErr.Code)

	h.mustCall(t, "update_form", map[string]any{
		"form_id": formID,
		"fields":  map[string]any{"name": "Brass Fittings", "functionalUnit": "1000 units", "targetRecycled": 35},
	}, &view)
	require.Equal(t, "Brass Fittings", view.Project.Name)

	apiErr = h.call(t, "update_form", map[string]any{
		"form_id": formID,
		"fields":  map[string]any{"targetRecycled": 140},
	}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "INVALID_VALUE", apiErr.Code)

	var next FormNextResponse
	h.mustCall(t, "form_next", map[string]any{"form_id": formID}, &next)
	require.Equal(t, 2, next.Form.Step)

	var added AddMetalResponse
	h.mustCall(t, "add_metal", map[string]any{"form_id": formID, "type": "Copper"}, &added)
	h.mustCall(t, "update_metal", map[string]any{
		"form_id":  formID,
		"metal_id": added.MetalID,
		"quantity": 8,
		"section":  "transport",
		"field":    "mode",
		"value":    "rail",
	}, nil)

	apiErr = h.call(t, "remove_metal", map[string]any{"form_id": formID, "metal_id": added.MetalID}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "LAST_METAL", apiErr.Code)

	h.mustCall(t, "form_next", map[string]any{"form_id": formID}, &next)
	require.Equal(t, 3, next.Form.Step)

	var assisted AssistResponse
	h.mustCall(t, "assist_fill", map[string]any{"form_id": formID}, &assisted)
	require.False(t, assisted.NothingToDo)
	require.InDelta(t, 35, *assisted.Form.Project.TargetRecycled, 1e-9)
	require.NotEmpty(t, assisted.Form.Project.PrimaryObjective)

	h.mustCall(t, "form_next", map[string]any{"form_id": formID}, &next)
	require.Equal(t, 4, next.Form.Step)

	h.mustCall(t, "form_next", map[string]any{"form_id": formID}, &next)
	require.NotNil(t, next.Submitted)
	require.NotEmpty(t, next.Submitted.ID)
	require.Equal(t, "2025-10-03", next.Submitted.Created)

	stored, err := h.projects.Get(context.Background(), next.Submitted.ID)
	require.NoError(t, err)
	require.Equal(t, "Brass Fittings", stored.Name)
	require.Equal(t, project.ModeRail, stored.Metals[0].Transport.Mode)

	var recent RecentActivityResponse
	h.mustCall(t, "recent_activity", map[string]any{"form_id": formID}, &recent)
	types := map[activity.ActivityType]bool{}
	for _, e := range recent.Entries {
		types[e.ActivityType] = true
	}
	require.True(t, types[activity.TypeFormStarted])
	require.True(t, types[activity.TypeAssistApplied])
	require.True(t, types[activity.TypeProjectSaved])

	h.mustCall(t, "close_form", map[string]any{"form_id": formID}, nil)
	apiErr = h.call(t, "get_form", map[string]any{"form_id": formID}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "FORM_NOT_FOUND", apiErr.Code)
}

func TestFormIDFromMeta(t *testing.T) {
	h := newHarness(t)

	var view FormView
	h.mustCall(t, "start_form", map[string]any{"template_id": "tpl-copper"}, &view)

	res, err := h.cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Meta:      sdkmcp.Meta{"form_id": view.FormID},
		Name:      "get_form",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var got FormView
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(*sdkmcp.TextContent).Text), &got))
	require.Equal(t, view.FormID, got.FormID)
	require.Equal(t, session.OriginTemplate, got.Origin)
}

func TestFormJumpLocked(t *testing.T) {
	h := newHarness(t)

	var view FormView
	h.mustCall(t, "start_form", map[string]any{"project_id": "2"}, &view)
	apiErr := h.call(t, "form_jump", map[string]any{"form_id": view.FormID, "step": 3}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "STEP_LOCKED", apiErr.Code)

	apiErr = h.call(t, "start_form", map[string]any{"project_id": "1", "template_id": "tpl-copper"}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "INVALID_INPUT", apiErr.Code)
}

func TestSubmitFormRechecksSteps(t *testing.T) {
	h := newHarness(t)

	var view FormView
	h.mustCall(t, "start_form", map[string]any{}, &view)
	apiErr := h.call(t, "submit_form", map[string]any{"form_id": view.FormID}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "STEP_INCOMPLETE", apiErr.Code)

	h.mustCall(t, "update_form", map[string]any{
		"form_id": view.FormID,
		"fields":  map[string]any{"name": "Empty Shell", "functionalUnit": "1 unit"},
	}, nil)
	apiErr = h.call(t, "submit_form", map[string]any{"form_id": view.FormID}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "STEP_INCOMPLETE", apiErr.Code)
	require.Equal(t, []any{"Metals (add at least one)"}, apiErr.Details)

	h.mustCall(t, "get_form", map[string]any{"form_id": view.FormID}, &view)
	require.Equal(t, 2, view.Step)

	list, err := h.projects.List(context.Background())
	require.NoError(t, err)
	for _, p := range list {
		require.NotEqual(t, "Empty Shell", p.Name)
	}
}

func TestUpdateMetalIsAtomic(t *testing.T) {
	h := newHarness(t)

	var view FormView
	h.mustCall(t, "start_form", map[string]any{"template_id": "tpl-copper"}, &view)
	metalID := view.Project.Metals[0].ID

	apiErr := h.call(t, "update_metal", map[string]any{
		"form_id":  view.FormID,
		"metal_id": metalID,
		"type":     "Zinc",
		"section":  "transport",
		"field":    "mode",
		"value":    "boat",
	}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "INVALID_FIELD", apiErr.Code)

	h.mustCall(t, "get_form", map[string]any{"form_id": view.FormID}, &view)
	require.Equal(t, "Copper", view.Project.Metals[0].Type)
	require.Nil(t, view.Project.Metals[0].Transport)
}

func TestDuplicateProject(t *testing.T) {
	h := newHarness(t)

	var cp project.Project
	h.mustCall(t, "duplicate_project", map[string]any{"id": "1"}, &cp)
	require.Equal(t, "Green Copper Initiative (Copy)", cp.Name)
	require.Equal(t, project.StatusDraft, cp.Status)

	var list ListProjectsResponse
	h.mustCall(t, "list_projects", map[string]any{"limit": 1}, &list)
	require.Equal(t, 4, list.Overview.TotalProjects)
	require.Len(t, list.Projects, 1)
	require.Equal(t, cp.ID, list.Projects[0].ID)
}

func TestExportProject(t *testing.T) {
	h := newHarness(t)

	var resp ExportResponse
	h.mustCall(t, "export_project", map[string]any{"project_id": "1"}, &resp)
	require.Equal(t, "file", resp.Target)
	require.Equal(t, filepath.Join(h.exportDir, "green_copper_initiative_lca.json"), resp.Path)

	h.mustCall(t, "export_project", map[string]any{"project_id": "2", "target": "clipboard"}, &resp)
	require.Contains(t, h.clipboard.text, `"name": "Solar Panel Aluminum"`)

	h.clipboard.err = errors.New("denied")
	apiErr := h.call(t, "export_project", map[string]any{"project_id": "2", "target": "clipboard"}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "EXPORT_FAILED", apiErr.Code)

	var view FormView
	h.mustCall(t, "start_form", map[string]any{}, &view)
	h.mustCall(t, "export_project", map[string]any{"form_id": view.FormID, "target": "inline"}, &resp)
	require.Equal(t, "project_lca.json", resp.FileName)
	want, err := export.JSON(view.Project)
	require.NoError(t, err)
	require.JSONEq(t, string(want), resp.JSON)
}

func TestGetAnalytics(t *testing.T) {
	h := newHarness(t)

	var resp AnalyticsResponse
	h.mustCall(t, "get_analytics", map[string]any{"project_id": "1"}, &resp)
	require.Equal(t, "1", resp.Report.Selection)
	require.Len(t, resp.Report.Series, 6)
	require.Equal(t, 832, resp.Report.Series[0].Emissions)

	xlsx := filepath.Join(t.TempDir(), "report.xlsx")
	h.mustCall(t, "get_analytics", map[string]any{"xlsx_path": xlsx}, &resp)
	require.Equal(t, "all", resp.Report.Selection)
	require.Equal(t, 3, resp.Report.Headline.TotalProjects)
	require.FileExists(t, xlsx)

	apiErr := h.call(t, "get_analytics", map[string]any{"project_id": "nope"}, nil)
	require.NotNil(t, apiErr)
	require.Equal(t, "PROJECT_NOT_FOUND", apiErr.Code)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("boom")))

	err := &form.ValidationError{Step: 2, Fields: []string{"Metal 1 quantity"}, Err: form.ErrStepIncomplete}
	apiErr := MapError(err)
	require.Equal(t, "STEP_INCOMPLETE", apiErr.Code)
	require.Equal(t, []string{"Metal 1 quantity"}, apiErr.Details)

	require.Equal(t, "FORM_NOT_FOUND", MapError(session.ErrFormNotFound).Code)
	require.Equal(t, "TEMPLATE_NOT_FOUND", MapError(template.ErrTemplateNotFound).Code)
	require.Equal(t, "CANCELLED", MapError(context.Canceled).Code)
}
