package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/domain/analytics"
	"github.com/metalcycle/lcastudio/internal/domain/form"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/metalcycle/lcastudio/internal/domain/session"
	"github.com/metalcycle/lcastudio/internal/export"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolHandler struct {
	svc       Services
	exportDir string
	clipboard export.Clipboard
	logger    *slog.Logger
}

func registerTools(server *sdkmcp.Server, h *toolHandler) {
	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List stored LCA projects, newest first, with status counts",
	}, h.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a stored project with its metal inventory",
	}, h.getProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "duplicate_project",
		Description: "Copy a stored project as a new draft named '<name> (Copy)'",
	}, h.duplicateProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_templates",
		Description: "List the template gallery",
	}, h.listTemplates)

	// Forms
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_form",
		Description: "Open a four-step project form: blank, editing a project, duplicating one, or from a template",
	}, h.startForm)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_form",
		Description: "Get the state of an open form",
	}, h.getForm)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_form",
		Description: "Set project-level fields of an open form",
	}, h.updateForm)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "form_next",
		Description: "Validate the current step and advance; on the review step this saves the project",
	}, h.formNext)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "form_prev",
		Description: "Go back one step",
	}, h.formPrev)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "form_jump",
		Description: "Jump to a step that is behind or already reached",
	}, h.formJump)

	// Metals
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_metal",
		Description: "Append a metal entry to the form's inventory",
	}, h.addMetal)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "remove_metal",
		Description: "Remove a metal entry; the last entry cannot be removed",
	}, h.removeMetal)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_metal",
		Description: "Change a metal entry's top-level fields or one leaf of its transport, use or eol section",
	}, h.updateMetal)

	// Assist
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "missing_fields",
		Description: "List the fields the assist would fill on the current step",
	}, h.missingFields)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "assist_fill",
		Description: "Fill the current step's missing fields with plausible values; existing values are kept",
	}, h.assistFill)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_form",
		Description: "Save the form's project; fails with STEP_INCOMPLETE and moves the form back when the details or metals step no longer passes",
	}, h.submitForm)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_form",
		Description: "Close a form and discard unsaved edits",
	}, h.closeForm)

	// Output
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_project",
		Description: "Export a stored project or an open form's project as JSON to a file, the clipboard or inline",
	}, h.exportProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_analytics",
		Description: "Emissions, energy and circularity analytics for one project or all projects",
	}, h.getAnalytics)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "List recent activity, newest first",
	}, h.recentActivity)
}

// respond renders v as indented JSON text, or err as a tool error.
func respond(v any, err error) (*sdkmcp.CallToolResult, any, error) {
	if err != nil {
		return errorResult(err), nil, nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func (h *toolHandler) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
	overview, err := h.svc.Projects.Overview(ctx)
	if err != nil {
		return respond(nil, err)
	}
	list, err := h.svc.Projects.List(ctx)
	if err != nil {
		return respond(nil, err)
	}
	if in.Limit > 0 && len(list) > in.Limit {
		list = list[:in.Limit]
	}
	return respond(ListProjectsResponse{Overview: overview, Projects: list}, nil)
}

func (h *toolHandler) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
	return respond(h.svc.Projects.Get(ctx, in.ID))
}

func (h *toolHandler) duplicateProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in DuplicateProjectParams) (*sdkmcp.CallToolResult, any, error) {
	cp, err := h.svc.Projects.Duplicate(ctx, in.ID)
	if err != nil {
		return respond(nil, err)
	}
	h.svc.Activity.Record(ctx, activity.TypeProjectDuplicated, cp.ID, nil,
		fmt.Sprintf("Duplicated %s as %q", in.ID, cp.Name), map[string]string{"source_id": in.ID})
	return respond(cp, nil)
}

func (h *toolHandler) listTemplates(_ context.Context, _ *sdkmcp.CallToolRequest, _ ListTemplatesParams) (*sdkmcp.CallToolResult, any, error) {
	return respond(h.svc.Templates.List(), nil)
}

func (h *toolHandler) startForm(ctx context.Context, _ *sdkmcp.CallToolRequest, in StartFormParams) (*sdkmcp.CallToolResult, any, error) {
	sess, err := h.svc.Sessions.Start(ctx, session.StartRequest{
		ProjectID:   in.ProjectID,
		DuplicateOf: in.DuplicateOf,
		TemplateID:  in.TemplateID,
	})
	if err != nil {
		return respond(nil, err)
	}
	return respond(viewOf(sess), nil)
}

func (h *toolHandler) session(ctx context.Context, formID string) (*session.FormSession, error) {
	return h.svc.Sessions.Get(resolveFormID(ctx, formID))
}

func (h *toolHandler) getForm(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, any, error) {
	sess, err := h.session(ctx, in.FormID)
	if err != nil {
		return respond(nil, err)
	}
	return respond(viewOf(sess), nil)
}

func (h *toolHandler) updateForm(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateFormParams) (*sdkmcp.CallToolResult, any, error) {
	sess, err := h.session(ctx, in.FormID)
	if err != nil {
		return respond(nil, err)
	}

	names := make([]string, 0, len(in.Fields))
	for name := range in.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	// Parse everything first so a bad field leaves the form untouched.
	var pt project.Patch
	for _, name := range names {
		fp, err := project.ParseValue(name, in.Fields[name])
		if err != nil {
			return respond(nil, err)
		}
		pt = pt.Merge(fp)
	}
	if err := sess.Form.Update(pt); err != nil {
		return respond(nil, err)
	}
	return respond(viewOf(sess), nil)
}

func (h *toolHandler) formNext(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, any, error) {
	formID := resolveFormID(ctx, in.FormID)
	out, err := h.svc.Sessions.Next(ctx, formID)
	if err != nil {
		return respond(nil, err)
	}
	sess, err := h.svc.Sessions.Get(formID)
	if err != nil {
		return respond(nil, err)
	}
	return respond(FormNextResponse{Form: viewOf(sess), Submitted: out.Submitted}, nil)
}

func (h *toolHandler) formPrev(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, any, error) {
	sess, err := h.session(ctx, in.FormID)
	if err != nil {
		return respond(nil, err)
	}
	sess.Form.Prev()
	return respond(viewOf(sess), nil)
}

func (h *toolHandler) formJump(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormJumpParams) (*sdkmcp.CallToolResult, any, error) {
	sess, err := h.session(ctx, in.FormID)
	if err != nil {
		return respond(nil, err)
	}
	if err := sess.Form.JumpTo(in.Step); err != nil {
		return respond(nil, err)
	}
	return respond(viewOf(sess), nil)
}

func (h *toolHandler) addMetal(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddMetalParams) (*sdkmcp.CallToolResult, any, error) {
	sess, err := h.session(ctx, in.FormID)
	if err != nil {
		return respond(nil, err)
	}
	id := sess.Form.AddMetal(in.Type)
	return respond(AddMetalResponse{MetalID: id, Form: viewOf(sess)}, nil)
}

func (h *toolHandler) removeMetal(ctx context.Context, _ *sdkmcp.CallToolRequest, in RemoveMetalParams) (*sdkmcp.CallToolResult, any, error) {
	sess, err := h.session(ctx, in.FormID)
	if err != nil {
		return respond(nil, err)
	}
	found, err := sess.Form.RemoveMetal(in.MetalID)
	if err != nil {
		return respond(nil, err)
	}
	return respond(ChangeMetalResponse{Found: found, Form: viewOf(sess)}, nil)
}

func (h *toolHandler) updateMetal(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateMetalParams) (*sdkmcp.CallToolResult, any, error) {
	sess, err := h.session(ctx, in.FormID)
	if err != nil {
		return respond(nil, err)
	}

	mp := project.MetalPatch{
		ID:                 in.MetalID,
		Type:               in.Type,
		Quantity:           in.Quantity,
		LifecycleStages:    in.LifecycleStages,
		PreferredTreatment: in.PreferredTreatment,
	}
	if mp.IsEmpty() && in.Section == "" {
		return respond(nil, fmt.Errorf("%w: nothing to update", project.ErrInvalidInput))
	}

	var sp *project.SectionPatch
	if in.Section != "" {
		sp = &project.SectionPatch{Section: in.Section, Field: in.Field, Value: in.Value}
	}
	found, err := sess.Form.UpdateMetalWithSection(mp, sp)
	if err != nil {
		return respond(nil, err)
	}
	return respond(ChangeMetalResponse{Found: found, Form: viewOf(sess)}, nil)
}

func (h *toolHandler) missingFields(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, any, error) {
	sess, err := h.session(ctx, in.FormID)
	if err != nil {
		return respond(nil, err)
	}
	return respond(map[string]any{
		"step":    sess.Form.Step(),
		"missing": sess.Form.Missing(),
	}, nil)
}

func (h *toolHandler) assistFill(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, any, error) {
	formID := resolveFormID(ctx, in.FormID)
	res, err := h.svc.Sessions.Assist(ctx, formID)
	if err != nil {
		return respond(nil, err)
	}
	sess, err := h.svc.Sessions.Get(formID)
	if err != nil {
		return respond(nil, err)
	}
	return respond(AssistResponse{NothingToDo: res.NothingToDo, Filled: res.Missing, Form: viewOf(sess)}, nil)
}

func (h *toolHandler) submitForm(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, any, error) {
	return respond(h.svc.Sessions.Submit(ctx, resolveFormID(ctx, in.FormID)))
}

func (h *toolHandler) closeForm(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, any, error) {
	formID := resolveFormID(ctx, in.FormID)
	if err := h.svc.Sessions.Close(formID); err != nil {
		return respond(nil, err)
	}
	return respond(map[string]string{"closed": formID}, nil)
}

func (h *toolHandler) exportProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in ExportProjectParams) (*sdkmcp.CallToolResult, any, error) {
	var (
		p      project.Project
		formID *string
	)
	switch {
	case in.ProjectID != "" && in.FormID != "":
		return respond(nil, fmt.Errorf("%w: choose project_id or form_id", project.ErrInvalidInput))
	case in.ProjectID != "":
		stored, err := h.svc.Projects.Get(ctx, in.ProjectID)
		if err != nil {
			return respond(nil, err)
		}
		p = *stored
	default:
		sess, err := h.session(ctx, in.FormID)
		if err != nil {
			return respond(nil, err)
		}
		p = sess.Form.Project()
		id := sess.ID
		formID = &id
	}

	resp := ExportResponse{Target: in.Target, FileName: export.FileName(p)}
	switch in.Target {
	case "", "file":
		resp.Target = "file"
		dir := in.Dir
		if dir == "" {
			dir = h.exportDir
		}
		path, err := export.WriteFile(dir, p)
		if err != nil {
			return respond(nil, err)
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		resp.Path = path
	case "clipboard":
		if err := export.ToClipboard(h.clipboard, p); err != nil {
			return respond(nil, err)
		}
	case "inline":
		data, err := export.JSON(p)
		if err != nil {
			return respond(nil, err)
		}
		resp.JSON = string(data)
	default:
		return respond(nil, fmt.Errorf("%w: unknown export target %q", project.ErrInvalidInput, in.Target))
	}

	h.svc.Activity.Record(ctx, activity.TypeExportWritten, p.ID, formID,
		fmt.Sprintf("Exported %q to %s", p.Name, resp.Target), map[string]string{"target": resp.Target, "path": resp.Path})
	return respond(resp, nil)
}

func (h *toolHandler) getAnalytics(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetAnalyticsParams) (*sdkmcp.CallToolResult, any, error) {
	projects, err := h.svc.Projects.ListRecent(ctx, 0)
	if err != nil {
		return respond(nil, err)
	}
	report, err := analytics.Build(projects, in.ProjectID)
	if err != nil {
		return respond(nil, err)
	}
	resp := AnalyticsResponse{Report: report}
	if in.XLSXPath != "" {
		if err := export.SaveWorkbook(in.XLSXPath, report); err != nil {
			return respond(nil, err)
		}
		resp.XLSXPath = in.XLSXPath
	}
	return respond(resp, nil)
}

func (h *toolHandler) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityParams) (*sdkmcp.CallToolResult, any, error) {
	opts := activity.ListActivityOptions{
		ProjectID: in.ProjectID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.FormID != "" {
		opts.FormID = &in.FormID
	}
	if in.Type != "" {
		t := activity.ActivityType(in.Type)
		opts.ActivityType = &t
	}
	entries, err := h.svc.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return respond(nil, err)
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	return respond(RecentActivityResponse{Entries: entries}, nil)
}

func viewOf(sess *session.FormSession) FormView {
	f := sess.Form
	step := f.Step()
	v := FormView{
		FormID:    sess.ID,
		Origin:    sess.Origin,
		Step:      step,
		StepTitle: form.StepTitle(step),
		Reached:   f.Reached(),
		Project:   f.Project(),
		Errors:    f.Errors(),
		Missing:   f.Missing(),
	}
	if msg, ok := f.Notifier().Current(); ok {
		v.Notice = &msg
	}
	return v
}
