package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/metalcycle/lcastudio/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `lcastudio captures life-cycle assessment (LCA) projects for metal products.

Core concepts:
- Project: the record being edited. Details, a metal inventory, goals and a status.
- Form: an open four-step editor over one project (1 details, 2 metals, 3 goals, 4 review).
  Edits stay in the form until it is submitted; close_form discards them.
- Assist: fills only the fields missing on the current step with plausible values.

Default workflow:
1) Orient: list_projects, list_templates.
2) Open: start_form (blank, project_id to edit, duplicate_of to copy, template_id to seed).
3) Edit: update_form for project fields; add_metal / update_metal / remove_metal for the inventory.
4) Advance: form_next. A rejected step returns STEP_INCOMPLETE with the fields to fix;
   assist_fill can fill them. form_prev and form_jump move back freely.
5) Save: form_next on step 4 (or submit_form) stores the project. Both re-check steps 1
   and 2 and return STEP_INCOMPLETE, moving the form back, when either fails.
6) Use: get_analytics, export_project, recent_activity.

Stdio clients may set _meta.form_id once instead of passing form_id to every form tool.

Docs:
- lca://docs/workflow
- lca://docs/fields
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     func() string
}

var docResources = []docResource{
	{
		URI:         "lca://docs/workflow",
		Name:        "docs_workflow",
		Title:       "LCA form workflow",
		Description: "How the four form steps gate, what assist fills and how saving works.",
		Content:     func() string { return workflowDoc },
	},
	{
		URI:         "lca://docs/fields",
		Name:        "docs_fields",
		Title:       "LCA project fields",
		Description: "Field names accepted by update_form and the allowed choices of each.",
		Content:     fieldsDoc,
	},
}

const workflowDoc = `# LCA form workflow

## Steps

| Step | Title | Gate |
|---|---|---|
| 1 | Project Details | name and functional unit are required |
| 2 | Metals & Lifecycle | at least one metal; every metal needs a type and a quantity |
| 3 | Goals & Scenarios | none |
| 4 | Review & Submit | none; form_next saves |

form_next runs the gate of the current step. A failure leaves the form where it is and
lists the blocking fields. form_prev never validates. form_jump goes to any step behind the
current one or already reached.

## Numbers

Target recycled content and collection rates are percentages (0-100). Quantities, carbon
budget, distances and lifetimes must not be negative. Out-of-range values are rejected and
leave the form unchanged. null or "" clears an optional number.

## Assist

missing_fields shows what the current step lacks. assist_fill fills exactly those fields
with plausible values and never overwrites a value that is already set. On step 2 an empty
inventory gets one or two metals; existing metals only get their gaps filled. On step 4 a
draft status counts as unset.

## Saving

Saving stamps the updated date (and the created date on first save). A new project gets a
fresh ID. duplicate_project and start_form with duplicate_of store a draft copy named
"<name> (Copy)" immediately.

## Export

export_project writes indented JSON named <name>_lca.json (lower case, whitespace as "_").
Targets: file (default), clipboard, inline. A failed export never changes the project.
`

func fieldsDoc() string {
	var b strings.Builder
	b.WriteString("# LCA project fields\n\n")
	b.WriteString("Names accepted by update_form, in JSON spelling:\n\n")
	for _, name := range project.FieldNames() {
		fmt.Fprintf(&b, "- %s\n", name)
	}

	b.WriteString("\n## Choices\n\n")
	keys := make([]string, 0, len(project.Choices))
	for k := range project.Choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, strings.Join(project.Choices[k], ", "))
	}

	b.WriteString("\n## Metal sections (update_metal)\n\n")
	b.WriteString("- transport: stage, mode, distanceKm\n")
	b.WriteString("- use: lifetimeYears\n")
	b.WriteString("- eol: collectionRatePercent\n")
	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content(),
				}},
			}, nil
		})
	}
}
