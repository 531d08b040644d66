package analytics

import (
	"errors"

	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// AllProjects selects the combined view.
const AllProjects = "all"

// ErrUnknownProject indicates the selected project is not among the inputs.
var ErrUnknownProject = errors.New("project not in analytics selection")

// Report is the full analytics view for one selection.
type Report struct {
	Selection string   `json:"selection"`
	Headline  Headline `json:"headline"`
	Series    []Point  `json:"series"`
	Scope     []Slice  `json:"scope"`
	Tornado   []Bar    `json:"tornado"`
	Heatmap   Grid     `json:"heatmap"`
}

// Build computes the report for projectID, or for every project when
// projectID is empty or AllProjects. projects should be newest first.
func Build(projects []project.Project, projectID string) (Report, error) {
	if projectID == "" || projectID == AllProjects {
		series := Combined(projects)
		first := project.Project{ID: "1"}
		if len(projects) > 0 {
			first = projects[0]
		}
		return Report{
			Selection: AllProjects,
			Headline:  HeadlineFor("All Projects", len(projects), series),
			Series:    series,
			Scope:     CombinedScope(projects),
			Tornado:   Tornado(first),
			Heatmap:   Heatmap(projects),
		}, nil
	}

	for _, p := range projects {
		if p.ID != projectID {
			continue
		}
		series := Series(p)
		title := p.Name
		if title == "" {
			title = "Project"
		}
		return Report{
			Selection: p.ID,
			Headline:  HeadlineFor(title, 1, series),
			Series:    series,
			Scope:     ScopeSplit(p),
			Tornado:   Tornado(p),
			Heatmap:   Heatmap([]project.Project{p}),
		}, nil
	}
	return Report{}, ErrUnknownProject
}
