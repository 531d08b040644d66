// Package assist inspects a project for missing fields and synthesizes
// plausible values for them.
package assist

import (
	"fmt"
	"strings"

	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// Missing-field labels.
const (
	LabelName           = "Project Name"
	LabelFunctionalUnit = "Functional Unit"
	LabelMetals         = "Metals (add at least one)"
	LabelObjective      = "Primary Objective"
	LabelTargetRecycled = "Target Recycled Content"
	LabelStatus         = "Project status (consider setting to in-progress/completed)"
)

// MissingFields lists, in display order, the fields the given step would
// like filled. The scan is advisory and has no side effects.
func MissingFields(step int, p project.Project) []string {
	missing := []string{}
	switch step {
	case 1:
		if blank(p.Name) {
			missing = append(missing, LabelName)
		}
		if blank(p.FunctionalUnit) {
			missing = append(missing, LabelFunctionalUnit)
		}
	case 2:
		if len(p.Metals) == 0 {
			return append(missing, LabelMetals)
		}
		for i, m := range p.Metals {
			if blank(m.Type) {
				missing = append(missing, fmt.Sprintf("Metal %d name", i+1))
			}
			if m.Quantity == nil {
				missing = append(missing, fmt.Sprintf("Metal %d quantity", i+1))
			}
			if len(m.LifecycleStages) == 0 {
				missing = append(missing, fmt.Sprintf("Metal %d lifecycle stages", i+1))
			}
		}
	case 3:
		if p.PrimaryObjective == "" {
			missing = append(missing, LabelObjective)
		}
		if p.TargetRecycled == nil {
			missing = append(missing, LabelTargetRecycled)
		}
	case 4:
		if unsetStatus(p.Status) {
			missing = append(missing, LabelStatus)
		}
	}
	return missing
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// unsetStatus treats the blank-form default as not yet chosen.
func unsetStatus(s project.Status) bool {
	return s == "" || s == project.StatusDraft
}
