package form

import (
	"fmt"
	"strings"

	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// Steps of the form.
const (
	StepDetails = 1
	StepMetals  = 2
	StepGoals   = 3
	StepReview  = 4
)

var stepTitles = map[int]string{
	StepDetails: "Project Details",
	StepMetals:  "Metals & Lifecycle",
	StepGoals:   "Goals & Scenarios",
	StepReview:  "Review & Submit",
}

// StepTitle returns the heading of step n, or "" when n is out of range.
func StepTitle(n int) string {
	return stepTitles[n]
}

// Result is the outcome of a step gate.
type Result struct {
	Step   int      `json:"step"`
	Passed bool     `json:"passed"`
	Fields []string `json:"fields,omitempty"`
}

// Err returns nil for a passing result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.Passed {
		return nil
	}
	return &ValidationError{Step: r.Step, Fields: r.Fields, Err: ErrStepIncomplete}
}

// ValidateStep checks the hard requirements of a step. Step 2 requires at
// least one metal and a name and quantity on every entry; steps 3 and 4
// have none.
func ValidateStep(step int, p project.Project) Result {
	r := Result{Step: step}
	switch step {
	case StepDetails:
		if strings.TrimSpace(p.Name) == "" {
			r.Fields = append(r.Fields, "Project Name")
		}
		if strings.TrimSpace(p.FunctionalUnit) == "" {
			r.Fields = append(r.Fields, "Functional Unit")
		}
	case StepMetals:
		if len(p.Metals) == 0 {
			r.Fields = append(r.Fields, "Metals (add at least one)")
			break
		}
		for i, m := range p.Metals {
			if strings.TrimSpace(m.Type) == "" {
				r.Fields = append(r.Fields, fmt.Sprintf("Metal %d name", i+1))
			}
			if m.Quantity == nil {
				r.Fields = append(r.Fields, fmt.Sprintf("Metal %d quantity", i+1))
			}
		}
	case StepGoals, StepReview:
	default:
		r.Fields = []string{"Step"}
	}
	r.Passed = len(r.Fields) == 0
	return r
}
