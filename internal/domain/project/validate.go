package project

import (
	"fmt"
	"math"
	"strings"
)

// InvalidFields returns labels of numeric fields that break their range.
// Absent values are never invalid.
func (p Project) InvalidFields() []string {
	var out []string
	if !percent(p.TargetRecycled) {
		out = append(out, "Target Recycled Content")
	}
	if !nonNegative(p.CarbonBudget) {
		out = append(out, "Carbon Budget")
	}
	for i, m := range p.Metals {
		n := i + 1
		if !nonNegative(m.Quantity) {
			out = append(out, fmt.Sprintf("Metal %d quantity", n))
		}
		if m.Transport != nil && !nonNegative(m.Transport.DistanceKM) {
			out = append(out, fmt.Sprintf("Metal %d transport distance", n))
		}
		if m.Use != nil && !nonNegative(m.Use.LifetimeYears) {
			out = append(out, fmt.Sprintf("Metal %d lifetime", n))
		}
		if m.EOL != nil && !percent(m.EOL.CollectionRate) {
			out = append(out, fmt.Sprintf("Metal %d collection rate", n))
		}
	}
	return out
}

// ValidateValues checks the numeric invariants.
func (p Project) ValidateValues() error {
	bad := p.InvalidFields()
	if len(bad) == 0 {
		return nil
	}
	return &FieldError{Field: strings.Join(bad, ", "), Reason: "out of range"}
}

func nonNegative(v *float64) bool {
	return v == nil || (finite(v) && *v >= 0)
}

func percent(v *float64) bool {
	return v == nil || (finite(v) && *v >= 0 && *v <= 100)
}

func finite(v *float64) bool {
	return !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
