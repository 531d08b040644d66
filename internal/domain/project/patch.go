package project

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Patch is a partial project-level update. Nil fields are left unchanged.
// Clear names optional numeric fields (by JSON name) to reset to absent.
type Patch struct {
	Name                  *string  `json:"name,omitempty"`
	Description           *string  `json:"description,omitempty"`
	AssessmentGoal        *string  `json:"assessmentGoal,omitempty"`
	GeographicScope       *string  `json:"geographicScope,omitempty"`
	TimeHorizon           *string  `json:"timeHorizon,omitempty"`
	FunctionalUnit        *string  `json:"functionalUnit,omitempty"`
	ReferenceYear         *string  `json:"referenceYear,omitempty"`
	PrimaryObjective      *string  `json:"primaryObjective,omitempty"`
	TargetRecycled        *float64 `json:"targetRecycled,omitempty"`
	CarbonBudget          *float64 `json:"carbonBudget,omitempty"`
	ImprovementTimeframe  *string  `json:"improvementTimeframe,omitempty"`
	InvestmentWillingness *string  `json:"investmentWillingness,omitempty"`
	DataSource            *string  `json:"dataSource,omitempty"`
	ComparisonBenchmark   *string  `json:"comparisonBenchmark,omitempty"`
	SensitivityVars       *string  `json:"sensitivityVars,omitempty"`
	Status                *Status  `json:"status,omitempty"`
	Clear                 []string `json:"clear,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (pt Patch) IsEmpty() bool {
	return pt.Name == nil && pt.Description == nil && pt.AssessmentGoal == nil &&
		pt.GeographicScope == nil && pt.TimeHorizon == nil && pt.FunctionalUnit == nil &&
		pt.ReferenceYear == nil && pt.PrimaryObjective == nil && pt.TargetRecycled == nil &&
		pt.CarbonBudget == nil && pt.ImprovementTimeframe == nil && pt.InvestmentWillingness == nil &&
		pt.DataSource == nil && pt.ComparisonBenchmark == nil && pt.SensitivityVars == nil &&
		pt.Status == nil && len(pt.Clear) == 0
}

// Merge overlays other on top of pt.
func (pt Patch) Merge(other Patch) Patch {
	out := pt
	setString(&out.Name, other.Name)
	setString(&out.Description, other.Description)
	setString(&out.AssessmentGoal, other.AssessmentGoal)
	setString(&out.GeographicScope, other.GeographicScope)
	setString(&out.TimeHorizon, other.TimeHorizon)
	setString(&out.FunctionalUnit, other.FunctionalUnit)
	setString(&out.ReferenceYear, other.ReferenceYear)
	setString(&out.PrimaryObjective, other.PrimaryObjective)
	setString(&out.ImprovementTimeframe, other.ImprovementTimeframe)
	setString(&out.InvestmentWillingness, other.InvestmentWillingness)
	setString(&out.DataSource, other.DataSource)
	setString(&out.ComparisonBenchmark, other.ComparisonBenchmark)
	setString(&out.SensitivityVars, other.SensitivityVars)
	if other.TargetRecycled != nil {
		out.TargetRecycled = other.TargetRecycled
	}
	if other.CarbonBudget != nil {
		out.CarbonBudget = other.CarbonBudget
	}
	if other.Status != nil {
		out.Status = other.Status
	}
	out.Clear = append(append([]string(nil), pt.Clear...), other.Clear...)
	return out
}

func setString(dst **string, v *string) {
	if v != nil {
		*dst = v
	}
}

// ApplyPatch returns a copy of p with the patch merged in.
func (p Project) ApplyPatch(pt Patch) Project {
	out := p.Clone()
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&out.Name, pt.Name)
	apply(&out.Description, pt.Description)
	apply(&out.AssessmentGoal, pt.AssessmentGoal)
	apply(&out.GeographicScope, pt.GeographicScope)
	apply(&out.TimeHorizon, pt.TimeHorizon)
	apply(&out.FunctionalUnit, pt.FunctionalUnit)
	apply(&out.ReferenceYear, pt.ReferenceYear)
	apply(&out.PrimaryObjective, pt.PrimaryObjective)
	apply(&out.ImprovementTimeframe, pt.ImprovementTimeframe)
	apply(&out.InvestmentWillingness, pt.InvestmentWillingness)
	apply(&out.DataSource, pt.DataSource)
	apply(&out.ComparisonBenchmark, pt.ComparisonBenchmark)
	apply(&out.SensitivityVars, pt.SensitivityVars)
	if pt.TargetRecycled != nil {
		out.TargetRecycled = cloneFloat(pt.TargetRecycled)
	}
	if pt.CarbonBudget != nil {
		out.CarbonBudget = cloneFloat(pt.CarbonBudget)
	}
	if pt.Status != nil {
		out.Status = *pt.Status
	}
	for _, name := range pt.Clear {
		switch name {
		case "targetRecycled":
			out.TargetRecycled = nil
		case "carbonBudget":
			out.CarbonBudget = nil
		}
	}
	return out
}

// MetalPatch is a shallow partial update of one metal entry, keyed by ID.
// A non-nil sub-record replaces the whole sub-record.
type MetalPatch struct {
	ID                 string     `json:"id"`
	Type               *string    `json:"type,omitempty"`
	Quantity           *float64   `json:"quantity,omitempty"`
	LifecycleStages    []string   `json:"lifecycleStages,omitempty"`
	PreferredTreatment *string    `json:"preferredTreatment,omitempty"`
	Transport          *Transport `json:"transport,omitempty"`
	Use                *UsePhase  `json:"use,omitempty"`
	EOL                *EndOfLife `json:"eol,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (mp MetalPatch) IsEmpty() bool {
	return mp.Type == nil && mp.Quantity == nil && mp.LifecycleStages == nil &&
		mp.PreferredTreatment == nil && mp.Transport == nil && mp.Use == nil && mp.EOL == nil
}

// Apply returns a copy of m with the patch merged in. The ID is never changed.
func (m MetalEntry) Apply(mp MetalPatch) MetalEntry {
	out := m.Clone()
	if mp.Type != nil {
		out.Type = *mp.Type
	}
	if mp.Quantity != nil {
		out.Quantity = cloneFloat(mp.Quantity)
	}
	if mp.LifecycleStages != nil {
		out.LifecycleStages = append([]string(nil), mp.LifecycleStages...)
	}
	if mp.PreferredTreatment != nil {
		out.PreferredTreatment = *mp.PreferredTreatment
	}
	if mp.Transport != nil || mp.Use != nil || mp.EOL != nil {
		src := MetalEntry{Transport: mp.Transport, Use: mp.Use, EOL: mp.EOL}.Clone()
		if src.Transport != nil {
			out.Transport = src.Transport
		}
		if src.Use != nil {
			out.Use = src.Use
		}
		if src.EOL != nil {
			out.EOL = src.EOL
		}
	}
	return out
}

// Sub-record sections of a metal entry.
const (
	SectionTransport = "transport"
	SectionUse       = "use"
	SectionEOL       = "eol"
)

// SectionPatch addresses a single leaf of a metal entry's sub-records.
// A nil Value clears the leaf.
type SectionPatch struct {
	Section string `json:"section"`
	Field   string `json:"field"`
	Value   any    `json:"value"`
}

// ApplySection returns a copy of m with only the addressed leaf changed.
func (m MetalEntry) ApplySection(sp SectionPatch) (MetalEntry, error) {
	out := m.Clone()
	path := sp.Section + "." + sp.Field
	switch path {
	case "transport.stage", "transport.mode":
		s, err := asString(path, sp.Value)
		if err != nil {
			return m, err
		}
		if !allowed(path, s) {
			return m, fieldErr(path, "must be one of %s", strings.Join(Choices[path], ", "))
		}
		if out.Transport == nil {
			out.Transport = &Transport{}
		}
		if sp.Field == "stage" {
			out.Transport.Stage = s
		} else {
			out.Transport.Mode = s
		}
	case "transport.distanceKm":
		v, err := asNumber(path, sp.Value)
		if err != nil {
			return m, err
		}
		if out.Transport == nil {
			out.Transport = &Transport{}
		}
		out.Transport.DistanceKM = v
	case "use.lifetimeYears":
		v, err := asNumber(path, sp.Value)
		if err != nil {
			return m, err
		}
		if out.Use == nil {
			out.Use = &UsePhase{}
		}
		out.Use.LifetimeYears = v
	case "eol.collectionRatePercent":
		v, err := asNumber(path, sp.Value)
		if err != nil {
			return m, err
		}
		if out.EOL == nil {
			out.EOL = &EndOfLife{}
		}
		out.EOL.CollectionRate = v
	default:
		return m, fieldErr(path, "unknown field")
	}
	return out, nil
}

var stringFields = []string{
	"name", "description", "assessmentGoal", "geographicScope", "timeHorizon",
	"functionalUnit", "referenceYear", "primaryObjective", "improvementTimeframe",
	"investmentWillingness", "dataSource", "comparisonBenchmark", "sensitivityVars", "status",
}

// FieldNames lists every project-level field accepted by ParseValue.
func FieldNames() []string {
	return append(slices.Clone(stringFields), "targetRecycled", "carbonBudget")
}

// ParseValue maps an external field name and a decoded value (string, number
// or nil) to a patch. Enumerated fields are checked against Choices.
func ParseValue(name string, value any) (Patch, error) {
	var pt Patch
	switch name {
	case "targetRecycled", "carbonBudget":
		v, err := asNumber(name, value)
		if err != nil {
			return pt, err
		}
		if v == nil {
			pt.Clear = []string{name}
			return pt, nil
		}
		if name == "targetRecycled" {
			pt.TargetRecycled = v
		} else {
			pt.CarbonBudget = v
		}
		return pt, nil
	}
	if !slices.Contains(stringFields, name) {
		return pt, fieldErr(name, "unknown field")
	}
	s, err := asString(name, value)
	if err != nil {
		return pt, err
	}
	if !allowed(name, s) {
		return pt, fieldErr(name, "must be one of %s", strings.Join(Choices[name], ", "))
	}
	v := &s
	switch name {
	case "name":
		pt.Name = v
	case "description":
		pt.Description = v
	case "assessmentGoal":
		pt.AssessmentGoal = v
	case "geographicScope":
		pt.GeographicScope = v
	case "timeHorizon":
		pt.TimeHorizon = v
	case "functionalUnit":
		pt.FunctionalUnit = v
	case "referenceYear":
		pt.ReferenceYear = v
	case "primaryObjective":
		pt.PrimaryObjective = v
	case "improvementTimeframe":
		pt.ImprovementTimeframe = v
	case "investmentWillingness":
		pt.InvestmentWillingness = v
	case "dataSource":
		pt.DataSource = v
	case "comparisonBenchmark":
		pt.ComparisonBenchmark = v
	case "sensitivityVars":
		pt.SensitivityVars = v
	case "status":
		st := Status(s)
		pt.Status = &st
	}
	return pt, nil
}

func asString(field string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", fieldErr(field, "expected text, got %T", value)
	}
}

func asNumber(field string, value any) (*float64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		if !finite(&v) {
			return nil, fieldErr(field, "%v is not a finite number", v)
		}
		return &v, nil
	case int:
		f := float64(v)
		return &f, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(&f) {
			return nil, fieldErr(field, "%q is not a number", v)
		}
		return &f, nil
	default:
		return nil, fieldErr(field, "expected a number, got %T", value)
	}
}

// FieldError reports a rejected field value.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets callers match ErrInvalidInput.
func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
