package project

import "slices"

// Assessment goals.
const (
	GoalCompliance  = "compliance"
	GoalEcoDesign   = "eco-design"
	GoalCircularity = "circularity"
	GoalComparative = "comparative"
)

// Geographic scopes.
const (
	ScopeNorthAmerica = "na"
	ScopeEU           = "eu"
	ScopeAsia         = "asia"
	ScopeGlobal       = "global"
)

// Time horizons (system boundaries).
const (
	HorizonCradleGate   = "cradle-gate"
	HorizonCradleGrave  = "cradle-grave"
	HorizonCradleCradle = "cradle-cradle"
	HorizonGateGate     = "gate-gate"
)

// Primary objectives.
const (
	ObjectiveMinCarbon      = "min-carbon"
	ObjectiveMaxCircularity = "max-circularity"
	ObjectiveCostOpt        = "cost-opt"
	ObjectiveBalanced       = "balanced"
)

// Improvement timeframes.
const (
	TimeframeShort  = "short"
	TimeframeMedium = "medium"
	TimeframeLong   = "long"
)

// Investment willingness levels.
const (
	WillingnessLow    = "low"
	WillingnessMedium = "medium"
	WillingnessHigh   = "high"
)

// Data source types.
const (
	SourcePrimary   = "primary"
	SourceSecondary = "secondary"
	SourceEstimated = "estimated"
)

// Comparison benchmarks.
const (
	BenchmarkNone         = "none"
	BenchmarkIndustryAvg  = "industry-avg"
	BenchmarkBestPractice = "best-practice"
	BenchmarkRegulatory   = "regulatory"
)

// Transport stages and modes.
const (
	StageInbound  = "inbound"
	StageOutbound = "outbound"

	ModeRoad = "road"
	ModeRail = "rail"
	ModeSea  = "sea"
	ModeAir  = "air"
)

// Choices lists the allowed values for every enumerated field, keyed by field name.
// Fields absent from the map are free text.
var Choices = map[string][]string{
	"assessmentGoal":        {GoalCompliance, GoalEcoDesign, GoalCircularity, GoalComparative},
	"geographicScope":       {ScopeNorthAmerica, ScopeEU, ScopeAsia, ScopeGlobal},
	"timeHorizon":           {HorizonCradleGate, HorizonCradleGrave, HorizonCradleCradle, HorizonGateGate},
	"referenceYear":         {"2024", "2023", "2022", "2021", "2020"},
	"primaryObjective":      {ObjectiveMinCarbon, ObjectiveMaxCircularity, ObjectiveCostOpt, ObjectiveBalanced},
	"improvementTimeframe":  {TimeframeShort, TimeframeMedium, TimeframeLong},
	"investmentWillingness": {WillingnessLow, WillingnessMedium, WillingnessHigh},
	"dataSource":            {SourcePrimary, SourceSecondary, SourceEstimated},
	"comparisonBenchmark":   {BenchmarkNone, BenchmarkIndustryAvg, BenchmarkBestPractice, BenchmarkRegulatory},
	"status":                {string(StatusDraft), string(StatusInProgress), string(StatusCompleted)},
	"transport.stage":       {StageInbound, StageOutbound},
	"transport.mode":        {ModeRoad, ModeRail, ModeSea, ModeAir},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusInProgress || s == StatusCompleted
}

// allowed reports whether value is acceptable for field. Empty values always are.
func allowed(field, value string) bool {
	if value == "" {
		return true
	}
	choices, ok := Choices[field]
	if !ok {
		return true
	}
	return slices.Contains(choices, value)
}
