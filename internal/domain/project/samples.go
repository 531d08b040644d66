package project

// Samples returns the projects a fresh store is seeded with, oldest first.
func Samples() []Project {
	metal := func(id, kind string) MetalEntry {
		return MetalEntry{ID: id, Type: kind, LifecycleStages: []string{}}
	}
	return []Project{
		{
			ID:                    "1",
			Name:                  "Green Copper Initiative",
			Description:           "Lifecycle assessment for sustainable copper cable production.",
			AssessmentGoal:        "Circularity Optimization",
			GeographicScope:       ScopeGlobal,
			TimeHorizon:           HorizonCradleGrave,
			FunctionalUnit:        "1 km of sustainable copper cable",
			ReferenceYear:         "2023",
			ImprovementTimeframe:  TimeframeShort,
			InvestmentWillingness: WillingnessLow,
			DataSource:            SourceSecondary,
			ComparisonBenchmark:   BenchmarkNone,
			Status:                StatusCompleted,
			Created:               "2025-09-15",
			Updated:               "2025-09-26",
			Metals:                []MetalEntry{metal("metal-1", "Copper"), metal("metal-2", "Aluminum")},
		},
		{
			ID:                    "2",
			Name:                  "Solar Panel Aluminum",
			Description:           "Comparative LCA study of primary vs recycled aluminum frames.",
			AssessmentGoal:        "Comparative Analysis",
			GeographicScope:       ScopeGlobal,
			TimeHorizon:           HorizonCradleGrave,
			FunctionalUnit:        "1 solar panel frame",
			ReferenceYear:         "2023",
			ImprovementTimeframe:  TimeframeShort,
			InvestmentWillingness: WillingnessLow,
			DataSource:            SourceSecondary,
			ComparisonBenchmark:   BenchmarkNone,
			Status:                StatusInProgress,
			Created:               "2025-08-01",
			Updated:               "2025-09-20",
			Metals:                []MetalEntry{metal("metal-1", "Aluminum")},
		},
		{
			ID:                    "3",
			Name:                  "Steel Recycling Study",
			Description:           "Analysis of EAF vs BF steel production pathways.",
			AssessmentGoal:        "Eco-design",
			GeographicScope:       ScopeGlobal,
			TimeHorizon:           HorizonCradleGrave,
			FunctionalUnit:        "1 tonne of recycled steel",
			ReferenceYear:         "2023",
			ImprovementTimeframe:  TimeframeShort,
			InvestmentWillingness: WillingnessLow,
			DataSource:            SourceSecondary,
			ComparisonBenchmark:   BenchmarkNone,
			Status:                StatusDraft,
			Created:               "2025-09-10",
			Updated:               "2025-09-10",
			Metals:                []MetalEntry{metal("metal-1", "Steel")},
		},
	}
}
