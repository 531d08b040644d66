package assist

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// Candidate values drawn by the engine.
var (
	candidateNames           = []string{"Green Copper Cable", "PlanetFirst Alloy Plan", "Sustainable Wire Project"}
	candidateUnits           = []string{"1 km of cable", "1 tonne of copper", "1 m2 conductive sheet"}
	candidateGoals           = []string{project.GoalEcoDesign, project.GoalCircularity, project.GoalCompliance}
	candidateStubMetals      = []string{"Copper", "Aluminium", "Nickel", "Steel", "Zinc"}
	candidateFillMetals      = []string{"Copper", "Aluminium"}
	candidateStubTreatments  = []string{"Standard", "High-recycle", "Energy-efficient"}
	candidateFillTreatments  = []string{"Standard", "High-recycle"}
	candidateObjectives      = []string{project.ObjectiveMinCarbon, project.ObjectiveMaxCircularity, project.ObjectiveBalanced}
	candidateSources         = []string{project.SourceSecondary, project.SourcePrimary, project.SourceEstimated}
	candidateBenchmarks      = []string{project.BenchmarkIndustryAvg, project.BenchmarkBestPractice, project.BenchmarkNone}
	candidateStatuses        = []project.Status{project.StatusInProgress, project.StatusCompleted}
	candidateWillingness     = []string{project.WillingnessLow, project.WillingnessMedium, project.WillingnessHigh}
	candidateTransportStages = []string{project.StageInbound, project.StageOutbound}
	candidateTransportModes  = []string{project.ModeRoad, project.ModeRail, project.ModeSea}

	stubStages = []string{"Mining", "Smelting", "Fabrication", "Use", "Recycling"}
	fillStages = []string{"Mining", "Smelting", "Fabrication", "Recycling"}
)

const (
	defaultDescription     = "Auto-generated description for prototype project."
	defaultSensitivityVars = "Energy price, Recycling rate, Transport distance"
)

// Engine synthesizes values for missing fields. With a seeded source the
// output is reproducible for a given sequence of calls.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an engine drawing from src.
func NewEngine(src rand.Source) *Engine {
	return &Engine{rng: rand.New(src)}
}

// NewSeededEngine creates an engine from a seed. Seed 0 seeds from the clock.
func NewSeededEngine(seed uint64) *Engine {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewEngine(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Synthesize returns a patch that fills only the fields missing for step.
// Values already present are never part of the patch.
func (e *Engine) Synthesize(step int, p project.Project) Patch {
	e.mu.Lock()
	defer e.mu.Unlock()

	var pt Patch
	switch step {
	case 1:
		if blank(p.Name) {
			pt.Fields.Name = project.String(pick(e.rng, candidateNames))
		}
		if blank(p.FunctionalUnit) {
			pt.Fields.FunctionalUnit = project.String(pick(e.rng, candidateUnits))
		}
		if p.AssessmentGoal == "" {
			pt.Fields.AssessmentGoal = project.String(pick(e.rng, candidateGoals))
		}
		if p.Description == "" {
			pt.Fields.Description = project.String(defaultDescription)
		}
	case 2:
		if len(p.Metals) == 0 {
			pt.NewMetals = e.stubs()
			break
		}
		for _, m := range p.Metals {
			if mp := e.fillMetal(m); !mp.IsEmpty() {
				pt.Metals = append(pt.Metals, mp)
			}
		}
	case 3:
		if p.PrimaryObjective == "" {
			pt.Fields.PrimaryObjective = project.String(pick(e.rng, candidateObjectives))
		}
		if p.TargetRecycled == nil {
			pt.Fields.TargetRecycled = project.Float(float64(between(e.rng, 10, 70)))
		}
		if p.DataSource == "" {
			pt.Fields.DataSource = project.String(pick(e.rng, candidateSources))
		}
		if p.ComparisonBenchmark == "" {
			pt.Fields.ComparisonBenchmark = project.String(pick(e.rng, candidateBenchmarks))
		}
		if p.SensitivityVars == "" {
			pt.Fields.SensitivityVars = project.String(defaultSensitivityVars)
		}
	case 4:
		if unsetStatus(p.Status) {
			st := pick(e.rng, candidateStatuses)
			pt.Fields.Status = &st
		}
		if p.CarbonBudget == nil {
			pt.Fields.CarbonBudget = project.Float(float64(between(e.rng, 1000, 50000)))
		}
		if p.InvestmentWillingness == "" {
			pt.Fields.InvestmentWillingness = project.String(pick(e.rng, candidateWillingness))
		}
	}
	return pt
}

func (e *Engine) stubs() []project.MetalEntry {
	count := between(e.rng, 1, 2)
	out := make([]project.MetalEntry, 0, count)
	for range count {
		out = append(out, project.MetalEntry{
			Type:               pick(e.rng, candidateStubMetals),
			Quantity:           project.Float(float64(between(e.rng, 1, 50))),
			LifecycleStages:    append([]string(nil), stubStages...),
			PreferredTreatment: pick(e.rng, candidateStubTreatments),
			Transport: &project.Transport{
				Stage:      pick(e.rng, candidateTransportStages),
				Mode:       pick(e.rng, candidateTransportModes),
				DistanceKM: project.Float(float64(between(e.rng, 50, 2000))),
			},
			Use: &project.UsePhase{LifetimeYears: project.Float(float64(between(e.rng, 10, 40)))},
			EOL: &project.EndOfLife{CollectionRate: project.Float(float64(between(e.rng, 40, 95)))},
		})
	}
	return out
}

func (e *Engine) fillMetal(m project.MetalEntry) project.MetalPatch {
	mp := project.MetalPatch{ID: m.ID}
	if blank(m.Type) {
		mp.Type = project.String(pick(e.rng, candidateFillMetals))
	}
	if m.Quantity == nil {
		mp.Quantity = project.Float(float64(between(e.rng, 1, 50)))
	}
	if len(m.LifecycleStages) == 0 {
		mp.LifecycleStages = append([]string(nil), fillStages...)
	}
	if m.PreferredTreatment == "" {
		mp.PreferredTreatment = project.String(pick(e.rng, candidateFillTreatments))
	}
	return mp
}

func pick[T any](r *rand.Rand, values []T) T {
	return values[r.IntN(len(values))]
}

func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}
