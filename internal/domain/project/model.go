package project

// Status is the free-form lifecycle label of a project. Any status may follow any other.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Project is one LCA assessment. ID is empty until the project store assigns one.
type Project struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	Description           string       `json:"description"`
	AssessmentGoal        string       `json:"assessmentGoal"`
	GeographicScope       string       `json:"geographicScope"`
	TimeHorizon           string       `json:"timeHorizon"`
	FunctionalUnit        string       `json:"functionalUnit"`
	ReferenceYear         string       `json:"referenceYear"`
	PrimaryObjective      string       `json:"primaryObjective"`
	TargetRecycled        *float64     `json:"targetRecycled"`
	CarbonBudget          *float64     `json:"carbonBudget"`
	ImprovementTimeframe  string       `json:"improvementTimeframe"`
	InvestmentWillingness string       `json:"investmentWillingness"`
	DataSource            string       `json:"dataSource"`
	ComparisonBenchmark   string       `json:"comparisonBenchmark"`
	SensitivityVars       string       `json:"sensitivityVars"`
	Status                Status       `json:"status"`
	Created               string       `json:"created,omitempty"`
	Updated               string       `json:"updated,omitempty"`
	Metals                []MetalEntry `json:"metals"`
}

// MetalEntry is one metal's lifecycle configuration within a project.
type MetalEntry struct {
	ID                 string     `json:"id"`
	Type               string     `json:"type"`
	Quantity           *float64   `json:"quantity"`
	LifecycleStages    []string   `json:"lifecycleStages"`
	PreferredTreatment string     `json:"preferredTreatment,omitempty"`
	Transport          *Transport `json:"transport,omitempty"`
	Use                *UsePhase  `json:"use,omitempty"`
	EOL                *EndOfLife `json:"eol,omitempty"`
}

// Transport describes how a metal moves between lifecycle stages.
type Transport struct {
	Stage      string   `json:"stage,omitempty"`
	Mode       string   `json:"mode,omitempty"`
	DistanceKM *float64 `json:"distanceKm,omitempty"`
}

// UsePhase describes the service life of the metal in the product.
type UsePhase struct {
	LifetimeYears *float64 `json:"lifetimeYears,omitempty"`
}

// EndOfLife describes the recovery of the metal after use.
type EndOfLife struct {
	CollectionRate *float64 `json:"collectionRatePercent,omitempty"`
}

// Summary is a lightweight representation for listing.
type Summary struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Status         Status   `json:"status"`
	FunctionalUnit string   `json:"functionalUnit,omitempty"`
	AssessmentGoal string   `json:"assessmentGoal,omitempty"`
	Metals         []string `json:"metals"`
	Created        string   `json:"created"`
	Updated        string   `json:"updated"`
}

// Overview holds the dashboard counters.
type Overview struct {
	TotalProjects int `json:"totalProjects"`
	Completed     int `json:"completed"`
	InProgress    int `json:"inProgress"`
	Drafts        int `json:"drafts"`
}

// Blank returns a new, unsaved project carrying the form defaults.
func Blank() Project {
	return Project{
		GeographicScope:       ScopeGlobal,
		TimeHorizon:           HorizonCradleGrave,
		ReferenceYear:         "2023",
		ImprovementTimeframe:  TimeframeShort,
		InvestmentWillingness: WillingnessLow,
		DataSource:            SourceSecondary,
		ComparisonBenchmark:   BenchmarkNone,
		Status:                StatusDraft,
		Metals:                []MetalEntry{},
	}
}

// Summarize returns the list view of a project.
func (p Project) Summarize() Summary {
	types := make([]string, 0, len(p.Metals))
	for _, m := range p.Metals {
		types = append(types, m.Type)
	}
	return Summary{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Status:         p.Status,
		FunctionalUnit: p.FunctionalUnit,
		AssessmentGoal: p.AssessmentGoal,
		Metals:         types,
		Created:        p.Created,
		Updated:        p.Updated,
	}
}

// Clone returns a deep copy. The form and the store never share backing memory.
func (p Project) Clone() Project {
	out := p
	out.TargetRecycled = cloneFloat(p.TargetRecycled)
	out.CarbonBudget = cloneFloat(p.CarbonBudget)
	out.Metals = make([]MetalEntry, len(p.Metals))
	for i, m := range p.Metals {
		out.Metals[i] = m.Clone()
	}
	return out
}

// Clone returns a deep copy of the entry.
func (m MetalEntry) Clone() MetalEntry {
	out := m
	out.Quantity = cloneFloat(m.Quantity)
	if m.LifecycleStages != nil {
		out.LifecycleStages = append([]string(nil), m.LifecycleStages...)
	}
	if m.Transport != nil {
		t := *m.Transport
		t.DistanceKM = cloneFloat(m.Transport.DistanceKM)
		out.Transport = &t
	}
	if m.Use != nil {
		out.Use = &UsePhase{LifetimeYears: cloneFloat(m.Use.LifetimeYears)}
	}
	if m.EOL != nil {
		out.EOL = &EndOfLife{CollectionRate: cloneFloat(m.EOL.CollectionRate)}
	}
	return out
}

// FindMetal returns the index of the entry with the given id, or -1.
func (p Project) FindMetal(id string) int {
	for i, m := range p.Metals {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to v.
func String(v string) *string {
	return &v
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
