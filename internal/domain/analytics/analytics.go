// Package analytics derives deterministic charts from finished project records.
// Every figure is a pure function of the project metadata.
package analytics

import (
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// Years covered by every series.
var Years = []int{2020, 2021, 2022, 2023, 2024, 2025}

// Point is one year of a series.
type Point struct {
	Year        int `json:"year"`
	Emissions   int `json:"emissions"`
	Energy      int `json:"energy"`
	Circularity int `json:"circularity"`
}

// Slice is one scope share of the emissions split.
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Bar is one variable of the sensitivity tornado.
type Bar struct {
	Variable string `json:"variable"`
	Low      int    `json:"low"`
	High     int    `json:"high"`
}

// Headline holds the tile figures of a view.
type Headline struct {
	Title           string `json:"title"`
	TotalProjects   int    `json:"totalProjects"`
	LatestEmissions int    `json:"latestEmissions"`
	AvgCircularity  int    `json:"avgCircularity"`
}

// NumericID maps a project id to the number the figures are derived from.
// Numeric ids are used as is; others are hashed.
func NumericID(id string) int {
	if id == "" {
		return 0
	}
	if n, err := strconv.Atoi(id); err == nil {
		if n < 0 {
			return -n
		}
		return n
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32() % 1_000_000)
}

func nameLen(p project.Project) int {
	return utf8.RuneCountInString(p.Name)
}

// ProjectBase is the per-project scale every series starts from.
func ProjectBase(p project.Project) float64 {
	status := 30
	switch p.Status {
	case project.StatusCompleted:
		status = -20
	case project.StatusInProgress:
		status = 10
	}
	return float64(700 + NumericID(p.ID)%97 + nameLen(p)*3 + len(p.Metals)*40 + status)
}

// Series returns the yearly emissions, energy and circularity of a project.
func Series(p project.Project) []Point {
	base := ProjectBase(p)
	id := NumericID(p.ID)
	circ := clamp(int(math.Round(float64(50+len(p.Metals)*6+(id%10-5)))), 10, 95)

	out := make([]Point, len(Years))
	for i, y := range Years {
		decline := base * 0.06 * float64(i)
		wiggle := float64(id%(i+3)) * 2
		out[i] = Point{
			Year:        y,
			Emissions:   int(math.Round(base - decline + wiggle)),
			Energy:      int(math.Round(base*2 - decline*1.2 + wiggle*1.4)),
			Circularity: circ,
		}
	}
	return out
}

// Combined sums the series of all projects. Circularity is averaged.
func Combined(projects []project.Project) []Point {
	out := make([]Point, len(Years))
	for i, y := range Years {
		out[i].Year = y
	}
	for _, p := range projects {
		for i, pt := range Series(p) {
			out[i].Emissions += pt.Emissions
			out[i].Energy += pt.Energy
			out[i].Circularity += pt.Circularity
		}
	}
	if n := len(projects); n > 0 {
		for i := range out {
			out[i].Circularity = int(math.Round(float64(out[i].Circularity) / float64(n)))
		}
	}
	return out
}

// ScopeSplit returns the scope 1/2/3 shares of a project, summing to 100.
func ScopeSplit(p project.Project) []Slice {
	id := NumericID(p.ID)
	if id == 0 {
		id = 1
	}
	s1 := 30 + id%10
	s2 := 25 + id%7
	return []Slice{
		{Name: "Scope 1", Value: s1},
		{Name: "Scope 2", Value: s2},
		{Name: "Scope 3", Value: 100 - s1 - s2},
	}
}

// CombinedScope normalises the summed splits of all projects to percentages.
func CombinedScope(projects []project.Project) []Slice {
	var t1, t2, t3 int
	for _, p := range projects {
		s := ScopeSplit(p)
		t1 += s[0].Value
		t2 += s[1].Value
		t3 += s[2].Value
	}
	sum := t1 + t2 + t3
	if sum == 0 {
		sum = 1
	}
	p1 := int(math.Round(float64(t1) / float64(sum) * 100))
	p2 := int(math.Round(float64(t2) / float64(sum) * 100))
	return []Slice{
		{Name: "Scope 1", Value: p1},
		{Name: "Scope 2", Value: p2},
		{Name: "Scope 3", Value: max(0, 100-p1-p2)},
	}
}

var tornadoVars = []struct {
	name      string
	low, high float64
}{
	{"Electricity carbon intensity", 0.9, 1.4},
	{"Energy price", 0.6, 1.0},
	{"Recycling rate", 0.45, 0.9},
	{"Transport distance", 0.5, 0.4},
	{"Material yield", 0.3, 0.6},
}

// Tornado returns the sensitivity bars of a project, largest swing first.
func Tornado(p project.Project) []Bar {
	base := math.Max(10, math.Round(ProjectBase(p)/50))
	out := make([]Bar, len(tornadoVars))
	for i, v := range tornadoVars {
		out[i] = Bar{
			Variable: v.name,
			Low:      -int(math.Round(base * v.low)),
			High:     int(math.Round(base * v.high)),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return magnitude(out[i]) > magnitude(out[j])
	})
	return out
}

func magnitude(b Bar) int {
	return abs(b.Low) + abs(b.High)
}

// HeadlineFor summarises a series under the given title.
func HeadlineFor(title string, projects int, series []Point) Headline {
	h := Headline{Title: title, TotalProjects: projects}
	if len(series) == 0 {
		return h
	}
	h.LatestEmissions = series[len(series)-1].Emissions
	sum := 0
	for _, pt := range series {
		sum += pt.Circularity
	}
	h.AvgCircularity = int(math.Round(float64(sum) / float64(len(series))))
	return h
}

func clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
