package analytics_test

import (
	"testing"

	"github.com/metalcycle/lcastudio/internal/domain/analytics"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func greenCopper() project.Project {
	return project.Samples()[0]
}

func TestProjectBaseAndSeries(t *testing.T) {
	p := greenCopper()
	require.InDelta(t, 830, analytics.ProjectBase(p), 1e-9)

	s := analytics.Series(p)
	require.Len(t, s, 6)
	require.Equal(t, analytics.Point{Year: 2020, Emissions: 832, Energy: 1663, Circularity: 58}, s[0])
	require.Equal(t, analytics.Point{Year: 2021, Emissions: 782, Energy: 1603, Circularity: 58}, s[1])
	require.Equal(t, 2025, s[5].Year)
}

func TestCombinedAveragesCircularity(t *testing.T) {
	samples := project.Samples()
	combined := analytics.Combined(samples)

	var emissions int
	var circ int
	for _, p := range samples {
		emissions += analytics.Series(p)[0].Emissions
		circ += analytics.Series(p)[0].Circularity
	}
	require.Equal(t, emissions, combined[0].Emissions)
	require.InDelta(t, float64(circ)/3, float64(combined[0].Circularity), 0.5)

	empty := analytics.Combined(nil)
	require.Len(t, empty, 6)
	require.Zero(t, empty[0].Emissions)
}

func TestScopeSplit(t *testing.T) {
	s := analytics.ScopeSplit(greenCopper())
	require.Equal(t, []analytics.Slice{
		{Name: "Scope 1", Value: 31},
		{Name: "Scope 2", Value: 26},
		{Name: "Scope 3", Value: 43},
	}, s)

	combined := analytics.CombinedScope(project.Samples())
	total := 0
	for _, c := range combined {
		total += c.Value
	}
	require.Equal(t, 100, total)
}

func TestTornadoSortedByMagnitude(t *testing.T) {
	bars := analytics.Tornado(greenCopper())
	require.Equal(t, []analytics.Bar{
		{Variable: "Electricity carbon intensity", Low: -15, High: 24},
		{Variable: "Energy price", Low: -10, High: 17},
		{Variable: "Recycling rate", Low: -8, High: 15},
		{Variable: "Transport distance", Low: -9, High: 7},
		{Variable: "Material yield", Low: -5, High: 10},
	}, bars)
}

func TestHeatmapSampleGrid(t *testing.T) {
	g := analytics.Heatmap(nil)
	require.Len(t, g.Rows, 6)
	require.Equal(t, 900, g.Min)
	require.Equal(t, 5600, g.Max)
	require.Equal(t, "Smelting", g.Rows[0].Process)

	low := g.Rows[5].Cells[0]
	require.Equal(t, 900, low.Value)
	require.Equal(t, "hsl(0 65% 85%)", low.CSS)
	require.False(t, low.Dark)

	high := g.Rows[1].Cells[5]
	require.Equal(t, 5600, high.Value)
	require.Equal(t, "hsl(0 85% 30%)", high.CSS)
	require.True(t, high.Dark)
	require.NotEqual(t, low.Color, high.Color)
}

func TestHeatmapDeterministic(t *testing.T) {
	a := analytics.Heatmap(project.Samples())
	b := analytics.Heatmap(project.Samples())
	require.Equal(t, a, b)
	require.LessOrEqual(t, a.Min, a.Max)
}

func TestNumericID(t *testing.T) {
	require.Equal(t, 42, analytics.NumericID("42"))
	require.Zero(t, analytics.NumericID(""))
	id := "5f0c7d0e-5a4e-4bb0-9a8c-1d1f0d2b9e11"
	require.Equal(t, analytics.NumericID(id), analytics.NumericID(id))
}

func TestReviewOf(t *testing.T) {
	p := project.Blank()
	p.Name = "Test"
	p.TargetRecycled = project.Float(40)
	p.Metals = []project.MetalEntry{{ID: "metal-1", Type: "Copper", Quantity: project.Float(5)}}

	r := analytics.ReviewOf(p)
	require.Equal(t, 600, r.EstimatedEmissions)
	require.Equal(t, 68, r.CircularityIndex)
	require.Equal(t, 1250, r.EstimatedCost)
	require.Equal(t, []analytics.MetalShare{{ID: "metal-1", Type: "Copper", SharePercent: 18, PreferredTreatment: "Standard"}}, r.Metals)

	empty := analytics.ReviewOf(project.Blank())
	require.Equal(t, 1000, empty.EstimatedCost)
	require.Equal(t, 30, empty.CircularityIndex)
}

func TestBuild(t *testing.T) {
	samples := project.Samples()

	all, err := analytics.Build(samples, "")
	require.NoError(t, err)
	require.Equal(t, "All Projects", all.Headline.Title)
	require.Equal(t, 3, all.Headline.TotalProjects)
	require.Equal(t, all.Series[5].Emissions, all.Headline.LatestEmissions)

	one, err := analytics.Build(samples, "2")
	require.NoError(t, err)
	require.Equal(t, "Solar Panel Aluminum", one.Headline.Title)
	require.Equal(t, 1, one.Headline.TotalProjects)

	_, err = analytics.Build(samples, "nope")
	require.ErrorIs(t, err, analytics.ErrUnknownProject)
}
