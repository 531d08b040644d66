package analytics

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// Processes are the heatmap rows.
var Processes = []string{"Smelting", "Transport", "Mining", "Fabrication", "Recycling", "Waste treatment"}

// sampleGrid is shown when no project is selected.
var sampleGrid = [][]int{
	{4200, 4300, 4100, 4400, 4700, 4600},
	{3500, 3600, 4000, 4800, 5200, 5600},
	{3000, 3100, 3300, 4200, 4500, 4700},
	{2200, 2300, 2400, 2600, 2800, 3000},
	{1400, 1500, 1600, 1700, 1800, 2000},
	{900, 950, 1000, 1100, 1200, 1300},
}

// Cell is one heatmap value with its normalised intensity and colour.
type Cell struct {
	Value int     `json:"value"`
	Norm  float64 `json:"norm"`
	Color string  `json:"color"`
	CSS   string  `json:"css"`
	Dark  bool    `json:"dark"`
}

// Row is one process across the years.
type Row struct {
	Process string `json:"process"`
	Cells   []Cell `json:"cells"`
}

// Grid is the process hotspot heatmap.
type Grid struct {
	Years []int `json:"years"`
	Rows  []Row `json:"rows"`
	Min   int   `json:"min"`
	Max   int   `json:"max"`
}

func seedValue(p project.Project, pi, yi int) float64 {
	id := NumericID(p.ID)
	if id == 0 {
		id = 1
	}
	base := id%97 + nameLen(p)*2 + len(p.Metals)*6
	procFactor := (pi + 3) * 7
	yearFactor := (yi + 1) * 3
	return float64(abs((base*procFactor)%100-yearFactor) + 10)
}

// Heatmap builds the hotspot grid for the selected projects. With none
// selected the fixed sample grid is returned.
func Heatmap(selected []project.Project) Grid {
	values := make([][]int, len(Processes))
	for pi := range Processes {
		if len(selected) == 0 {
			values[pi] = append([]int(nil), sampleGrid[pi]...)
			continue
		}
		values[pi] = make([]int, len(Years))
		for yi := range Years {
			sum := 0.0
			for _, p := range selected {
				sum += seedValue(p, pi, yi)
			}
			avg := sum / float64(len(selected))
			v := avg * (1 + float64(yi)*0.12) * (1 + float64(len(selected))*0.08) * 20
			values[pi][yi] = int(math.Round(v))
		}
	}
	return normalize(values)
}

func normalize(values [][]int) Grid {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range values {
		for _, v := range row {
			lo = math.Min(lo, float64(v))
			hi = math.Max(hi, float64(v))
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = 0, 1
	}
	span := math.Max(1e-6, hi-lo)

	g := Grid{Years: append([]int(nil), Years...), Min: int(lo), Max: int(hi)}
	for pi, row := range values {
		r := Row{Process: Processes[pi], Cells: make([]Cell, len(row))}
		for yi, v := range row {
			n := (float64(v) - lo) / span
			r.Cells[yi] = colorCell(v, n)
		}
		g.Rows = append(g.Rows, r)
	}
	return g
}

// colorCell maps a normalised value onto a red scale: light for low, dark for high.
func colorCell(v int, n float64) Cell {
	sat := 65 + int(math.Round(n*20))
	light := 85 - int(math.Round(n*55))
	c := colorful.Hsl(0, float64(sat)/100, float64(light)/100)
	return Cell{
		Value: v,
		Norm:  n,
		Color: c.Hex(),
		CSS:   fmt.Sprintf("hsl(0 %d%% %d%%)", sat, light),
		Dark:  n > 0.55,
	}
}
