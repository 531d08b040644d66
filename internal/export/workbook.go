package export

import (
	"fmt"
	"io"

	"github.com/metalcycle/lcastudio/internal/domain/analytics"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the analytics workbook.
const (
	SheetSummary = "Summary"
	SheetSeries  = "Series"
	SheetScope   = "Scope"
	SheetTornado = "Sensitivity"
	SheetHeatmap = "Hotspots"
)

// Workbook lays an analytics report out as a spreadsheet. The caller closes
// the returned file.
func Workbook(r analytics.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetSeries, SheetScope, SheetTornado, SheetHeatmap} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	w := sheetWriter{f: f}
	w.rows(SheetSummary, [][]any{
		{"View", r.Headline.Title},
		{"Selection", r.Selection},
		{"Total projects", r.Headline.TotalProjects},
		{"Latest emissions (tCO2e)", r.Headline.LatestEmissions},
		{"Average circularity (%)", r.Headline.AvgCircularity},
	})

	series := [][]any{{"Year", "Emissions (tCO2e)", "Energy (MWh)", "Circularity (%)"}}
	for _, p := range r.Series {
		series = append(series, []any{p.Year, p.Emissions, p.Energy, p.Circularity})
	}
	w.rows(SheetSeries, series)

	scope := [][]any{{"Scope", "Share (%)"}}
	for _, s := range r.Scope {
		scope = append(scope, []any{s.Name, s.Value})
	}
	w.rows(SheetScope, scope)

	tornado := [][]any{{"Variable", "Low (%)", "High (%)"}}
	for _, b := range r.Tornado {
		tornado = append(tornado, []any{b.Variable, b.Low, b.High})
	}
	w.rows(SheetTornado, tornado)

	w.heatmap(r.Heatmap)

	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// WriteWorkbook streams the report's workbook to out.
func WriteWorkbook(out io.Writer, r analytics.Report) error {
	f, err := Workbook(r)
	if err != nil {
		return &Error{Target: "xlsx", Err: err}
	}
	defer f.Close()
	if _, err := f.WriteTo(out); err != nil {
		return &Error{Target: "xlsx", Err: err}
	}
	return nil
}

// SaveWorkbook writes the report's workbook to path.
func SaveWorkbook(path string, r analytics.Report) error {
	f, err := Workbook(r)
	if err != nil {
		return &Error{Target: path, Err: err}
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return &Error{Target: path, Err: err}
	}
	return nil
}

// sheetWriter keeps the first error so layout code stays linear.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) rows(sheet string, rows [][]any) {
	for i, row := range rows {
		w.row(sheet, i+1, row)
	}
}

func (w *sheetWriter) row(sheet string, n int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("write %s row %d: %w", sheet, n, err)
	}
}

func (w *sheetWriter) heatmap(g analytics.Grid) {
	header := []any{"Process"}
	for _, y := range g.Years {
		header = append(header, y)
	}
	w.row(SheetHeatmap, 1, header)

	styles := map[string]int{}
	for i, row := range g.Rows {
		values := []any{row.Process}
		for _, c := range row.Cells {
			values = append(values, c.Value)
		}
		w.row(SheetHeatmap, i+2, values)

		for j, c := range row.Cells {
			if w.err != nil {
				return
			}
			style, ok := styles[c.Color]
			if !ok {
				font := "#111827"
				if c.Dark {
					font = "#FFFFFF"
				}
				id, err := w.f.NewStyle(&excelize.Style{
					Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c.Color}},
					Font: &excelize.Font{Color: font},
				})
				if err != nil {
					w.err = fmt.Errorf("heatmap style: %w", err)
					return
				}
				styles[c.Color] = id
				style = id
			}
			cell, err := excelize.CoordinatesToCellName(j+2, i+2)
			if err != nil {
				w.err = err
				return
			}
			if err := w.f.SetCellStyle(SheetHeatmap, cell, cell, style); err != nil {
				w.err = fmt.Errorf("heatmap style: %w", err)
				return
			}
		}
	}
}
