// Package render produces the visual artifacts of a survey run: static
// chart images, the interactive map document and the narrative report.
package render

import (
	"fmt"

	"butterfly-survey/internal/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 4 * vg.Inch
)

// ElevationBySpeciesChart draws mean elevation per species as a bar
// chart, in the summary's descending-mean order.
func ElevationBySpeciesChart(path string, summaries []model.SpeciesSummary) error {
	values := make(plotter.Values, len(summaries))
	names := make([]string, len(summaries))
	for i, s := range summaries {
		values[i] = s.MeanElevation
		names[i] = s.ScientificName
	}
	return barChart(path, "Mean elevation by species", "Elevation (m)", names, values)
}

// SpeciesByFamilyChart draws species counts per family.
func SpeciesByFamilyChart(path string, families []model.FamilySummary) error {
	values := make(plotter.Values, len(families))
	names := make([]string, len(families))
	for i, f := range families {
		values[i] = float64(f.Species)
		names[i] = f.Family
	}
	return barChart(path, "Species per family", "Species", names, values)
}

// ObservationsByMonthChart draws observation counts per calendar month.
func ObservationsByMonthChart(path string, months []model.MonthlyElevation) error {
	values := make(plotter.Values, len(months))
	names := make([]string, len(months))
	for i, m := range months {
		values[i] = float64(m.Observations)
		names[i] = monthAbbrev(m.Month)
	}
	return barChart(path, "Observations per month", "Observations", names, values)
}

func barChart(path, title, yLabel string, names []string, values plotter.Values) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(1)

	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = -0.6
	p.X.Tick.Label.XAlign = -0.9

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

var monthAbbrevs = [...]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func monthAbbrev(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthAbbrevs[m]
}
