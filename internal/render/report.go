package render

import (
	"fmt"
	"os"
	"text/template"
	"time"

	"butterfly-survey/internal/model"
)

// ReportData is everything the narrative report embeds.
type ReportData struct {
	Title        string
	GeneratedAt  time.Time
	Observations int
	Species      int
	Families     int
	Gradient     float64
	Hull         model.HullResult
	Spatial      model.SpatialSummary
	Checklist    model.ChecklistSummary
	Artifacts    []string
}

var reportFuncs = template.FuncMap{
	"date":  func(t time.Time) string { return t.Format("2 January 2006") },
	"month": monthAbbrev,
	"f0":    func(v float64) string { return fmt.Sprintf("%.0f", v) },
	"f1":    func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f2":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"f3":    func(v float64) string { return fmt.Sprintf("%.3f", v) },
}

var reportTemplate = template.Must(template.New("report").Funcs(reportFuncs).Parse(`# {{.Title}}

_Generated {{date .GeneratedAt}}._

## Survey at a glance

- **Observations:** {{.Observations}}
- **Species:** {{.Species}} across {{.Families}} families
- **Elevation gradient:** {{f0 .Gradient}} m
- **Surveyed region (convex hull):** {{f2 .Hull.AreaKm2}} km²

## Elevation by species

| Species | Min (m) | Mean (m) | Max (m) | Obs |
|---|---|---|---|---|
{{range .Spatial.BySpecies}}| _{{.ScientificName}}_ | {{f0 .MinElevation}} | {{f1 .MeanElevation}} | {{f0 .MaxElevation}} | {{.Count}} |
{{end}}
## Families

| Family | Species | Observations | % of species |
|---|---|---|---|
{{range .Checklist.Families}}| {{.Family}} | {{.Species}} | {{.Observations}} | {{f1 .PercentSpecies}} |
{{end}}
## Observation hotspots

| Latitude | Longitude | Species | Observations |
|---|---|---|---|
{{range .Spatial.Hotspots}}| {{f3 .Latitude}} | {{f3 .Longitude}} | {{.Species}} | {{.Observations}} |
{{end}}
## Species checklist

| # | Family | Species | English name | First recorded | Obs | Photo |
|---|---|---|---|---|---|---|
{{range .Checklist.Checklist}}| {{.ID}} | {{.Family}} | _{{.ScientificName}}_ | {{.EnglishName}} | {{date .FirstDate}} | {{.Observations}} | {{.PhotoFile}} |
{{end}}
## Phenology

| Species | First month | Last month | Months active |
|---|---|---|---|
{{range .Checklist.Phenology}}| _{{.ScientificName}}_ | {{month .FirstMonth}} | {{month .LastMonth}} | {{.MonthsActive}} |
{{end}}
{{if .Checklist.Notable}}## Regionally notable entries

{{range .Checklist.Notable}}- _{{.ScientificName}}_ ({{.EnglishName}}), first recorded {{date .FirstDate}}
{{end}}
{{end}}## Artifacts

{{range .Artifacts}}- {{.}}
{{end}}`))

// WriteReport renders the narrative Markdown report to path.
func WriteReport(path string, data ReportData) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
