package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"butterfly-survey/internal/model"
)

// CSVExporter writes the derived summary tables of a run into its
// artifact directory.
type CSVExporter struct {
	Dir string
}

func NewCSVExporter(dir string) *CSVExporter {
	return &CSVExporter{Dir: dir}
}

// writeCSV writes one table and wraps the outcome in an ExportResult,
// matching the per-artifact reporting of the export stage.
func (e *CSVExporter) writeCSV(fileName string, header []string, rows [][]string) model.ExportResult {
	result := model.ExportResult{
		Type:       "csv",
		Path:       filepath.Join(e.Dir, fileName),
		ExportedAt: time.Now(),
	}

	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		result.Error = fmt.Sprintf("failed to create directory: %v", err)
		return result
	}
	file, err := os.Create(result.Path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create file: %v", err)
		return result
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		result.Error = fmt.Sprintf("failed to write header: %v", err)
		return result
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			result.Error = fmt.Sprintf("failed to write row: %v", err)
			result.RecordCount = len(rows)
			return result
		}
	}

	result.Success = true
	result.RecordCount = len(rows)
	fmt.Printf("✅ Export successful: %d records exported to %s\n", len(rows), result.Path)
	return result
}

// ExportObservations writes the cleaned table. Row count always equals
// the raw input row count: cleaning never drops rows.
func (e *CSVExporter) ExportObservations(obs []model.Observation) model.ExportResult {
	header := []string{"ScientificName", "EnglishName", "Family", "Date", "Year", "Month", "Season", "Latitude", "Longitude", "Elevation_m"}
	rows := make([][]string, 0, len(obs))
	for _, o := range obs {
		rows = append(rows, []string{
			o.ScientificName, o.EnglishName, o.Family,
			o.Date.Format("2006-01-02"),
			strconv.Itoa(o.Year), strconv.Itoa(o.Month), o.Season,
			formatFloat(o.Latitude, 6), formatFloat(o.Longitude, 6), formatFloat(o.Elevation, 0),
		})
	}
	return e.writeCSV("observations_clean.csv", header, rows)
}

// ExportSpeciesSummary writes the full per-species summary table.
func (e *CSVExporter) ExportSpeciesSummary(summaries []model.SpeciesSummary) model.ExportResult {
	header := []string{"ScientificName", "EnglishName", "Family", "Observations", "MinElevation_m", "MeanElevation_m", "MaxElevation_m", "FirstSeen", "LastSeen"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ScientificName, s.EnglishName, s.Family, strconv.Itoa(s.Count),
			formatFloat(s.MinElevation, 0), formatFloat(s.MeanElevation, 1), formatFloat(s.MaxElevation, 0),
			s.FirstSeen.Format("2006-01-02"), s.LastSeen.Format("2006-01-02"),
		})
	}
	return e.writeCSV("species_summary.csv", header, rows)
}

// ExportElevationBySpecies writes the elevation-range view, already
// sorted descending by mean elevation.
func (e *CSVExporter) ExportElevationBySpecies(summaries []model.SpeciesSummary) model.ExportResult {
	header := []string{"ScientificName", "MinElevation_m", "MeanElevation_m", "MaxElevation_m", "Range_m", "Observations"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ScientificName,
			formatFloat(s.MinElevation, 0), formatFloat(s.MeanElevation, 1), formatFloat(s.MaxElevation, 0),
			formatFloat(s.MaxElevation-s.MinElevation, 0),
			strconv.Itoa(s.Count),
		})
	}
	return e.writeCSV("elevation_by_species.csv", header, rows)
}

// ExportFamilySummary writes family-level species counts and percentages.
func (e *CSVExporter) ExportFamilySummary(families []model.FamilySummary) model.ExportResult {
	header := []string{"Family", "Species", "Observations", "PercentOfSpecies"}
	rows := make([][]string, 0, len(families))
	for _, f := range families {
		rows = append(rows, []string{
			f.Family, strconv.Itoa(f.Species), strconv.Itoa(f.Observations), formatFloat(f.PercentSpecies, 1),
		})
	}
	return e.writeCSV("family_summary.csv", header, rows)
}

// ExportHotspots writes the per-cell species/observation counts.
func (e *CSVExporter) ExportHotspots(hotspots []model.Hotspot) model.ExportResult {
	header := []string{"Latitude", "Longitude", "Species", "Observations"}
	rows := make([][]string, 0, len(hotspots))
	for _, h := range hotspots {
		rows = append(rows, []string{
			formatFloat(h.Latitude, 3), formatFloat(h.Longitude, 3),
			strconv.Itoa(h.Species), strconv.Itoa(h.Observations),
		})
	}
	return e.writeCSV("observation_hotspots.csv", header, rows)
}

// ExportMonthlyElevation writes the per-month elevation profile.
func (e *CSVExporter) ExportMonthlyElevation(months []model.MonthlyElevation) model.ExportResult {
	header := []string{"Month", "Observations", "MeanElevation_m", "StdDev_m"}
	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{
			strconv.Itoa(m.Month), strconv.Itoa(m.Observations),
			formatFloat(m.MeanElevation, 1), formatFloat(m.StdDev, 1),
		})
	}
	return e.writeCSV("monthly_elevation.csv", header, rows)
}

// ExportChecklist writes the one-row-per-species checklist.
func (e *CSVExporter) ExportChecklist(entries []model.ChecklistEntry) model.ExportResult {
	header := []string{"ID", "Family", "ScientificName", "EnglishName", "FirstDate", "Latitude", "Longitude", "Elevation_m", "Observations"}
	rows := make([][]string, 0, len(entries))
	for _, c := range entries {
		rows = append(rows, []string{
			strconv.Itoa(c.ID), c.Family, c.ScientificName, c.EnglishName,
			c.FirstDate.Format("2006-01-02"),
			formatFloat(c.Latitude, 6), formatFloat(c.Longitude, 6), formatFloat(c.Elevation, 0),
			strconv.Itoa(c.Observations),
		})
	}
	return e.writeCSV("species_checklist.csv", header, rows)
}

// ExportAnnotatedList writes the checklist joined with phenology, the
// human-readable annotated species listing.
func (e *CSVExporter) ExportAnnotatedList(entries []model.ChecklistEntry, phenology []model.Phenology) model.ExportResult {
	phenoByName := make(map[string]model.Phenology, len(phenology))
	for _, p := range phenology {
		phenoByName[p.ScientificName] = p
	}

	header := []string{"ID", "Family", "ScientificName", "EnglishName", "FirstDate", "Observations", "FirstMonth", "LastMonth", "MonthsActive", "PhotoFile"}
	rows := make([][]string, 0, len(entries))
	for _, c := range entries {
		p := phenoByName[c.ScientificName]
		rows = append(rows, []string{
			strconv.Itoa(c.ID), c.Family, c.ScientificName, c.EnglishName,
			c.FirstDate.Format("2006-01-02"), strconv.Itoa(c.Observations),
			monthName(p.FirstMonth), monthName(p.LastMonth), strconv.Itoa(p.MonthsActive),
			c.PhotoFile,
		})
	}
	return e.writeCSV("annotated_species_list.csv", header, rows)
}

// ExportPhenology writes first/last active month per species.
func (e *CSVExporter) ExportPhenology(phenology []model.Phenology) model.ExportResult {
	header := []string{"ScientificName", "EnglishName", "FirstMonth", "LastMonth", "MonthsActive"}
	rows := make([][]string, 0, len(phenology))
	for _, p := range phenology {
		rows = append(rows, []string{
			p.ScientificName, p.EnglishName,
			monthName(p.FirstMonth), monthName(p.LastMonth), strconv.Itoa(p.MonthsActive),
		})
	}
	return e.writeCSV("phenology.csv", header, rows)
}

// ExportPhotoGuide writes the photo-file naming guide derived from the
// checklist identifiers.
func (e *CSVExporter) ExportPhotoGuide(entries []model.ChecklistEntry) model.ExportResult {
	header := []string{"PhotoFile", "ID", "ScientificName", "EnglishName"}
	rows := make([][]string, 0, len(entries))
	for _, c := range entries {
		rows = append(rows, []string{c.PhotoFile, strconv.Itoa(c.ID), c.ScientificName, c.EnglishName})
	}
	return e.writeCSV("photo_naming_guide.csv", header, rows)
}

// ReadCleanedTable reads a cleaned table previously written by
// ExportObservations. It is the feed-forward file the spatial and
// checklist stages consume when the clean stage is not re-run.
func ReadCleanedTable(path string) ([]model.Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read cleaned table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("cleaned table %s is empty", path)
	}

	var obs []model.Observation
	for i, rec := range records[1:] {
		if len(rec) < 10 {
			return nil, fmt.Errorf("cleaned table row %d is short", i+1)
		}
		date, err := time.Parse("2006-01-02", rec[3])
		if err != nil {
			return nil, fmt.Errorf("cleaned table row %d: %w", i+1, err)
		}
		year, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("cleaned table row %d: %w", i+1, err)
		}
		month, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("cleaned table row %d: %w", i+1, err)
		}
		lat, err := strconv.ParseFloat(rec[7], 64)
		if err != nil {
			return nil, fmt.Errorf("cleaned table row %d: %w", i+1, err)
		}
		lon, err := strconv.ParseFloat(rec[8], 64)
		if err != nil {
			return nil, fmt.Errorf("cleaned table row %d: %w", i+1, err)
		}
		elev, err := strconv.ParseFloat(rec[9], 64)
		if err != nil {
			return nil, fmt.Errorf("cleaned table row %d: %w", i+1, err)
		}
		obs = append(obs, model.Observation{
			Row:            i + 1,
			ScientificName: rec[0],
			EnglishName:    rec[1],
			Family:         rec[2],
			Date:           date,
			Year:           year,
			Month:          month,
			Season:         rec[6],
			Latitude:       lat,
			Longitude:      lon,
			Elevation:      elev,
		})
	}
	return obs, nil
}

func formatFloat(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

var monthNames = [...]string{"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m]
}
