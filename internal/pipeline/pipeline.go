package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"butterfly-survey/internal/model"
	"butterfly-survey/internal/render"
	"butterfly-survey/internal/store"
	"butterfly-survey/pkg/utils"
)

// Pipeline stage names, in execution order. The clean stage feeds the
// spatial and checklist stages; those two are independent of each other
// and the report stage consumes both.
const (
	StageClean     = "clean"
	StageSpatial   = "spatial"
	StageChecklist = "checklist"
	StageReport    = "report"
)

const channelBufferSize = 64

// Run executes one survey report run. It is a one-shot batch: the first
// fatal error cancels the run, marks it failed in the store and is
// returned synchronously. Artifacts written by earlier stages are left
// untouched on failure.
func Run(ctx context.Context, runID string, spec model.SurveyJobSpec) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting survey run: %s\n", runID)

	store.UpdateRunStatus(runID, "running")
	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, utils.ParseDuration(spec.RunTimeout))
	defer cancel()

	outDir := spec.Export.Dir
	if outDir == "" {
		outDir = "output"
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	exporter := NewCSVExporter(outDir)

	// --- STAGE 1: INGEST & CLEAN ---
	var obs []model.Observation
	if spec.WantsStage(StageClean) {
		obs, err = runCleanStage(ctx, runID, spec, exporter)
		if err != nil {
			return err
		}
	} else {
		// Stage 1 was run previously; downstream stages read its durable
		// output, the cleaned table.
		obs, err = ReadCleanedTable(filepath.Join(outDir, "observations_clean.csv"))
		if err != nil {
			return fmt.Errorf("cleaned table unavailable (run the clean stage first): %w", err)
		}
	}

	// Summaries are pure functions of the cleaned table; compute both up
	// front so the report stage can run with any artifact subset.
	spatial := SummarizeSpatial(obs)
	checklist := SummarizeChecklist(obs)

	// --- STAGES 2 & 3: independent aggregations, no shared state ---
	var wg sync.WaitGroup
	var spatialErr, checklistErr error

	if spec.WantsStage(StageSpatial) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spatialErr = runSpatialStage(runID, spatial, exporter, outDir)
		}()
	}
	if spec.WantsStage(StageChecklist) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checklistErr = runChecklistStage(runID, checklist, exporter, outDir)
		}()
	}
	wg.Wait()
	if spatialErr != nil {
		return spatialErr
	}
	if checklistErr != nil {
		return checklistErr
	}

	// --- STAGE 4: NARRATIVE REPORT ---
	if spec.WantsStage(StageReport) {
		if err := runReportStage(runID, obs, spatial, checklist, outDir); err != nil {
			return err
		}
	}

	fmt.Printf("🏁 Survey run %s completed in %v\n", runID, time.Since(start))
	store.UpdateRunStatus(runID, "completed")
	return nil
}

// runCleanStage streams the raw table through ingestion, validation and
// cleaning, then persists the cleaned table to CSV and the run store.
// The cleaned table always has the same row count as the raw input.
func runCleanStage(ctx context.Context, runID string, spec model.SurveyJobSpec, exporter *CSVExporter) ([]model.Observation, error) {
	startTime := time.Now()
	store.SaveStageProgress(runID, StageClean, "started", &startTime, nil, 0, 0)
	store.SaveRunLog(runID, StageClean, "info", "Starting ingest & clean stage", map[string]interface{}{
		"source": spec.Source.URL,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rawCh := make(chan model.RawSighting, channelBufferSize)
	validCh := make(chan model.RawSighting, channelBufferSize)
	obsCh := make(chan model.Observation, channelBufferSize)
	errCh := make(chan error, 8)

	go IngestSource(ctx, spec.Source, spec.Delimiter, rawCh, errCh)
	go ValidateSightings(ctx, rawCh, validCh, errCh)
	go CleanSightings(ctx, validCh, obsCh, errCh)

	var obs []model.Observation
	var firstErr error
	open := obsCh
	for open != nil {
		select {
		case o, ok := <-open:
			if !ok {
				open = nil
				continue
			}
			obs = append(obs, o)
		case e := <-errCh:
			if firstErr == nil {
				firstErr = e
				cancel()
			}
		}
	}
	// A stage may have reported its error after the output channel closed.
	select {
	case e := <-errCh:
		if firstErr == nil {
			firstErr = e
		}
	default:
	}

	if firstErr != nil {
		endTime := time.Now()
		store.SaveStageProgress(runID, StageClean, "failed", &startTime, &endTime, len(obs), 1)
		return nil, firstErr
	}

	// Channel interleaving may reorder rows; restore input order so every
	// downstream output is deterministic.
	sort.Slice(obs, func(i, j int) bool { return obs[i].Row < obs[j].Row })

	if err := store.ReplaceObservations(runID, obs); err != nil {
		return nil, fmt.Errorf("failed to persist cleaned table: %w", err)
	}
	if result := exporter.ExportObservations(obs); !result.Success {
		return nil, fmt.Errorf("failed to write cleaned table: %s", result.Error)
	}

	endTime := time.Now()
	store.SaveStageProgress(runID, StageClean, "completed", &startTime, &endTime, len(obs), 0)
	store.SaveRunLog(runID, StageClean, "info", "Ingest & clean stage completed", map[string]interface{}{
		"rows":        len(obs),
		"duration_ms": endTime.Sub(startTime).Milliseconds(),
	})
	return obs, nil
}

// runSpatialStage writes the Stage-2 tables, charts and the map.
func runSpatialStage(runID string, spatial model.SpatialSummary, exporter *CSVExporter, outDir string) error {
	startTime := time.Now()
	fmt.Println("📊 Starting spatial & elevation stage...")
	store.SaveStageProgress(runID, StageSpatial, "started", &startTime, nil, 0, 0)

	results := []model.ExportResult{
		exporter.ExportSpeciesSummary(spatial.BySpecies),
		exporter.ExportElevationBySpecies(spatial.BySpecies),
		exporter.ExportHotspots(spatial.Hotspots),
		exporter.ExportMonthlyElevation(spatial.ByMonth),
	}
	for _, r := range results {
		if !r.Success {
			return fmt.Errorf("spatial export failed for %s: %s", r.Path, r.Error)
		}
	}

	if err := render.ElevationBySpeciesChart(filepath.Join(outDir, "elevation_by_species.png"), spatial.BySpecies); err != nil {
		return err
	}
	if err := render.ObservationsByMonthChart(filepath.Join(outDir, "observations_by_month.png"), spatial.ByMonth); err != nil {
		return err
	}
	if err := render.WriteMap(filepath.Join(outDir, "survey_map.html"), "Butterfly survey map", spatial.Markers, spatial.Hull); err != nil {
		return err
	}

	endTime := time.Now()
	store.SaveStageProgress(runID, StageSpatial, "completed", &startTime, &endTime, len(spatial.BySpecies), 0)
	store.SaveRunLog(runID, StageSpatial, "info", "Spatial & elevation stage completed", map[string]interface{}{
		"species":     len(spatial.BySpecies),
		"hotspots":    len(spatial.Hotspots),
		"hull_km2":    spatial.Hull.AreaKm2,
		"gradient_m":  spatial.Gradient,
		"duration_ms": endTime.Sub(startTime).Milliseconds(),
	})
	fmt.Println("✅ Spatial & elevation stage complete.")
	return nil
}

// runChecklistStage writes the Stage-3 tables and the family chart.
func runChecklistStage(runID string, checklist model.ChecklistSummary, exporter *CSVExporter, outDir string) error {
	startTime := time.Now()
	fmt.Println("📋 Starting checklist & phenology stage...")
	store.SaveStageProgress(runID, StageChecklist, "started", &startTime, nil, 0, 0)

	results := []model.ExportResult{
		exporter.ExportChecklist(checklist.Checklist),
		exporter.ExportAnnotatedList(checklist.Checklist, checklist.Phenology),
		exporter.ExportPhenology(checklist.Phenology),
		exporter.ExportFamilySummary(checklist.Families),
		exporter.ExportPhotoGuide(checklist.Checklist),
	}
	for _, r := range results {
		if !r.Success {
			return fmt.Errorf("checklist export failed for %s: %s", r.Path, r.Error)
		}
	}

	if err := render.SpeciesByFamilyChart(filepath.Join(outDir, "species_by_family.png"), checklist.Families); err != nil {
		return err
	}

	endTime := time.Now()
	store.SaveStageProgress(runID, StageChecklist, "completed", &startTime, &endTime, len(checklist.Checklist), 0)
	store.SaveRunLog(runID, StageChecklist, "info", "Checklist & phenology stage completed", map[string]interface{}{
		"species":     len(checklist.Checklist),
		"families":    len(checklist.Families),
		"notable":     len(checklist.Notable),
		"duration_ms": endTime.Sub(startTime).Milliseconds(),
	})
	fmt.Println("✅ Checklist & phenology stage complete.")
	return nil
}

// runReportStage assembles the narrative report from both summaries.
func runReportStage(runID string, obs []model.Observation, spatial model.SpatialSummary, checklist model.ChecklistSummary, outDir string) error {
	startTime := time.Now()
	fmt.Println("📝 Starting report stage...")
	store.SaveStageProgress(runID, StageReport, "started", &startTime, nil, 0, 0)

	artifacts, err := listArtifacts(outDir)
	if err != nil {
		return err
	}

	data := render.ReportData{
		Title:        "Butterfly Field-Survey Report",
		GeneratedAt:  time.Now(),
		Observations: len(obs),
		Species:      len(checklist.Checklist),
		Families:     len(checklist.Families),
		Gradient:     spatial.Gradient,
		Hull:         spatial.Hull,
		Spatial:      spatial,
		Checklist:    checklist,
		Artifacts:    artifacts,
	}
	if err := render.WriteReport(filepath.Join(outDir, "survey_report.md"), data); err != nil {
		return err
	}

	endTime := time.Now()
	store.SaveStageProgress(runID, StageReport, "completed", &startTime, &endTime, 1, 0)
	fmt.Println("✅ Report stage complete.")
	return nil
}

func listArtifacts(outDir string) ([]string, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
