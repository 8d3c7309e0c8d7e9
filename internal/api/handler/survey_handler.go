package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"butterfly-survey/internal/model"
	"butterfly-survey/internal/pipeline"
	"butterfly-survey/internal/store"
	"butterfly-survey/pkg/utils"

	"github.com/google/uuid"
)

// outputs resolves per-run artifact directories and download URLs.
var outputs = utils.NewOutputManager("output")

// SetOutputManager overrides the artifact base directory, for the
// entrypoint and for tests.
func SetOutputManager(om *utils.OutputManager) {
	outputs = om
}

// CreateSurvey creates a new survey report run
// @Summary Create a new survey run
// @Description Create and start a survey report run with the provided job spec
// @Tags surveys
// @Accept json
// @Produce json
// @Param survey body model.SurveyJobSpec true "Survey job spec"
// @Success 200 {object} map[string]interface{} "Run created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /surveys [post]
func CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var spec model.SurveyJobSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if spec.Source.URL == "" {
		http.Error(w, "A raw observation source is required", http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()

	// API runs get their own artifact directory under the base dir.
	if spec.Export.Dir == "" {
		runDir, err := outputs.CreateRunOutputDir(runID)
		if err != nil {
			http.Error(w, "Failed to create output directory", http.StatusInternalServerError)
			return
		}
		spec.Export.Dir = runDir
	}

	if err := store.SaveRun(runID, spec); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(spec.RunTimeout))
	go func() {
		defer cancel()
		if err := pipeline.Run(ctx, runID, spec); err != nil {
			store.SaveRunError(runID, err)
		}
	}()

	resp := map[string]interface{}{
		"message":   "Survey run created successfully!",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}
	writeJSON(w, resp)
}

// ListSurveys retrieves all survey runs
// @Summary List all survey runs
// @Description Get a list of all survey runs with their current status
// @Tags surveys
// @Produce json
// @Success 200 {array} map[string]interface{} "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /surveys [get]
func ListSurveys(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

// GetSurvey retrieves a specific survey run
// @Summary Get survey run
// @Description Retrieve spec and status of a specific survey run
// @Tags surveys
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run details"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /surveys/{id} [get]
func GetSurvey(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, run)
}

// GetSurveyErrors retrieves errors for a survey run
// @Summary Get run errors
// @Description Retrieve all errors recorded during a survey run
// @Tags surveys
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /surveys/{id}/errors [get]
func GetSurveyErrors(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	errs, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}

// GetSurveyLogs retrieves persisted log lines for a survey run
// @Summary Get run logs
// @Description Retrieve persisted log lines of a survey run
// @Tags surveys
// @Produce json
// @Param id path string true "Run ID"
// @Param limit query int false "Maximum lines to return"
// @Success 200 {object} map[string]interface{} "Run logs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /surveys/{id}/logs [get]
func GetSurveyLogs(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	limit := queryLimit(r, 100)

	logs, err := store.GetRunLogs(runID, limit)
	if err != nil {
		http.Error(w, "Failed to retrieve logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"run_id": runID,
		"logs":   logs,
		"count":  len(logs),
		"limit":  limit,
	})
}

// GetSurveyProgress retrieves per-stage progress for a survey run
// @Summary Get run progress
// @Description Retrieve per-stage progress rows of a survey run
// @Tags surveys
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Stage progress"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /surveys/{id}/progress [get]
func GetSurveyProgress(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	progress, err := store.GetStageProgress(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve progress", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"run_id":   runID,
		"progress": progress,
		"count":    len(progress),
	})
}

// GetSurveyArtifacts lists the output files of a survey run
// @Summary List run artifacts
// @Description List the tables, charts, map and report produced by a run
// @Tags surveys
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Artifact list"
// @Failure 404 {object} map[string]interface{} "Run has no artifacts"
// @Router /surveys/{id}/artifacts [get]
func GetSurveyArtifacts(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	names, err := outputs.ListRunArtifacts(runID)
	if err != nil {
		http.Error(w, "Run has no artifacts", http.StatusNotFound)
		return
	}

	artifacts := make([]model.ArtifactInfo, 0, len(names))
	for _, name := range names {
		path := filepath.Join(outputs.BaseOutputDir, runID, name)
		size, _ := outputs.GetFileSize(path)
		artifacts = append(artifacts, model.ArtifactInfo{
			Name:        name,
			Type:        outputs.GetFileType(name),
			SizeBytes:   size,
			DownloadURL: outputs.GetDownloadURL(runID, name),
		})
	}
	writeJSON(w, map[string]interface{}{
		"run_id":    runID,
		"artifacts": artifacts,
		"count":     len(artifacts),
	})
}

// DownloadArtifact serves one output file of a survey run
// @Summary Download an artifact
// @Description Download one output file of a survey run
// @Tags surveys
// @Produce octet-stream
// @Param id path string true "Run ID"
// @Param file path string true "Artifact file name"
// @Success 200 {file} file "Artifact content"
// @Failure 404 {object} map[string]interface{} "Artifact not found"
// @Router /download/{id}/{file} [get]
func DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	fileName := filepath.Base(r.PathValue("file"))
	http.ServeFile(w, r, filepath.Join(outputs.BaseOutputDir, runID, fileName))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func queryLimit(r *http.Request, def int) int {
	limit := def
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return limit
}
