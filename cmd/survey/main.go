package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"butterfly-survey/internal/model"
	"butterfly-survey/internal/pipeline"
	"butterfly-survey/internal/store"

	"github.com/google/uuid"
)

func main() {
	specPath := flag.String("spec", "survey.json", "path to the survey job spec (JSON)")
	flag.Parse()

	spec, err := loadSpec(*specPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	dbPath := spec.Export.DB
	if dbPath == "" {
		dbPath = "survey.db"
	}
	if err := store.InitDB(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "❌ failed to open run store: %v\n", err)
		os.Exit(1)
	}
	defer store.CloseDB()

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		fmt.Fprintf(os.Stderr, "❌ failed to save run: %v\n", err)
		os.Exit(1)
	}

	if err := pipeline.Run(context.Background(), runID, spec); err != nil {
		fmt.Fprintf(os.Stderr, "❌ run %s failed: %v\n", runID, err)
		os.Exit(1)
	}
}

func loadSpec(path string) (model.SurveyJobSpec, error) {
	var spec model.SurveyJobSpec
	data, err := os.ReadFile(path)
	if err != nil {
		return spec, fmt.Errorf("failed to read job spec %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("failed to parse job spec %s: %w", path, err)
	}
	if spec.Source.URL == "" {
		return spec, fmt.Errorf("job spec %s has no source", path)
	}
	return spec, nil
}
