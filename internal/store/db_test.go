package store

import (
	"path/filepath"
	"testing"
	"time"

	"butterfly-survey/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { CloseDB() })
}

func TestSaveAndGetRun(t *testing.T) {
	setupTestDB(t)

	spec := model.SurveyJobSpec{
		Source: model.Source{Type: "csv", URL: "sightings.csv"},
		Stages: []string{"clean", "spatial"},
		Export: model.Export{Dir: "out"},
	}
	require.NoError(t, SaveRun("run-1", spec))

	run, err := GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run["id"])
	assert.Equal(t, "pending", run["status"])

	got, ok := run["spec"].(model.SurveyJobSpec)
	require.True(t, ok)
	assert.Equal(t, "sightings.csv", got.Source.URL)
	assert.Equal(t, []string{"clean", "spatial"}, got.Stages)
}

func TestGetRunNotFound(t *testing.T) {
	setupTestDB(t)
	_, err := GetRun("missing")
	assert.Error(t, err)
}

func TestUpdateRunStatus(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, SaveRun("run-1", model.SurveyJobSpec{}))
	require.NoError(t, UpdateRunStatus("run-1", "completed"))

	run, err := GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", run["status"])
}

func TestListRuns(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, SaveRun("run-1", model.SurveyJobSpec{}))
	require.NoError(t, SaveRun("run-2", model.SurveyJobSpec{}))

	runs, err := ListRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunErrors(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, SaveRunError("run-1", assert.AnError))

	errs, err := GetRunErrors("run-1")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, assert.AnError.Error(), errs[0]["message"])

	// A nil error is a no-op, not a row.
	require.NoError(t, SaveRunError("run-1", nil))
	errs, err = GetRunErrors("run-1")
	require.NoError(t, err)
	assert.Len(t, errs, 1)
}

func TestStageProgress(t *testing.T) {
	setupTestDB(t)

	start := time.Now().UTC()
	require.NoError(t, SaveStageProgress("run-1", "clean", "started", &start, nil, 0, 0))
	end := start.Add(2 * time.Second)
	require.NoError(t, SaveStageProgress("run-1", "clean", "completed", &start, &end, 120, 0))

	progress, err := GetStageProgress("run-1")
	require.NoError(t, err)
	require.Len(t, progress, 2)

	assert.Equal(t, "started", progress[0].Status)
	assert.Nil(t, progress[0].EndedAt)

	assert.Equal(t, "completed", progress[1].Status)
	assert.Equal(t, 120, progress[1].Records)
	require.NotNil(t, progress[1].EndedAt)
}

func TestRunLogs(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SaveRunLog("run-1", "clean", "info", "stage started", map[string]interface{}{
		"rows": 42,
	}))
	require.NoError(t, SaveRunLog("run-1", "spatial", "info", "stage started", nil))

	logs, err := GetRunLogs("run-1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "clean", logs[0].Stage)
	assert.EqualValues(t, 42, logs[0].Fields["rows"])
	assert.Nil(t, logs[1].Fields)

	limited, err := GetRunLogs("run-1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestReplaceAndLoadObservations(t *testing.T) {
	setupTestDB(t)

	obs := []model.Observation{
		{Row: 1, ScientificName: "Vanessa cardui", Family: "Nymphalidae",
			Date: time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC), Year: 2023, Month: 5,
			Season: model.SeasonSpring, Latitude: 35.85, Longitude: 71.78, Elevation: 2100},
		{Row: 2, ScientificName: "Pieris brassicae", Family: "Pieridae",
			Date: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Year: 2023, Month: 6,
			Season: model.SeasonSummer, Latitude: 35.90, Longitude: 71.80, Elevation: 1800},
	}
	require.NoError(t, ReplaceObservations("run-1", obs))

	loaded, err := LoadObservations("run-1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Vanessa cardui", loaded[0].ScientificName)
	assert.Equal(t, model.SeasonSummer, loaded[1].Season)

	// Replace is a full swap, not an append.
	require.NoError(t, ReplaceObservations("run-1", obs[:1]))
	loaded, err = LoadObservations("run-1")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
