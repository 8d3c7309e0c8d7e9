package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"butterfly-survey/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportObservationsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir)

	obs := []model.Observation{
		obsAt(1, "Aglais caschmirensis", "Nymphalidae", 4, 35.8511, 71.7864, 2105),
		obsAt(2, "Parnassius charltonius", "Papilionidae", 7, 36.0012, 71.9233, 3600),
	}

	result := exporter.ExportObservations(obs)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, 2, result.RecordCount)

	loaded, err := ReadCleanedTable(filepath.Join(dir, "observations_clean.csv"))
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "Aglais caschmirensis", loaded[0].ScientificName)
	assert.Equal(t, "Nymphalidae", loaded[0].Family)
	assert.Equal(t, 4, loaded[0].Month)
	assert.Equal(t, model.SeasonSpring, loaded[0].Season)
	assert.InDelta(t, 35.8511, loaded[0].Latitude, 1e-6)
	assert.InDelta(t, 2105, loaded[0].Elevation, 1e-9)
	assert.Equal(t, 1, loaded[0].Row)
	assert.Equal(t, 2, loaded[1].Row)
}

func TestReadCleanedTableMissingFile(t *testing.T) {
	_, err := ReadCleanedTable(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestExportChecklistWritesAllColumns(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir)

	entries := BuildChecklist([]model.Observation{
		obsOn(1, "Vanessa cardui", "Nymphalidae", "2023-05-02"),
		obsOn(2, "Pieris brassicae", "Pieridae", "2023-04-20"),
	})

	result := exporter.ExportChecklist(entries)
	require.True(t, result.Success, result.Error)

	data, err := os.ReadFile(filepath.Join(dir, "species_checklist.csv"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "ID,Family,ScientificName")
	assert.Contains(t, content, "Vanessa cardui")
	assert.Contains(t, content, "2023-04-20")
}

func TestExportAnnotatedListJoinsPhenology(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir)

	obs := []model.Observation{
		obsOn(1, "Vanessa cardui", "Nymphalidae", "2023-04-10"),
		obsOn(2, "Vanessa cardui", "Nymphalidae", "2023-09-03"),
	}
	entries := BuildChecklist(obs)
	phenology := BuildPhenology(obs)

	result := exporter.ExportAnnotatedList(entries, phenology)
	require.True(t, result.Success, result.Error)

	data, err := os.ReadFile(filepath.Join(dir, "annotated_species_list.csv"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "April")
	assert.Contains(t, content, "September")
	assert.Contains(t, content, "species_01.jpg")
}

func TestWriteCSVFailsOnUnwritableDir(t *testing.T) {
	exporter := NewCSVExporter(filepath.Join(t.TempDir(), "f", "\x00bad"))
	result := exporter.writeCSV("x.csv", []string{"A"}, nil)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}
