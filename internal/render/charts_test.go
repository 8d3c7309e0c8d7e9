package render

import (
	"os"
	"path/filepath"
	"testing"

	"butterfly-survey/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPNGWritten(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestElevationBySpeciesChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elevation_by_species.png")
	summaries := []model.SpeciesSummary{
		{ScientificName: "Parnassius charltonius", MeanElevation: 3500},
		{ScientificName: "Aglais caschmirensis", MeanElevation: 2300},
		{ScientificName: "Pieris brassicae", MeanElevation: 1500},
	}
	require.NoError(t, ElevationBySpeciesChart(path, summaries))
	assertPNGWritten(t, path)
}

func TestSpeciesByFamilyChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species_by_family.png")
	families := []model.FamilySummary{
		{Family: "Nymphalidae", Species: 12},
		{Family: "Pieridae", Species: 8},
	}
	require.NoError(t, SpeciesByFamilyChart(path, families))
	assertPNGWritten(t, path)
}

func TestObservationsByMonthChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observations_by_month.png")
	months := []model.MonthlyElevation{
		{Month: 4, Observations: 10},
		{Month: 5, Observations: 25},
		{Month: 9, Observations: 4},
	}
	require.NoError(t, ObservationsByMonthChart(path, months))
	assertPNGWritten(t, path)
}

func TestChartsHandleEmptyInput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ElevationBySpeciesChart(filepath.Join(dir, "a.png"), nil))
	require.NoError(t, SpeciesByFamilyChart(filepath.Join(dir, "b.png"), nil))
	require.NoError(t, ObservationsByMonthChart(filepath.Join(dir, "c.png"), nil))
}

func TestMonthAbbrev(t *testing.T) {
	assert.Equal(t, "Jan", monthAbbrev(1))
	assert.Equal(t, "Dec", monthAbbrev(12))
	assert.Equal(t, "", monthAbbrev(0))
	assert.Equal(t, "", monthAbbrev(13))
}
