package pipeline

import (
	"testing"
	"time"

	"butterfly-survey/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obsAt(row int, name, family string, month int, lat, lon, elev float64) model.Observation {
	date := time.Date(2023, time.Month(month), 10+row%15, 0, 0, 0, 0, time.UTC)
	return model.Observation{
		Row:            row,
		ScientificName: name,
		EnglishName:    name + " (en)",
		Family:         family,
		Date:           date,
		Year:           date.Year(),
		Month:          month,
		Season:         model.SeasonOf(month),
		Latitude:       lat,
		Longitude:      lon,
		Elevation:      elev,
	}
}

func TestSummarizeElevationBySpecies(t *testing.T) {
	obs := []model.Observation{
		obsAt(1, "Parnassius charltonius", "Papilionidae", 6, 36.0, 71.9, 3400),
		obsAt(2, "Parnassius charltonius", "Papilionidae", 7, 36.0, 71.9, 3600),
		obsAt(3, "Pieris brassicae", "Pieridae", 5, 35.8, 71.7, 1500),
	}

	summaries := SummarizeElevationBySpecies(obs)
	require.Len(t, summaries, 2)

	// Sorted descending by mean elevation.
	assert.Equal(t, "Parnassius charltonius", summaries[0].ScientificName)
	assert.Equal(t, 2, summaries[0].Count)
	assert.InDelta(t, 3400, summaries[0].MinElevation, 1e-9)
	assert.InDelta(t, 3500, summaries[0].MeanElevation, 1e-9)
	assert.InDelta(t, 3600, summaries[0].MaxElevation, 1e-9)

	for _, s := range summaries {
		assert.LessOrEqual(t, s.MinElevation, s.MeanElevation)
		assert.LessOrEqual(t, s.MeanElevation, s.MaxElevation)
		assert.False(t, s.LastSeen.Before(s.FirstSeen))
	}
}

func TestSummarizeElevationBySpeciesEmpty(t *testing.T) {
	assert.Empty(t, SummarizeElevationBySpecies(nil))
}

func TestElevationGradient(t *testing.T) {
	obs := []model.Observation{
		obsAt(1, "a", "F", 5, 35.8, 71.7, 2105),
		obsAt(2, "b", "F", 6, 35.8, 71.7, 2400),
		obsAt(3, "c", "F", 7, 35.8, 71.7, 2571),
	}
	assert.InDelta(t, 466, ElevationGradient(obs), 1e-9)
	assert.Zero(t, ElevationGradient(nil))
}

func TestBuildHotspotsBinsAtThreeDecimals(t *testing.T) {
	// Two observations 0.0001 degrees apart share a cell; the third is in
	// its own cell with a single species.
	obs := []model.Observation{
		obsAt(1, "Aglais caschmirensis", "Nymphalidae", 5, 35.85112, 71.78641, 2100),
		obsAt(2, "Vanessa cardui", "Nymphalidae", 5, 35.85118, 71.78644, 2100),
		obsAt(3, "Vanessa cardui", "Nymphalidae", 6, 36.10000, 71.90000, 2800),
	}

	hotspots := BuildHotspots(obs)
	require.Len(t, hotspots, 2)

	// The two-species cell ranks first.
	assert.Equal(t, 2, hotspots[0].Species)
	assert.Equal(t, 2, hotspots[0].Observations)
	assert.InDelta(t, 35.851, hotspots[0].Latitude, 1e-9)
	assert.InDelta(t, 71.786, hotspots[0].Longitude, 1e-9)

	assert.Equal(t, 1, hotspots[1].Species)
	assert.Equal(t, 1, hotspots[1].Observations)
}

func TestMonthlyElevationProfile(t *testing.T) {
	obs := []model.Observation{
		obsAt(1, "a", "F", 4, 35.8, 71.7, 2000),
		obsAt(2, "b", "F", 4, 35.8, 71.7, 2200),
		obsAt(3, "c", "F", 9, 35.8, 71.7, 2600),
	}

	months := MonthlyElevationProfile(obs)
	require.Len(t, months, 2)

	assert.Equal(t, 4, months[0].Month)
	assert.Equal(t, 2, months[0].Observations)
	assert.InDelta(t, 2100, months[0].MeanElevation, 1e-9)
	assert.Greater(t, months[0].StdDev, 0.0)

	// Single-sample months report zero spread, not NaN.
	assert.Equal(t, 9, months[1].Month)
	assert.Equal(t, 1, months[1].Observations)
	assert.Zero(t, months[1].StdDev)
}

func TestFamilyColorsDeterministic(t *testing.T) {
	obs := []model.Observation{
		obsAt(1, "a", "Pieridae", 5, 35.8, 71.7, 1500),
		obsAt(2, "b", "Nymphalidae", 5, 35.8, 71.7, 1600),
		obsAt(3, "c", "Lycaenidae", 5, 35.8, 71.7, 1700),
	}

	colors := FamilyColors(obs)
	require.Len(t, colors, 3)

	// Assignment follows sorted family names, independent of input order.
	assert.Equal(t, familyPalette[0], colors["Lycaenidae"])
	assert.Equal(t, familyPalette[1], colors["Nymphalidae"])
	assert.Equal(t, familyPalette[2], colors["Pieridae"])
}

func TestBuildMarkers(t *testing.T) {
	obs := []model.Observation{
		obsAt(1, "Aglais caschmirensis", "Nymphalidae", 4, 35.8511, 71.7864, 2105),
	}

	markers := BuildMarkers(obs)
	require.Len(t, markers, 1)
	assert.Equal(t, "Nymphalidae", markers[0].Family)
	assert.NotEmpty(t, markers[0].Color)
	assert.Contains(t, markers[0].Label, "Aglais caschmirensis")
	assert.Contains(t, markers[0].Label, "2105 m")
}

func TestSummarizeSpatialEmptyTable(t *testing.T) {
	spatial := SummarizeSpatial(nil)
	assert.Empty(t, spatial.BySpecies)
	assert.Empty(t, spatial.Hotspots)
	assert.Empty(t, spatial.ByMonth)
	assert.Empty(t, spatial.Markers)
	assert.Zero(t, spatial.Hull.AreaKm2)
	assert.Zero(t, spatial.Gradient)
}
