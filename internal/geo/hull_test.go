package geo

import (
	"testing"

	"butterfly-survey/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvexHullEmpty(t *testing.T) {
	hull := ConvexHull(nil)
	assert.Empty(t, hull.Vertices)
	assert.Zero(t, hull.AreaKm2)
}

func TestConvexHullSinglePoint(t *testing.T) {
	hull := ConvexHull([]model.LatLon{{Lat: 35.85, Lon: 71.78}})
	assert.Zero(t, hull.AreaKm2)
}

func TestConvexHullCollinearPointsHaveNoArea(t *testing.T) {
	points := []model.LatLon{
		{Lat: 35.80, Lon: 71.70},
		{Lat: 35.85, Lon: 71.70},
		{Lat: 35.90, Lon: 71.70},
	}
	hull := ConvexHull(points)
	assert.InDelta(t, 0, hull.AreaKm2, 0.01)
}

func TestConvexHullQuadrilateralArea(t *testing.T) {
	// A 0.1 by 0.1 degree cell near 35.85N spans roughly 100 km2 on the
	// sphere: R^2 * dLon * (sin(lat2) - sin(lat1)).
	points := []model.LatLon{
		{Lat: 35.8, Lon: 71.7},
		{Lat: 35.9, Lon: 71.7},
		{Lat: 35.9, Lon: 71.8},
		{Lat: 35.8, Lon: 71.8},
	}
	hull := ConvexHull(points)
	require.GreaterOrEqual(t, len(hull.Vertices), 3)
	assert.InDelta(t, 100.2, hull.AreaKm2, 3.0)
	assert.InDelta(t, hull.AreaM2/1e6, hull.AreaKm2, 1e-9)
}

func TestConvexHullInteriorPointExcluded(t *testing.T) {
	points := []model.LatLon{
		{Lat: 35.8, Lon: 71.7},
		{Lat: 35.9, Lon: 71.7},
		{Lat: 35.9, Lon: 71.8},
		{Lat: 35.8, Lon: 71.8},
		{Lat: 35.85, Lon: 71.75}, // interior
	}
	hull := ConvexHull(points)
	for _, v := range hull.Vertices {
		assert.False(t, v.Lat > 35.84 && v.Lat < 35.86 && v.Lon > 71.74 && v.Lon < 71.76,
			"interior point must not be a hull vertex")
	}
}
