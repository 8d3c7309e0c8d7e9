// Package geo computes the survey bounding region over WGS84 coordinates.
package geo

import (
	"butterfly-survey/internal/model"

	"github.com/golang/geo/s2"
)

// Mean Earth radius, meters. Matches the constant used by the S2 library
// documentation for converting steradian areas.
const earthRadiusM = 6371010.0

// ConvexHull returns the convex hull over the given points and its area
// on the WGS84 sphere. Fewer than three distinct points, or collinear
// points, yield a zero-area result with the degenerate vertex set.
func ConvexHull(points []model.LatLon) model.HullResult {
	if len(points) == 0 {
		return model.HullResult{}
	}

	query := s2.NewConvexHullQuery()
	for _, p := range points {
		query.AddPoint(s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon)))
	}
	loop := query.ConvexHull()

	var hull model.HullResult
	for _, v := range loop.Vertices() {
		ll := s2.LatLngFromPoint(v)
		hull.Vertices = append(hull.Vertices, model.LatLon{
			Lat: ll.Lat.Degrees(),
			Lon: ll.Lng.Degrees(),
		})
	}

	// A hull needs at least three vertices to enclose area; degenerate
	// loops report zero rather than a meaningless degree-squared value.
	if len(hull.Vertices) >= 3 {
		steradians := loop.Area()
		hull.AreaM2 = steradians * earthRadiusM * earthRadiusM
		if hull.AreaM2 < 0 {
			hull.AreaM2 = 0
		}
		hull.AreaKm2 = hull.AreaM2 / 1e6
	}
	return hull
}
