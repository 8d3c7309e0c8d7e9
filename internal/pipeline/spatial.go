package pipeline

import (
	"fmt"
	"sort"

	"butterfly-survey/internal/geo"
	"butterfly-survey/internal/model"
	"butterfly-survey/pkg/utils"

	"gonum.org/v1/gonum/stat"
)

// Coordinate precision for hotspot binning: 3 decimals is roughly a
// 110 m grid cell at the equator.
const hotspotPrecision = 3

// Marker colors assigned to families in sorted-name order, so the
// family→color mapping is deterministic across runs.
var familyPalette = []string{
	"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00",
	"#a65628", "#f781bf", "#17becf", "#666666",
}

// SummarizeSpatial runs every Stage-2 aggregation over the cleaned
// table. All of them are independent read-only passes; an empty table
// degrades to empty results.
func SummarizeSpatial(obs []model.Observation) model.SpatialSummary {
	return model.SpatialSummary{
		BySpecies: SummarizeElevationBySpecies(obs),
		Hotspots:  BuildHotspots(obs),
		ByMonth:   MonthlyElevationProfile(obs),
		Markers:   BuildMarkers(obs),
		Hull:      SurveyHull(obs),
		Gradient:  ElevationGradient(obs),
	}
}

// SummarizeElevationBySpecies aggregates per-species elevation stats,
// sorted descending by mean elevation.
func SummarizeElevationBySpecies(obs []model.Observation) []model.SpeciesSummary {
	type acc struct {
		summary    model.SpeciesSummary
		elevations []float64
	}
	groups := make(map[string]*acc)

	for _, o := range obs {
		g, ok := groups[o.ScientificName]
		if !ok {
			g = &acc{summary: model.SpeciesSummary{
				ScientificName: o.ScientificName,
				EnglishName:    o.EnglishName,
				Family:         o.Family,
				MinElevation:   o.Elevation,
				MaxElevation:   o.Elevation,
				FirstSeen:      o.Date,
				LastSeen:       o.Date,
			}}
			groups[o.ScientificName] = g
		}
		g.summary.Count++
		g.elevations = append(g.elevations, o.Elevation)
		if o.Elevation < g.summary.MinElevation {
			g.summary.MinElevation = o.Elevation
		}
		if o.Elevation > g.summary.MaxElevation {
			g.summary.MaxElevation = o.Elevation
		}
		if o.Date.Before(g.summary.FirstSeen) {
			g.summary.FirstSeen = o.Date
		}
		if o.Date.After(g.summary.LastSeen) {
			g.summary.LastSeen = o.Date
		}
	}

	results := make([]model.SpeciesSummary, 0, len(groups))
	for _, g := range groups {
		g.summary.MeanElevation = stat.Mean(g.elevations, nil)
		results = append(results, g.summary)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].MeanElevation != results[j].MeanElevation {
			return results[i].MeanElevation > results[j].MeanElevation
		}
		return results[i].ScientificName < results[j].ScientificName
	})
	return results
}

// BuildHotspots bins observations into rounded-coordinate cells and
// ranks them by distinct species count, descending.
func BuildHotspots(obs []model.Observation) []model.Hotspot {
	type cell struct {
		hotspot model.Hotspot
		species map[string]bool
	}
	cells := make(map[string]*cell)

	for _, o := range obs {
		lat := utils.RoundTo(o.Latitude, hotspotPrecision)
		lon := utils.RoundTo(o.Longitude, hotspotPrecision)
		key := fmt.Sprintf("%.3f,%.3f", lat, lon)
		c, ok := cells[key]
		if !ok {
			c = &cell{
				hotspot: model.Hotspot{Latitude: lat, Longitude: lon},
				species: make(map[string]bool),
			}
			cells[key] = c
		}
		c.hotspot.Observations++
		c.species[o.ScientificName] = true
	}

	results := make([]model.Hotspot, 0, len(cells))
	for _, c := range cells {
		c.hotspot.Species = len(c.species)
		results = append(results, c.hotspot)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Species != results[j].Species {
			return results[i].Species > results[j].Species
		}
		if results[i].Observations != results[j].Observations {
			return results[i].Observations > results[j].Observations
		}
		if results[i].Latitude != results[j].Latitude {
			return results[i].Latitude < results[j].Latitude
		}
		return results[i].Longitude < results[j].Longitude
	})
	return results
}

// MonthlyElevationProfile computes per-month observation counts and
// mean/standard-deviation elevation, in calendar order.
func MonthlyElevationProfile(obs []model.Observation) []model.MonthlyElevation {
	byMonth := make(map[int][]float64)
	for _, o := range obs {
		byMonth[o.Month] = append(byMonth[o.Month], o.Elevation)
	}

	var results []model.MonthlyElevation
	for month := 1; month <= 12; month++ {
		elevs, ok := byMonth[month]
		if !ok {
			continue
		}
		m := model.MonthlyElevation{
			Month:         month,
			Observations:  len(elevs),
			MeanElevation: stat.Mean(elevs, nil),
		}
		// StdDev of a single sample is NaN under the sample estimator;
		// report zero spread instead.
		if len(elevs) > 1 {
			m.StdDev = stat.StdDev(elevs, nil)
		}
		results = append(results, m)
	}
	return results
}

// BuildMarkers creates one map marker per observation, colored by family.
func BuildMarkers(obs []model.Observation) []model.MapMarker {
	colors := FamilyColors(obs)
	markers := make([]model.MapMarker, 0, len(obs))
	for _, o := range obs {
		markers = append(markers, model.MapMarker{
			Latitude:  o.Latitude,
			Longitude: o.Longitude,
			Color:     colors[o.Family],
			Family:    o.Family,
			Label: fmt.Sprintf("%s (%s), %s, %.0f m",
				o.ScientificName, o.EnglishName, o.Date.Format("2 Jan 2006"), o.Elevation),
		})
	}
	return markers
}

// FamilyColors assigns palette colors to families in sorted-name order.
func FamilyColors(obs []model.Observation) map[string]string {
	seen := make(map[string]bool)
	var families []string
	for _, o := range obs {
		if !seen[o.Family] {
			seen[o.Family] = true
			families = append(families, o.Family)
		}
	}
	sort.Strings(families)

	colors := make(map[string]string, len(families))
	for i, f := range families {
		colors[f] = familyPalette[i%len(familyPalette)]
	}
	return colors
}

// SurveyHull computes the convex hull over all observation coordinates.
func SurveyHull(obs []model.Observation) model.HullResult {
	points := make([]model.LatLon, 0, len(obs))
	for _, o := range obs {
		points = append(points, model.LatLon{Lat: o.Latitude, Lon: o.Longitude})
	}
	return geo.ConvexHull(points)
}

// ElevationGradient is the overall elevation span of the survey.
func ElevationGradient(obs []model.Observation) float64 {
	if len(obs) == 0 {
		return 0
	}
	min, max := obs[0].Elevation, obs[0].Elevation
	for _, o := range obs[1:] {
		if o.Elevation < min {
			min = o.Elevation
		}
		if o.Elevation > max {
			max = o.Elevation
		}
	}
	return max - min
}
