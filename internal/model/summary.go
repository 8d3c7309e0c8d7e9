package model

import "time"

// SpeciesSummary aggregates all observations of one scientific name.
// Regenerated fresh each run; the Observation table stays the single
// source of truth.
type SpeciesSummary struct {
	ScientificName string    `json:"scientificName"`
	EnglishName    string    `json:"englishName"`
	Family         string    `json:"family"`
	Count          int       `json:"count"`
	MinElevation   float64   `json:"minElevation"`
	MeanElevation  float64   `json:"meanElevation"`
	MaxElevation   float64   `json:"maxElevation"`
	FirstSeen      time.Time `json:"firstSeen"`
	LastSeen       time.Time `json:"lastSeen"`
}

// ChecklistEntry is the one-row-per-species reference record built from
// the earliest observation of each species.
type ChecklistEntry struct {
	ID             int       `json:"id"` // dense 1..N in {Family, ScientificName} order
	ScientificName string    `json:"scientificName"`
	EnglishName    string    `json:"englishName"`
	Family         string    `json:"family"`
	FirstDate      time.Time `json:"firstDate"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Elevation      float64   `json:"elevation"`
	Observations   int       `json:"observations"`
	PhotoFile      string    `json:"photoFile"` // species_NN.jpg
}

// Phenology records the months across which a species was active.
type Phenology struct {
	ScientificName string `json:"scientificName"`
	EnglishName    string `json:"englishName"`
	FirstMonth     int    `json:"firstMonth"`
	LastMonth      int    `json:"lastMonth"`
	MonthsActive   int    `json:"monthsActive"` // distinct months recorded
}

// FamilySummary holds species and observation counts per family.
type FamilySummary struct {
	Family         string  `json:"family"`
	Species        int     `json:"species"`
	Observations   int     `json:"observations"`
	PercentSpecies float64 `json:"percentSpecies"`
}

// Hotspot is a coordinate cell (lat/lon rounded to a fixed precision)
// ranked by how many distinct species were recorded in it.
type Hotspot struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Species      int     `json:"species"`
	Observations int     `json:"observations"`
}

// MonthlyElevation is the per-calendar-month elevation profile.
type MonthlyElevation struct {
	Month         int     `json:"month"`
	Observations  int     `json:"observations"`
	MeanElevation float64 `json:"meanElevation"`
	StdDev        float64 `json:"stdDev"`
}

// MapMarker is one map point, one per observation.
type MapMarker struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Color     string  `json:"color"` // per-family
	Label     string  `json:"label"` // species, date, elevation
	Family    string  `json:"family"`
}

// LatLon is a WGS84 coordinate pair.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HullResult is the convex hull over all observation coordinates with its
// area in projected units (never degree squared).
type HullResult struct {
	Vertices []LatLon `json:"vertices"`
	AreaKm2  float64  `json:"areaKm2"`
	AreaM2   float64  `json:"areaM2"`
}

// StageProgress tracks one pipeline stage of a run.
type StageProgress struct {
	Stage     string     `json:"stage"`
	Status    string     `json:"status"` // started, completed, failed
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Records   int        `json:"records"`
	Errors    int        `json:"errors"`
}

// RunLogEntry is one persisted log line of a run.
type RunLogEntry struct {
	Stage     string         `json:"stage"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ExportResult reports one written artifact.
type ExportResult struct {
	Type        string    `json:"type"` // "csv", "png", "html", "md"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

// ArtifactInfo describes a downloadable output file of a run.
type ArtifactInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	SizeBytes   int64  `json:"sizeBytes"`
	DownloadURL string `json:"downloadUrl"`
}

// SpatialSummary bundles every Stage-2 aggregation.
type SpatialSummary struct {
	BySpecies []SpeciesSummary   `json:"bySpecies"` // sorted desc by mean elevation
	Hotspots  []Hotspot          `json:"hotspots"`  // sorted desc by distinct species
	ByMonth   []MonthlyElevation `json:"byMonth"`
	Markers   []MapMarker        `json:"markers"`
	Hull      HullResult         `json:"hull"`
	Gradient  float64            `json:"gradient"` // overall max-min elevation, meters
}

// ChecklistSummary bundles every Stage-3 aggregation.
type ChecklistSummary struct {
	Checklist []ChecklistEntry `json:"checklist"`
	Phenology []Phenology      `json:"phenology"`
	Families  []FamilySummary  `json:"families"`
	Notable   []ChecklistEntry `json:"notable"` // name-substring matches
}
