package model

import "time"

// RawSighting is one row of the raw field table exactly as read from the
// delimited file. Numeric columns stay string-typed until the clean stage.
type RawSighting struct {
	Row            int    `json:"row"` // 1-based input row index
	ScientificName string `json:"scientificName"`
	EnglishName    string `json:"englishName"`
	Family         string `json:"family"`
	Date           string `json:"date"` // day-month-year text
	Latitude       string `json:"latitude"`
	Longitude      string `json:"longitude"`
	Elevation      string `json:"elevation"`
}

// Observation is one cleaned sighting. Year, Month and Season are derived
// once at clean time and never mutated afterwards.
type Observation struct {
	Row            int       `json:"row"`
	ScientificName string    `json:"scientificName"`
	EnglishName    string    `json:"englishName"`
	Family         string    `json:"family"`
	Date           time.Time `json:"date"`
	Year           int       `json:"year"`
	Month          int       `json:"month"` // 1..12
	Season         string    `json:"season"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Elevation      float64   `json:"elevation"` // meters
}

// Season names assigned from fixed calendar-month buckets.
const (
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonAutumn = "Autumn"
	SeasonWinter = "Winter"
)

// SeasonOf maps a calendar month (1..12) to its season. Every month maps
// to exactly one season.
func SeasonOf(month int) string {
	switch month {
	case 3, 4, 5:
		return SeasonSpring
	case 6, 7, 8:
		return SeasonSummer
	case 9, 10, 11:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// Source names the raw observation table for a survey run.
type Source struct {
	Type string `json:"type"` // "csv" (local path) or "url"
	URL  string `json:"url"`
}

// Export defines where a run writes its artifacts.
type Export struct {
	Dir string `json:"dir"` // artifact output directory
	DB  string `json:"db"`  // sqlite path holding the run store and cleaned table
}

// SurveyJobSpec defines one survey report run.
type SurveyJobSpec struct {
	Source     Source   `json:"source"`
	Stages     []string `json:"stages,omitempty"` // subset of clean, spatial, checklist, report; empty = all
	Export     Export   `json:"export"`
	Delimiter  string   `json:"delimiter,omitempty"`  // input field delimiter, default ","
	RunTimeout string   `json:"runTimeout,omitempty"` // e.g. "5m"
}

// WantsStage reports whether the job spec asks for the named stage. An empty
// stage list means every stage runs.
func (s SurveyJobSpec) WantsStage(stage string) bool {
	if len(s.Stages) == 0 {
		return true
	}
	for _, st := range s.Stages {
		if st == stage {
			return true
		}
	}
	return false
}
