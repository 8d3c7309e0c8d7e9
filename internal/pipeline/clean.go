package pipeline

import (
	"context"
	"fmt"
	"time"

	"butterfly-survey/internal/model"
	"butterfly-survey/pkg/utils"
)

// Date layouts accepted for the day-month-year text column.
var dateLayouts = []string{
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2-Jan-2006",
}

// CleanSightings turns validated raw rows into typed observations:
// parses the date, coerces numerics and derives year, month and season.
// No row is ever dropped; the first unparseable date aborts the run.
func CleanSightings(ctx context.Context, in <-chan model.RawSighting, out chan<- model.Observation, errs chan<- error) {
	defer close(out)

	cleanedCount := 0
	for raw := range in {
		obs, err := cleanSighting(raw)
		if err != nil {
			errs <- fmt.Errorf("clean failed at row %d: %w", raw.Row, err)
			return
		}
		select {
		case <-ctx.Done():
			return
		case out <- obs:
			cleanedCount++
		}
	}
	fmt.Printf("🔄 Clean Summary: %d rows cleaned\n", cleanedCount)
}

func cleanSighting(raw model.RawSighting) (model.Observation, error) {
	date, err := ParseObservationDate(raw.Date)
	if err != nil {
		return model.Observation{}, err
	}

	// Numerics were range-checked during validation; parse errors here
	// would mean the two stages disagree, which is still fatal.
	lat, err := utils.ParseFloat(raw.Latitude)
	if err != nil {
		return model.Observation{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := utils.ParseFloat(raw.Longitude)
	if err != nil {
		return model.Observation{}, fmt.Errorf("longitude: %w", err)
	}
	elev, err := utils.ParseFloat(raw.Elevation)
	if err != nil {
		return model.Observation{}, fmt.Errorf("elevation: %w", err)
	}

	month := int(date.Month())
	return model.Observation{
		Row:            raw.Row,
		ScientificName: raw.ScientificName,
		EnglishName:    raw.EnglishName,
		Family:         raw.Family,
		Date:           date,
		Year:           date.Year(),
		Month:          month,
		Season:         model.SeasonOf(month),
		Latitude:       lat,
		Longitude:      lon,
		Elevation:      elev,
	}, nil
}

// ParseObservationDate parses the day-month-year date text of a raw row.
func ParseObservationDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
