package pipeline

import (
	"context"
	"fmt"

	"butterfly-survey/internal/model"
	"butterfly-survey/pkg/utils"
)

// ValidateSightings checks every raw row before cleaning. The invariant
// is that coordinates and elevation are non-null numerics within
// plausible ranges; a violation is fatal for the whole run.
func ValidateSightings(ctx context.Context, in <-chan model.RawSighting, out chan<- model.RawSighting, errs chan<- error) {
	defer close(out)

	validCount := 0
	for raw := range in {
		if err := validateSighting(raw); err != nil {
			errs <- fmt.Errorf("validation failed at row %d: %w", raw.Row, err)
			return
		}
		select {
		case <-ctx.Done():
			return
		case out <- raw:
			validCount++
		}
	}
	fmt.Printf("🔍 Validation Summary: %d valid rows\n", validCount)
}

func validateSighting(raw model.RawSighting) error {
	if raw.ScientificName == "" {
		return fmt.Errorf("missing scientific name")
	}
	if raw.Family == "" {
		return fmt.Errorf("missing family")
	}
	if raw.Date == "" {
		return fmt.Errorf("missing date")
	}

	lat, err := utils.ParseFloat(raw.Latitude)
	if err != nil {
		return fmt.Errorf("latitude %q is not numeric", raw.Latitude)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}

	lon, err := utils.ParseFloat(raw.Longitude)
	if err != nil {
		return fmt.Errorf("longitude %q is not numeric", raw.Longitude)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v out of range", lon)
	}

	if _, err := utils.ParseFloat(raw.Elevation); err != nil {
		return fmt.Errorf("elevation %q is not numeric", raw.Elevation)
	}
	return nil
}
