package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseDuration safely parses a duration string like "5m".
func ParseDuration(d string) time.Duration {
	if d == "" {
		return 5 * time.Minute
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return 5 * time.Minute
	}
	return duration
}

// ParseFloat parses a numeric column that may carry stray whitespace or
// quotes from a hand-edited table.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
	return strconv.ParseFloat(s, 64)
}

// RoundTo rounds v to the given number of decimal places. Used for the
// hotspot coordinate grid.
func RoundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// CleanHeader normalizes a CSV header cell: trims whitespace, strips
// quotes and a UTF-8 BOM if present.
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(h)
	return strings.ReplaceAll(h, `"`, "")
}
