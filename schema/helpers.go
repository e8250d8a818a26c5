package schema

import (
	"fmt"
	"math"
	"strings"
)

// Round1 rounds x to one decimal place, half away from zero for non-negative input.
func Round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// Share returns 100*part/whole at full precision, or 0 when whole is 0.
func Share(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// FormatPercent renders a percentage with one decimal, e.g. "85.7%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// RangeLabel joins two period labels the way the dashboard shows a date window.
func RangeLabel(start, end string) string {
	return start + " - " + end
}

// NormalizeDatasetID lowercases and trims a user-supplied dataset name.
func NormalizeDatasetID(s string) DatasetID {
	return DatasetID(strings.ToLower(strings.TrimSpace(s)))
}
