// internal/research/scorer.go
package research

import "strings"

// Confidence bounds, in hundredths so repeated adjustments stay exact.
const (
	baseConfidence = 70
	markerStep     = 5
	minConfidence  = 30
	maxConfidence  = 100
)

var (
	highCertaintyMarkers = []string{"definitely", "certainly", "strongly", "clear", "obvious"}
	lowCertaintyMarkers  = []string{"might", "could", "possibly", "perhaps", "uncertain"}
)

// Score derives a heuristic trust value in [0.30, 1.00] from the wording of an
// answer. It is not a calibrated probability. Each distinct high-certainty
// marker present adds 0.05 and each distinct low-certainty marker subtracts
// 0.05, regardless of how often it occurs. Markers match as case-insensitive
// substrings, so "clearly" counts as "clear".
func Score(content string) float64 {
	lower := strings.ToLower(content)

	n := baseConfidence
	for _, m := range highCertaintyMarkers {
		if strings.Contains(lower, m) {
			n += markerStep
		}
	}
	for _, m := range lowCertaintyMarkers {
		if strings.Contains(lower, m) {
			n -= markerStep
		}
	}

	if n < minConfidence {
		n = minConfidence
	}
	if n > maxConfidence {
		n = maxConfidence
	}
	return float64(n) / 100
}

// IsActionable reports whether a confidence is high enough for an insight to be
// acted on without further review.
func IsActionable(confidence float64) bool {
	return confidence > float64(baseConfidence)/100
}
