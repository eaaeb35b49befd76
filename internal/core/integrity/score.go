// Package integrity derives the read-side metrics of a review period:
// kept ratios, streaks, energy and the composite integrity score.
// Everything here is pure; callers pass already-fetched data.
package integrity

import "math"

// ActionWeight is how many motion units one action unit is worth.
const ActionWeight = 3

// CalculateIntegrityScore combines low-effort motion units and high-effort
// action units into a score in [0, 100]. The result is the weighted share of
// action in all logged effort, so for fixed motion it never decreases as
// action grows. Negative inputs count as zero; no effort at all scores 0.
func CalculateIntegrityScore(motionUnits, actionUnits int) int {
	m := math.Max(float64(motionUnits), 0)
	a := math.Max(float64(actionUnits), 0)
	if m == 0 && a == 0 {
		return 0
	}
	weighted := ActionWeight * a
	score := int(math.Round(100 * weighted / (weighted + m)))
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Band is the display classification of an integrity score.
type Band string

const (
	BandHigh     Band = "high"
	BandModerate Band = "moderate"
	BandWarning  Band = "warning"
)

// Band thresholds. Every surface classifies through Classify.
const (
	HighThreshold     = 80
	ModerateThreshold = 50
)

// Classify maps a score to its band: >=80 high, 50..79 moderate, <50 warning.
func Classify(score int) Band {
	switch {
	case score >= HighThreshold:
		return BandHigh
	case score >= ModerateThreshold:
		return BandModerate
	default:
		return BandWarning
	}
}

// Label is the human-readable band name.
func (b Band) Label() string {
	switch b {
	case BandHigh:
		return "High integrity"
	case BandModerate:
		return "Moderate integrity"
	default:
		return "Integrity warning"
	}
}
