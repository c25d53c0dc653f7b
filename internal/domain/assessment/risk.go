// Package assessment scores single-session self-reports and derives
// trends over historical series.
package assessment

import "math"

// Risk formula weights. Fatigue and stress drive the score up; the
// remaining three ratings are inverted so that better answers pull it
// down.
const (
	weightFatigueStress = 0.6
	weightSatisfaction  = 0.15
	weightSleepQuality  = 0.15
	weightSupport       = 0.10

	ratingCeiling = 6 // inversion base for 1-5 ratings

	riskFloor = 1.0
	riskCeil  = 10.0
)

// Ratings holds the five 1-5 ordinal answers of one micro-assessment.
type Ratings struct {
	Fatigue          int
	Stress           int
	WorkSatisfaction int
	SleepQuality     int
	SupportFeeling   int
}

// RiskScore converts the ratings into a 1.0-10.0 burnout risk score,
// rounded to one decimal. The computation is pure; a given set of ratings
// always yields the same score.
func RiskScore(r Ratings) float64 {
	raw := float64(r.Fatigue+r.Stress)*weightFatigueStress +
		float64(ratingCeiling-r.WorkSatisfaction)*weightSatisfaction +
		float64(ratingCeiling-r.SleepQuality)*weightSleepQuality +
		float64(ratingCeiling-r.SupportFeeling)*weightSupport

	normalized := raw / 5 * 10
	clamped := math.Max(riskFloor, math.Min(riskCeil, normalized))
	return round1(clamped)
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
