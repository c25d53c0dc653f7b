// Package health derives summary statistics, risk estimates, and
// recommendations from windows of raw physiological samples.
package health

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/okian/ember/internal/domain/model"
)

// Default analyzer configuration constants.
const (
	// restingSampleSize is how many of a day's lowest heart-rate readings
	// feed the resting estimate. The lowest readings approximate the true
	// resting rate; an all-day mean is skewed upward by activity.
	restingSampleSize = 5

	// minSleepSamples is the minimum number of sleep readings required
	// before a consistency score is produced.
	minSleepSamples = 3

	sleepConsistencyCeiling = 100
	sleepVarianceWeight     = 10
)

// Composite risk weights and scaling.
const (
	riskWeightHeartRate = 0.3
	riskWeightHRV       = 0.4
	riskWeightSleep     = 0.3
	riskScale           = 10
)

// Insights summarizes one analysis window. Nil pointers mean the window
// held too little data for that statistic; a nil is never the same thing
// as a numeric zero.
type Insights struct {
	AverageHeartRate        *float64 `json:"average_heart_rate"`
	AverageRestingHeartRate *float64 `json:"average_resting_heart_rate"`
	AverageSleep            *float64 `json:"average_sleep"`
	AverageStress           *float64 `json:"average_stress"`
	AverageHRV              *float64 `json:"average_hrv"`
	SleepConsistency        *float64 `json:"sleep_consistency"`
	BurnoutRisk             *float64 `json:"burnout_risk_from_health_data"`
	DataQuality             float64  `json:"data_quality"`
}

// Report is the full analysis result: the sample series echoed back, the
// derived insights, and the matching recommendations.
type Report struct {
	Data            []model.HealthSample `json:"data"`
	Insights        Insights             `json:"insights"`
	Recommendations []Recommendation     `json:"recommendations"`
}

// Analyzer computes window reports from raw samples. It is stateless and
// safe for concurrent use.
type Analyzer struct{}

// NewAnalyzer creates an analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze derives insights and recommendations from a time-ordered sample
// window. It never fails: each statistic degrades to nil independently
// when its inputs are missing.
func (a *Analyzer) Analyze(_ context.Context, samples []model.HealthSample, windowDays int) Report {
	heartRates := collect(samples, func(s model.HealthSample) *float64 { return s.HeartRate })
	sleeps := collect(samples, func(s model.HealthSample) *float64 { return s.SleepDuration })
	stresses := collect(samples, func(s model.HealthSample) *float64 { return s.StressLevel })
	hrvs := collect(samples, func(s model.HealthSample) *float64 { return s.HRV })

	insights := Insights{
		AverageHeartRate:        mean(heartRates),
		AverageRestingHeartRate: restingHeartRate(samples),
		AverageSleep:            mean(sleeps),
		AverageStress:           mean(stresses),
		AverageHRV:              mean(hrvs),
		SleepConsistency:        sleepConsistency(sleeps),
		DataQuality:             dataQuality(len(samples), windowDays),
	}
	insights.BurnoutRisk = burnoutRisk(insights.AverageRestingHeartRate, insights.AverageHRV, insights.AverageSleep)

	return Report{
		Data:            samples,
		Insights:        insights,
		Recommendations: recommend(insights),
	}
}

// collect extracts the non-nil values of one metric from a sample series.
func collect(samples []model.HealthSample, field func(model.HealthSample) *float64) []float64 {
	var out []float64
	for _, s := range samples {
		if v := field(s); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// mean returns the average of values, or nil when there are none.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

// restingHeartRate groups heart-rate readings by calendar date, averages
// the lowest readings within each day, and returns the mean of those
// per-day averages. Days without a reading contribute nothing.
func restingHeartRate(samples []model.HealthSample) *float64 {
	byDay := make(map[time.Time][]float64)
	for _, s := range samples {
		if s.HeartRate == nil {
			continue
		}
		day := s.RecordedAt.UTC().Truncate(24 * time.Hour)
		byDay[day] = append(byDay[day], *s.HeartRate)
	}

	var perDay []float64
	for _, rates := range byDay {
		sort.Float64s(rates)
		n := restingSampleSize
		if len(rates) < n {
			n = len(rates)
		}
		var sum float64
		for _, r := range rates[:n] {
			sum += r
		}
		perDay = append(perDay, sum/float64(n))
	}
	return mean(perDay)
}

// sleepConsistency scores how stable sleep duration is across the window.
// Requires more than minSleepSamples readings; lower variance scores
// higher, capped to [0, 100].
func sleepConsistency(sleeps []float64) *float64 {
	if len(sleeps) <= minSleepSamples {
		return nil
	}
	avg := *mean(sleeps)
	var variance float64
	for _, d := range sleeps {
		variance += (d - avg) * (d - avg)
	}
	variance /= float64(len(sleeps))

	score := math.Max(0, sleepConsistencyCeiling-variance*sleepVarianceWeight)
	return &score
}

// burnoutRisk combines resting heart rate, HRV, and sleep into a 0-10
// composite. All three inputs are required; a missing one yields nil
// rather than zero.
func burnoutRisk(restingHR, avgHRV, avgSleep *float64) *float64 {
	if restingHR == nil || avgHRV == nil || avgSleep == nil {
		return nil
	}
	hrFactor := clamp01((*restingHR - 50) * 2 / 100)   // higher resting HR, higher risk
	hrvFactor := clamp01((100 - *avgHRV) / 100)        // lower HRV, higher risk
	sleepFactor := clamp01((8 - *avgSleep) * 20 / 100) // less sleep, higher risk

	risk := (riskWeightHeartRate*hrFactor + riskWeightHRV*hrvFactor + riskWeightSleep*sleepFactor) * riskScale
	return &risk
}

// dataQuality is the sample density over the window.
func dataQuality(sampleCount, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	return float64(sampleCount) / float64(windowDays)
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
