package assessment

import (
	"github.com/okian/ember/internal/domain/model"
)

// Trend directions.
const (
	TrendIncreasing   = "increasing"
	TrendDecreasing   = "decreasing"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient data"
)

// halfWindowCap limits each comparison half to the first or last seven
// records when the series is long enough.
const halfWindowCap = 7

// Averages holds the per-field means over a trend window, each rounded to
// one decimal.
type Averages struct {
	Fatigue          float64 `json:"fatigue_level"`
	Stress           float64 `json:"stress_level"`
	WorkSatisfaction float64 `json:"work_satisfaction"`
	SleepQuality     float64 `json:"sleep_quality"`
	SupportFeeling   float64 `json:"support_feeling"`
	RiskScore        float64 `json:"burnout_risk_score"`
}

// TrendReport compares the first and last halves of a historical series.
// It is recomputed fresh on every query and never cached.
type TrendReport struct {
	Averages         Averages `json:"average_scores"`
	Direction        string   `json:"direction"`
	PercentageChange float64  `json:"percentage_change"`
	DataPoints       int      `json:"data_points"`
	HighestRiskScore float64  `json:"highest_risk_score"`
	LowestRiskScore  float64  `json:"lowest_risk_score"`
}

// Trend analyzes a time-ordered series of prior assessments. Fewer than
// two data points reports an insufficient-data direction with 0% change.
// The series must already be filtered to the caller's lookback window and
// sorted ascending by creation time.
func Trend(series []model.MicroAssessment) (TrendReport, bool) {
	if len(series) == 0 {
		return TrendReport{}, false
	}

	report := TrendReport{
		Averages:   averages(series),
		DataPoints: len(series),
	}

	report.HighestRiskScore = series[0].RiskScore
	report.LowestRiskScore = series[0].RiskScore
	for _, a := range series[1:] {
		if a.RiskScore > report.HighestRiskScore {
			report.HighestRiskScore = a.RiskScore
		}
		if a.RiskScore < report.LowestRiskScore {
			report.LowestRiskScore = a.RiskScore
		}
	}

	if len(series) < 2 {
		report.Direction = TrendInsufficient
		return report, true
	}

	// Compare the first and last halves, each capped at seven records and
	// symmetric from either end.
	half := len(series) / 2
	if half > halfWindowCap {
		half = halfWindowCap
	}
	firstMean := riskMean(series[:half])
	lastMean := riskMean(series[len(series)-half:])

	switch {
	case lastMean > firstMean:
		report.Direction = TrendIncreasing
	case lastMean < firstMean:
		report.Direction = TrendDecreasing
	default:
		report.Direction = TrendStable
	}

	if firstMean > 0 {
		diff := lastMean - firstMean
		if diff < 0 {
			diff = -diff
		}
		report.PercentageChange = round1(diff / firstMean * 100)
	}

	return report, true
}

func averages(series []model.MicroAssessment) Averages {
	var a Averages
	for _, s := range series {
		a.Fatigue += float64(s.FatigueLevel)
		a.Stress += float64(s.StressLevel)
		a.WorkSatisfaction += float64(s.WorkSatisfaction)
		a.SleepQuality += float64(s.SleepQuality)
		a.SupportFeeling += float64(s.SupportFeeling)
		a.RiskScore += s.RiskScore
	}
	n := float64(len(series))
	a.Fatigue = round1(a.Fatigue / n)
	a.Stress = round1(a.Stress / n)
	a.WorkSatisfaction = round1(a.WorkSatisfaction / n)
	a.SleepQuality = round1(a.SleepQuality / n)
	a.SupportFeeling = round1(a.SupportFeeling / n)
	a.RiskScore = round1(a.RiskScore / n)
	return a
}

func riskMean(series []model.MicroAssessment) float64 {
	var sum float64
	for _, s := range series {
		sum += s.RiskScore
	}
	return sum / float64(len(series))
}
