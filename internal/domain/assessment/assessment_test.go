package assessment_test

import (
	"testing"
	"time"

	assessment "github.com/okian/ember/internal/domain/assessment"
	"github.com/okian/ember/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRiskScore(t *testing.T) {
	Convey("Given the risk scoring formula", t, func() {
		Convey("When every rating is at its worst", func() {
			score := assessment.RiskScore(assessment.Ratings{
				Fatigue:          5,
				Stress:           5,
				WorkSatisfaction: 1,
				SleepQuality:     1,
				SupportFeeling:   1,
			})

			Convey("Then the normalized value clamps to the 10.0 ceiling", func() {
				// raw = (5+5)*0.6 + 5*0.15 + 5*0.15 + 5*0.10 = 8.0
				// normalized = 8.0/5*10 = 16.0 -> clamped to 10.0
				So(score, ShouldEqual, 10.0)
			})
		})

		Convey("When every rating is at its best", func() {
			score := assessment.RiskScore(assessment.Ratings{
				Fatigue:          1,
				Stress:           1,
				WorkSatisfaction: 5,
				SleepQuality:     5,
				SupportFeeling:   5,
			})

			Convey("Then the score stays low without clamping", func() {
				// raw = 2*0.6 + 1*0.15 + 1*0.15 + 1*0.10 = 1.6; normalized = 3.2
				So(score, ShouldEqual, 3.2)
			})
		})

		Convey("When scoring mid-range ratings", func() {
			score := assessment.RiskScore(assessment.Ratings{
				Fatigue:          3,
				Stress:           3,
				WorkSatisfaction: 3,
				SleepQuality:     3,
				SupportFeeling:   3,
			})

			Convey("Then the score is rounded to one decimal", func() {
				// raw = 6*0.6 + 3*0.15 + 3*0.15 + 3*0.10 = 4.8; normalized = 9.6
				So(score, ShouldEqual, 9.6)
			})
		})

		Convey("When scoring the same ratings twice", func() {
			r := assessment.Ratings{Fatigue: 2, Stress: 4, WorkSatisfaction: 3, SleepQuality: 2, SupportFeeling: 4}

			Convey("Then both scores are identical", func() {
				So(assessment.RiskScore(r), ShouldEqual, assessment.RiskScore(r))
			})
		})
	})
}

// series builds an ascending time-ordered history with the given risk scores.
func series(scores ...float64) []model.MicroAssessment {
	base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	out := make([]model.MicroAssessment, len(scores))
	for i, s := range scores {
		out[i] = model.MicroAssessment{
			FatigueLevel:     3,
			StressLevel:      3,
			WorkSatisfaction: 3,
			SleepQuality:     3,
			SupportFeeling:   3,
			RiskScore:        s,
			CreatedAt:        base.AddDate(0, 0, i),
		}
	}
	return out
}

func TestTrend(t *testing.T) {
	Convey("Given a historical assessment series", t, func() {
		Convey("When the series is empty", func() {
			_, ok := assessment.Trend(nil)

			Convey("Then no report is produced", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the series has a single data point", func() {
			report, ok := assessment.Trend(series(6.0))

			Convey("Then the direction reports insufficient data with 0% change", func() {
				So(ok, ShouldBeTrue)
				So(report.Direction, ShouldEqual, assessment.TrendInsufficient)
				So(report.PercentageChange, ShouldEqual, 0)
				So(report.DataPoints, ShouldEqual, 1)
				So(report.HighestRiskScore, ShouldEqual, 6.0)
				So(report.LowestRiskScore, ShouldEqual, 6.0)
			})
		})

		Convey("When risk scores rise over the window", func() {
			report, ok := assessment.Trend(series(4.0, 4.0, 6.0, 8.0))

			Convey("Then the trend is increasing with the right percentage", func() {
				So(ok, ShouldBeTrue)
				// first half mean = (4+4)/2 = 4, last half mean = (6+8)/2 = 7
				So(report.Direction, ShouldEqual, assessment.TrendIncreasing)
				So(report.PercentageChange, ShouldEqual, 75.0)
			})

			Convey("Then extremes cover the whole window", func() {
				So(report.HighestRiskScore, ShouldEqual, 8.0)
				So(report.LowestRiskScore, ShouldEqual, 4.0)
			})
		})

		Convey("When risk scores fall over the window", func() {
			report, _ := assessment.Trend(series(8.0, 8.0, 4.0, 4.0))

			Convey("Then the trend is decreasing", func() {
				So(report.Direction, ShouldEqual, assessment.TrendDecreasing)
				So(report.PercentageChange, ShouldEqual, 50.0)
			})
		})

		Convey("When risk scores are flat", func() {
			report, _ := assessment.Trend(series(5.0, 5.0, 5.0, 5.0))

			Convey("Then the trend is stable with no change", func() {
				So(report.Direction, ShouldEqual, assessment.TrendStable)
				So(report.PercentageChange, ShouldEqual, 0)
			})
		})

		Convey("When the series is longer than fourteen records", func() {
			scores := make([]float64, 20)
			for i := range scores {
				scores[i] = 5.0
			}
			scores[0] = 1.0  // inside the first-half cap
			scores[19] = 9.0 // inside the last-half cap
			report, _ := assessment.Trend(series(scores...))

			Convey("Then each comparison half caps at seven records", func() {
				// first half mean = (1 + 6*5)/7, last half mean = (9 + 6*5)/7
				So(report.Direction, ShouldEqual, assessment.TrendIncreasing)
				So(report.DataPoints, ShouldEqual, 20)
			})
		})

		Convey("When computing per-field averages", func() {
			report, _ := assessment.Trend(series(4.0, 6.0))

			Convey("Then each mean is rounded to one decimal", func() {
				So(report.Averages.RiskScore, ShouldEqual, 5.0)
				So(report.Averages.Fatigue, ShouldEqual, 3.0)
			})
		})
	})
}
