package health

import "fmt"

// Rule thresholds for recommendations.
const (
	elevatedRestingHR = 75
	lowHRV            = 40
	shortSleepHours   = 7
	highStress        = 0.7 // stress is normalized 0-1
)

// Recommendation is one piece of rule-based advice.
type Recommendation struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// recommend evaluates every rule independently and emits all matches.
// When nothing matches it emits a single generic recommendation so the
// list is never empty.
func recommend(in Insights) []Recommendation {
	var out []Recommendation

	if in.AverageRestingHeartRate != nil && *in.AverageRestingHeartRate > elevatedRestingHR {
		out = append(out, Recommendation{
			Category:    "heart_rate",
			Title:       "Your resting heart rate is elevated",
			Description: "A resting heart rate above 75 bpm may indicate higher stress levels.",
			Action:      "Try daily deep breathing exercises for 5 minutes to help lower your heart rate.",
		})
	}

	if in.AverageHRV != nil && *in.AverageHRV < lowHRV {
		out = append(out, Recommendation{
			Category:    "stress",
			Title:       "Your heart rate variability is low",
			Description: "Low HRV is associated with increased stress and burnout.",
			Action:      "Consider adding 20 minutes of meditation to your daily routine.",
		})
	}

	if in.AverageSleep != nil && *in.AverageSleep < shortSleepHours {
		out = append(out, Recommendation{
			Category:    "sleep",
			Title:       "You're not getting enough sleep",
			Description: fmt.Sprintf("Your average of %.1f hours is below the recommended 7-9 hours.", *in.AverageSleep),
			Action:      "Try establishing a consistent sleep schedule, even on weekends.",
		})
	}

	if in.AverageStress != nil && *in.AverageStress > highStress {
		out = append(out, Recommendation{
			Category:    "stress",
			Title:       "Your stress levels are high",
			Description: "Continuous high stress can contribute to burnout over time.",
			Action:      "Schedule regular breaks during your workday, even if just for 5 minutes.",
		})
	}

	if len(out) == 0 {
		out = append(out, Recommendation{
			Category:    "general",
			Title:       "Maintain your wellness routine",
			Description: "Your health metrics look good. Keep up your current practices.",
			Action:      "Continue monitoring your health data to catch any changes early.",
		})
	}

	return out
}
