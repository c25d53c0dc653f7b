// Package model contains domain models passed between layers.
package model

import "time"

// MoodKind enumerates the moods a subject can check in with.
type MoodKind string

// Valid mood values.
const (
	MoodFrustrated MoodKind = "frustrated"
	MoodSad        MoodKind = "sad"
	MoodCalm       MoodKind = "calm"
	MoodHappy      MoodKind = "happy"
	MoodExcited    MoodKind = "excited"
)

// Valid reports whether m is one of the known mood values.
func (m MoodKind) Valid() bool {
	switch m {
	case MoodFrustrated, MoodSad, MoodCalm, MoodHappy, MoodExcited:
		return true
	}
	return false
}

// User represents a registered subject with the extended profile fields
// collected during onboarding. Password holds the bcrypt hash, never the
// plaintext.
type User struct {
	ID            string
	Name          string
	Email         string
	Password      string
	HealthConsent bool

	Age             *int
	Gender          string
	MaritalStatus   string
	HasChildren     *bool
	Specialty       string
	WorkSetting     string
	CareerStage     string
	WorkHours       *int
	OnCallFrequency string
	YearsExperience *int
	PreviousBurnout *int
	Reasons         []int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Test is one MBI inventory run for a user. Score and level fields stay
// empty until the test is completed.
type Test struct {
	ID     string
	UserID string

	EmotionalExhaustionScore    int
	DepersonalizationScore      int
	PersonalAccomplishmentScore int
	EmotionalExhaustionLevel    string
	DepersonalizationLevel      string
	PersonalAccomplishmentLevel string
	BurnoutLevel                string

	Completed bool
	CreatedAt time.Time
}

// Response records a single answered question within a test.
type Response struct {
	ID         string
	TestID     string
	QuestionID int
	Score      int
}

// Mood is a daily mood check-in. At most one row exists per user per
// calendar day; a second check-in on the same day overwrites the first.
type Mood struct {
	ID        string
	UserID    string
	Mood      MoodKind
	CreatedAt time.Time
}

// HealthSample is one physiological reading synced from a wearable.
// Every metric is optional; nil means the device did not report it.
type HealthSample struct {
	ID            string
	UserID        string
	HeartRate     *float64
	SleepDuration *float64 // hours
	SleepQuality  *float64 // 0-1
	Steps         *int
	StressLevel   *float64 // 0-1
	HRV           *float64
	RecordedAt    time.Time
}

// MicroAssessment is a single-session self-report. RiskScore is derived
// once at creation and never recomputed.
type MicroAssessment struct {
	ID               string
	UserID           string
	FatigueLevel     int // 1-5
	StressLevel      int // 1-5
	WorkSatisfaction int // 1-5
	SleepQuality     int // 1-5
	SupportFeeling   int // 1-5
	Comments         string
	RiskScore        float64 // 1.0-10.0
	CreatedAt        time.Time
}

// JournalEntry is a free-text journal record with an optional analysis
// blob attached by the caller.
type JournalEntry struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Analysis  string
	CreatedAt time.Time
}
