package seedtool

import "time"

// Config holds configuration for the seed run
type Config struct {
	BaseURL    string        // Base URL of the service
	NumUsers   int           // Number of users to seed
	Days       int           // Days of health history per user
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for seeded credentials
	LogFile    string        // Log file for seed output
	Verbose    bool          // Enable verbose logging
}

// SeedUser represents one generated user together with the
// day-by-day wellness data the tool will post on their behalf.
type SeedUser struct {
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Password   string         `json:"password"`
	Persona    string         `json:"persona"`
	ID         string         `json:"id,omitempty"`
	Mood       string         `json:"mood"`
	Assessment CheckInRequest `json:"assessment"`
	Samples    []Sample       `json:"samples"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the subset of the register response the tool needs.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// MoodRequest is the payload for POST /users/{id}/moods.
type MoodRequest struct {
	Mood string `json:"mood"`
}

// ConsentRequest is the payload for PUT /users/{id}/consent.
type ConsentRequest struct {
	Consent bool `json:"consent"`
}

// CheckInRequest is the payload for POST /users/{id}/assessments.
type CheckInRequest struct {
	FatigueLevel     int    `json:"fatigue_level"`
	StressLevel      int    `json:"stress_level"`
	WorkSatisfaction int    `json:"work_satisfaction"`
	SleepQuality     int    `json:"sleep_quality"`
	SupportFeeling   int    `json:"support_feeling"`
	Comments         string `json:"comments"`
}

// Sample is one health sample for POST /users/{id}/health-data.
type Sample struct {
	HeartRate     float64 `json:"heart_rate"`
	SleepDuration float64 `json:"sleep_duration"`
	SleepQuality  float64 `json:"sleep_quality"`
	Steps         int     `json:"steps"`
	StressLevel   float64 `json:"stress_level"`
	HRV           float64 `json:"hrv"`
	RecordedAt    string  `json:"recorded_at"`
}

// SyncRequest is the payload for POST /users/{id}/health-data.
type SyncRequest struct {
	Samples []Sample `json:"samples"`
}

// SyncResponse is the response from health data submission.
type SyncResponse struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
}

// StreakResponse is the response from GET /users/{id}/streaks.
type StreakResponse struct {
	CurrentStreak  int `json:"currentStreak"`
	LongestStreak  int `json:"longestStreak"`
	WeeklyCheckIns int `json:"weeklyCheckIns"`
}

// Stats holds seed run statistics
type Stats struct {
	UsersGenerated     int
	UsersRegistered    int
	MoodsRecorded      int
	AssessmentsCreated int
	SamplesAccepted    int
	SamplesDuplicate   int
	RequestsFailed     int
	StreaksVerified    int
	StreaksFailed      int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
