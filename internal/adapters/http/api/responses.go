package api

import (
	"time"

	"github.com/okian/ember/internal/domain/model"
)

// Wire shapes for domain records. The domain structs stay tag-free; the
// API owns its own field naming.

type userResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	HealthConsent bool   `json:"health_consent"`

	Age             *int   `json:"age,omitempty"`
	Gender          string `json:"gender,omitempty"`
	MaritalStatus   string `json:"marital_status,omitempty"`
	HasChildren     *bool  `json:"has_children,omitempty"`
	Specialty       string `json:"specialty,omitempty"`
	WorkSetting     string `json:"work_setting,omitempty"`
	CareerStage     string `json:"career_stage,omitempty"`
	WorkHours       *int   `json:"work_hours,omitempty"`
	OnCallFrequency string `json:"on_call_frequency,omitempty"`
	YearsExperience *int   `json:"years_experience,omitempty"`
	PreviousBurnout *int   `json:"previous_burnout,omitempty"`
	Reasons         []int  `json:"reasons,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		HealthConsent:   u.HealthConsent,
		Age:             u.Age,
		Gender:          u.Gender,
		MaritalStatus:   u.MaritalStatus,
		HasChildren:     u.HasChildren,
		Specialty:       u.Specialty,
		WorkSetting:     u.WorkSetting,
		CareerStage:     u.CareerStage,
		WorkHours:       u.WorkHours,
		OnCallFrequency: u.OnCallFrequency,
		YearsExperience: u.YearsExperience,
		PreviousBurnout: u.PreviousBurnout,
		Reasons:         u.Reasons,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type moodResponse struct {
	ID        string    `json:"id"`
	Mood      string    `json:"mood"`
	CreatedAt time.Time `json:"created_at"`
}

func toMoodResponse(m model.Mood) moodResponse {
	return moodResponse{ID: m.ID, Mood: string(m.Mood), CreatedAt: m.CreatedAt}
}

func toMoodResponses(moods []model.Mood) []moodResponse {
	out := make([]moodResponse, len(moods))
	for i, m := range moods {
		out[i] = toMoodResponse(m)
	}
	return out
}

type testResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	EmotionalExhaustionScore    int    `json:"emotional_exhaustion_score"`
	DepersonalizationScore      int    `json:"depersonalization_score"`
	PersonalAccomplishmentScore int    `json:"personal_accomplishment_score"`
	EmotionalExhaustionLevel    string `json:"emotional_exhaustion_level,omitempty"`
	DepersonalizationLevel      string `json:"depersonalization_level,omitempty"`
	PersonalAccomplishmentLevel string `json:"personal_accomplishment_level,omitempty"`
	BurnoutLevel                string `json:"burnout_level,omitempty"`

	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

func toTestResponse(t model.Test) testResponse {
	return testResponse{
		ID:                          t.ID,
		UserID:                      t.UserID,
		EmotionalExhaustionScore:    t.EmotionalExhaustionScore,
		DepersonalizationScore:      t.DepersonalizationScore,
		PersonalAccomplishmentScore: t.PersonalAccomplishmentScore,
		EmotionalExhaustionLevel:    t.EmotionalExhaustionLevel,
		DepersonalizationLevel:      t.DepersonalizationLevel,
		PersonalAccomplishmentLevel: t.PersonalAccomplishmentLevel,
		BurnoutLevel:                t.BurnoutLevel,
		Completed:                   t.Completed,
		CreatedAt:                   t.CreatedAt,
	}
}

func toTestResponses(tests []model.Test) []testResponse {
	out := make([]testResponse, len(tests))
	for i, t := range tests {
		out[i] = toTestResponse(t)
	}
	return out
}

type sampleResponse struct {
	ID            string    `json:"id"`
	HeartRate     *float64  `json:"heart_rate,omitempty"`
	SleepDuration *float64  `json:"sleep_duration,omitempty"`
	SleepQuality  *float64  `json:"sleep_quality,omitempty"`
	Steps         *int      `json:"steps,omitempty"`
	StressLevel   *float64  `json:"stress_level,omitempty"`
	HRV           *float64  `json:"hrv,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

func toSampleResponses(samples []model.HealthSample) []sampleResponse {
	out := make([]sampleResponse, len(samples))
	for i, s := range samples {
		out[i] = sampleResponse{
			ID:            s.ID,
			HeartRate:     s.HeartRate,
			SleepDuration: s.SleepDuration,
			SleepQuality:  s.SleepQuality,
			Steps:         s.Steps,
			StressLevel:   s.StressLevel,
			HRV:           s.HRV,
			RecordedAt:    s.RecordedAt,
		}
	}
	return out
}

type assessmentResponse struct {
	ID               string    `json:"id"`
	FatigueLevel     int       `json:"fatigue_level"`
	StressLevel      int       `json:"stress_level"`
	WorkSatisfaction int       `json:"work_satisfaction"`
	SleepQuality     int       `json:"sleep_quality"`
	SupportFeeling   int       `json:"support_feeling"`
	Comments         string    `json:"comments,omitempty"`
	RiskScore        float64   `json:"burnout_risk_score"`
	CreatedAt        time.Time `json:"created_at"`
}

func toAssessmentResponse(a model.MicroAssessment) assessmentResponse {
	return assessmentResponse{
		ID:               a.ID,
		FatigueLevel:     a.FatigueLevel,
		StressLevel:      a.StressLevel,
		WorkSatisfaction: a.WorkSatisfaction,
		SleepQuality:     a.SleepQuality,
		SupportFeeling:   a.SupportFeeling,
		Comments:         a.Comments,
		RiskScore:        a.RiskScore,
		CreatedAt:        a.CreatedAt,
	}
}

func toAssessmentResponses(list []model.MicroAssessment) []assessmentResponse {
	out := make([]assessmentResponse, len(list))
	for i, a := range list {
		out[i] = toAssessmentResponse(a)
	}
	return out
}

type journalResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Analysis  string    `json:"analysis,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toJournalResponse(j model.JournalEntry) journalResponse {
	return journalResponse{
		ID:        j.ID,
		Title:     j.Title,
		Content:   j.Content,
		Analysis:  j.Analysis,
		CreatedAt: j.CreatedAt,
	}
}

func toJournalResponses(list []model.JournalEntry) []journalResponse {
	out := make([]journalResponse, len(list))
	for i, j := range list {
		out[i] = toJournalResponse(j)
	}
	return out
}
