// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/ember/internal/adapters/repository"
	service "github.com/okian/ember/internal/app"
)

// SyncResult mirrors the shape returned by sample batch submissions.
type SyncResult = service.SyncResult

// RegisterInput mirrors the app-layer registration input.
type RegisterInput = service.RegisterInput

// ProfileUpdate mirrors the app-layer partial profile update.
type ProfileUpdate = service.ProfileUpdate

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AuthDependencies
	ProfileDependencies
	MoodDependencies
	TestDependencies
	HealthDataDependencies
	AssessmentDependencies
	StreakDependencies
	JournalDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	authHandler       *AuthHandler
	profileHandler    *ProfileHandler
	moodHandler       *MoodHandler
	testHandler       *TestHandler
	healthDataHandler *HealthDataHandler
	assessmentHandler *AssessmentHandler
	streakHandler     *StreakHandler
	journalHandler    *JournalHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		authHandler:       NewAuthHandler(deps),
		profileHandler:    NewProfileHandler(deps),
		moodHandler:       NewMoodHandler(deps),
		testHandler:       NewTestHandler(deps),
		healthDataHandler: NewHealthDataHandler(deps),
		assessmentHandler: NewAssessmentHandler(deps),
		streakHandler:     NewStreakHandler(deps),
		journalHandler:    NewJournalHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /auth/register", MetricsMiddleware(s.authHandler.HandleRegister, "register"))
	mux.HandleFunc("POST /auth/login", MetricsMiddleware(s.authHandler.HandleLogin, "login"))

	mux.HandleFunc("GET /users/{id}", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("PATCH /users/{id}", MetricsMiddleware(s.profileHandler.HandleUpdateProfile, "profile"))

	mux.HandleFunc("POST /users/{id}/moods", MetricsMiddleware(s.moodHandler.HandleRecordMood, "moods"))
	mux.HandleFunc("GET /users/{id}/moods", MetricsMiddleware(s.moodHandler.HandleRecentMoods, "moods"))

	mux.HandleFunc("GET /questions", MetricsMiddleware(s.testHandler.HandleQuestions, "questions"))
	mux.HandleFunc("POST /users/{id}/tests", MetricsMiddleware(s.testHandler.HandleStartTest, "tests"))
	mux.HandleFunc("POST /users/{id}/tests/{testID}/submit", MetricsMiddleware(s.testHandler.HandleSubmitTest, "tests"))
	mux.HandleFunc("GET /users/{id}/tests", MetricsMiddleware(s.testHandler.HandleListTests, "tests"))

	mux.HandleFunc("PUT /users/{id}/consent", MetricsMiddleware(s.healthDataHandler.HandleSetConsent, "consent"))
	mux.HandleFunc("POST /users/{id}/health-data", MetricsMiddleware(s.healthDataHandler.HandleSyncSamples, "health_data"))
	mux.HandleFunc("GET /users/{id}/health-report", MetricsMiddleware(s.healthDataHandler.HandleHealthReport, "health_report"))

	mux.HandleFunc("POST /users/{id}/assessments", MetricsMiddleware(s.assessmentHandler.HandleCreateAssessment, "assessments"))
	mux.HandleFunc("GET /users/{id}/assessments", MetricsMiddleware(s.assessmentHandler.HandleListAssessments, "assessments"))
	mux.HandleFunc("GET /users/{id}/assessments/latest", MetricsMiddleware(s.assessmentHandler.HandleLatestAssessment, "assessments"))
	mux.HandleFunc("GET /users/{id}/assessments/trend", MetricsMiddleware(s.assessmentHandler.HandleAssessmentTrend, "assessments"))

	mux.HandleFunc("GET /users/{id}/streaks", MetricsMiddleware(s.streakHandler.HandleStreaks, "streaks"))

	mux.HandleFunc("POST /users/{id}/journals", MetricsMiddleware(s.journalHandler.HandleCreateJournal, "journals"))
	mux.HandleFunc("GET /users/{id}/journals", MetricsMiddleware(s.journalHandler.HandleListJournals, "journals"))
	mux.HandleFunc("GET /users/{id}/journals/{entryID}", MetricsMiddleware(s.journalHandler.HandleGetJournal, "journals"))
	mux.HandleFunc("DELETE /users/{id}/journals/{entryID}", MetricsMiddleware(s.journalHandler.HandleDeleteJournal, "journals"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates app and repository sentinels to HTTP
// status codes. Unknown errors become an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err)
	case errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err)
	case errors.Is(err, service.ErrConsentRequired):
		writeError(w, http.StatusForbidden, "consent_required", err)
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, service.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
