package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/okian/ember/internal/domain/assessment"
	"github.com/okian/ember/internal/domain/model"
)

// AssessmentDependencies defines the interface for micro-assessment
// operations.
type AssessmentDependencies interface {
	CreateAssessment(ctx context.Context, userID string, ratings assessment.Ratings, comments string) (model.MicroAssessment, error)
	Assessments(ctx context.Context, userID string, limit int) ([]model.MicroAssessment, error)
	LatestAssessment(ctx context.Context, userID string) (model.MicroAssessment, error)
	AssessmentTrend(ctx context.Context, userID string, days int) (assessment.TrendReport, error)
}

// AssessmentHandler handles micro-assessment requests.
type AssessmentHandler struct {
	deps AssessmentDependencies
}

// NewAssessmentHandler creates a new assessment handler.
func NewAssessmentHandler(deps AssessmentDependencies) *AssessmentHandler {
	return &AssessmentHandler{deps: deps}
}

type assessmentRequest struct {
	FatigueLevel     int    `json:"fatigue_level"`
	StressLevel      int    `json:"stress_level"`
	WorkSatisfaction int    `json:"work_satisfaction"`
	SleepQuality     int    `json:"sleep_quality"`
	SupportFeeling   int    `json:"support_feeling"`
	Comments         string `json:"comments"`
}

// HandleCreateAssessment handles POST /users/{id}/assessments requests.
func (h *AssessmentHandler) HandleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	a, err := h.deps.CreateAssessment(r.Context(), r.PathValue("id"), assessment.Ratings{
		Fatigue:          req.FatigueLevel,
		Stress:           req.StressLevel,
		WorkSatisfaction: req.WorkSatisfaction,
		SleepQuality:     req.SleepQuality,
		SupportFeeling:   req.SupportFeeling,
	}, req.Comments)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssessmentResponse(a))
}

// HandleListAssessments handles GET /users/{id}/assessments?limit=N requests.
func (h *AssessmentHandler) HandleListAssessments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}

	list, err := h.deps.Assessments(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssessmentResponses(list))
}

// HandleLatestAssessment handles GET /users/{id}/assessments/latest requests.
func (h *AssessmentHandler) HandleLatestAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := h.deps.LatestAssessment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssessmentResponse(a))
}

// HandleAssessmentTrend handles GET /users/{id}/assessments/trend?days=N
// requests.
func (h *AssessmentHandler) HandleAssessmentTrend(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		days = n
	}

	report, err := h.deps.AssessmentTrend(r.Context(), r.PathValue("id"), days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
