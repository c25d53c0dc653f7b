package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/ember/internal/domain/health"
	"github.com/okian/ember/internal/domain/model"
)

// HealthDataDependencies defines the interface for wearable data operations.
type HealthDataDependencies interface {
	SetConsent(ctx context.Context, userID string, consent bool) (model.User, error)
	SyncSamples(ctx context.Context, userID string, samples []model.HealthSample) (SyncResult, error)
	HealthReport(ctx context.Context, userID string, windowDays int) (health.Report, error)
}

// HealthDataHandler handles wearable data requests.
type HealthDataHandler struct {
	deps HealthDataDependencies
}

// NewHealthDataHandler creates a new health data handler.
func NewHealthDataHandler(deps HealthDataDependencies) *HealthDataHandler {
	return &HealthDataHandler{deps: deps}
}

type consentRequest struct {
	Consent *bool `json:"consent"`
}

// HandleSetConsent handles PUT /users/{id}/consent requests.
func (h *HealthDataHandler) HandleSetConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Consent == nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing consent"))
		return
	}

	u, err := h.deps.SetConsent(r.Context(), r.PathValue("id"), *req.Consent)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

type sampleRequest struct {
	ID            string   `json:"id"`
	HeartRate     *float64 `json:"heart_rate"`
	SleepDuration *float64 `json:"sleep_duration"`
	SleepQuality  *float64 `json:"sleep_quality"`
	Steps         *int     `json:"steps"`
	StressLevel   *float64 `json:"stress_level"`
	HRV           *float64 `json:"hrv"`
	RecordedAt    string   `json:"recorded_at"`
}

type syncRequest struct {
	Samples []sampleRequest `json:"samples"`
}

// HandleSyncSamples handles POST /users/{id}/health-data requests.
// Accepted batches return 202; the samples are persisted asynchronously.
func (h *HealthDataHandler) HandleSyncSamples(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing samples"))
		return
	}

	samples := make([]model.HealthSample, len(req.Samples))
	for i, s := range req.Samples {
		var recordedAt time.Time
		if s.RecordedAt != "" {
			ts, err := time.Parse(time.RFC3339, s.RecordedAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid recorded_at; must be RFC3339"))
				return
			}
			recordedAt = ts
		}
		samples[i] = model.HealthSample{
			ID:            s.ID,
			HeartRate:     s.HeartRate,
			SleepDuration: s.SleepDuration,
			SleepQuality:  s.SleepQuality,
			Steps:         s.Steps,
			StressLevel:   s.StressLevel,
			HRV:           s.HRV,
			RecordedAt:    recordedAt,
		}
	}

	res, err := h.deps.SyncSamples(r.Context(), r.PathValue("id"), samples)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

type reportResponse struct {
	Data            []sampleResponse        `json:"data"`
	Insights        health.Insights         `json:"insights"`
	Recommendations []health.Recommendation `json:"recommendations"`
}

// HandleHealthReport handles GET /users/{id}/health-report?days=N requests.
func (h *HealthDataHandler) HandleHealthReport(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		days = n
	}

	report, err := h.deps.HealthReport(r.Context(), r.PathValue("id"), days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{
		Data:            toSampleResponses(report.Data),
		Insights:        report.Insights,
		Recommendations: report.Recommendations,
	})
}
