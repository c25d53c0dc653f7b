package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/okian/ember/internal/domain/model"
)

// MoodDependencies defines the interface for mood check-in operations.
type MoodDependencies interface {
	RecordMood(ctx context.Context, userID string, kind model.MoodKind) (model.Mood, model.MoodKind, bool, error)
	RecentMoods(ctx context.Context, userID string, limit int) ([]model.Mood, error)
}

// MoodHandler handles mood check-in requests.
type MoodHandler struct {
	deps MoodDependencies
}

// NewMoodHandler creates a new mood handler.
func NewMoodHandler(deps MoodDependencies) *MoodHandler {
	return &MoodHandler{deps: deps}
}

type moodRequest struct {
	Mood string `json:"mood"`
}

type moodAckResponse struct {
	Mood         moodResponse `json:"mood"`
	Replaced     bool         `json:"replaced"`
	PreviousMood string       `json:"previous_mood,omitempty"`
}

// HandleRecordMood handles POST /users/{id}/moods requests.
func (h *MoodHandler) HandleRecordMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	m, previous, replaced, err := h.deps.RecordMood(r.Context(), r.PathValue("id"), model.MoodKind(req.Mood))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moodAckResponse{
		Mood:         toMoodResponse(m),
		Replaced:     replaced,
		PreviousMood: string(previous),
	})
}

// HandleRecentMoods handles GET /users/{id}/moods?limit=N requests.
func (h *MoodHandler) HandleRecentMoods(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}

	moods, err := h.deps.RecentMoods(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMoodResponses(moods))
}
