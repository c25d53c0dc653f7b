package api

import (
	"context"
	"net/http"

	"github.com/okian/ember/internal/domain/streak"
)

// StreakDependencies defines the interface for streak queries.
type StreakDependencies interface {
	Streaks(ctx context.Context, userID string) (streak.Stats, error)
}

// StreakHandler handles engagement streak requests.
type StreakHandler struct {
	deps StreakDependencies
}

// NewStreakHandler creates a new streak handler.
func NewStreakHandler(deps StreakDependencies) *StreakHandler {
	return &StreakHandler{deps: deps}
}

// HandleStreaks handles GET /users/{id}/streaks requests.
func (h *StreakHandler) HandleStreaks(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Streaks(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
