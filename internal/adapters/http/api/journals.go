package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/ember/internal/domain/model"
)

// JournalDependencies defines the interface for journal operations.
type JournalDependencies interface {
	CreateJournal(ctx context.Context, userID, title, content, analysis string) (model.JournalEntry, error)
	Journals(ctx context.Context, userID string) ([]model.JournalEntry, error)
	Journal(ctx context.Context, userID, entryID string) (model.JournalEntry, error)
	DeleteJournal(ctx context.Context, userID, entryID string) error
}

// JournalHandler handles journal requests.
type JournalHandler struct {
	deps JournalDependencies
}

// NewJournalHandler creates a new journal handler.
func NewJournalHandler(deps JournalDependencies) *JournalHandler {
	return &JournalHandler{deps: deps}
}

type journalRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Analysis string `json:"analysis"`
}

// HandleCreateJournal handles POST /users/{id}/journals requests.
func (h *JournalHandler) HandleCreateJournal(w http.ResponseWriter, r *http.Request) {
	var req journalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	j, err := h.deps.CreateJournal(r.Context(), r.PathValue("id"), req.Title, req.Content, req.Analysis)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJournalResponse(j))
}

// HandleListJournals handles GET /users/{id}/journals requests.
func (h *JournalHandler) HandleListJournals(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.Journals(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJournalResponses(list))
}

// HandleGetJournal handles GET /users/{id}/journals/{entryID} requests.
func (h *JournalHandler) HandleGetJournal(w http.ResponseWriter, r *http.Request) {
	j, err := h.deps.Journal(r.Context(), r.PathValue("id"), r.PathValue("entryID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJournalResponse(j))
}

// HandleDeleteJournal handles DELETE /users/{id}/journals/{entryID} requests.
func (h *JournalHandler) HandleDeleteJournal(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteJournal(r.Context(), r.PathValue("id"), r.PathValue("entryID")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
