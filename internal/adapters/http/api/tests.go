package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/ember/internal/domain/mbi"
	"github.com/okian/ember/internal/domain/model"
)

// TestDependencies defines the interface for inventory test operations.
type TestDependencies interface {
	Questions(ctx context.Context) (string, []mbi.Question)
	StartTest(ctx context.Context, userID string) (model.Test, bool, error)
	SubmitTest(ctx context.Context, userID, testID string, answers []mbi.Answer) (model.Test, error)
	Tests(ctx context.Context, userID string, completedOnly bool) ([]model.Test, error)
}

// TestHandler handles inventory test requests.
type TestHandler struct {
	deps TestDependencies
}

// NewTestHandler creates a new test handler.
func NewTestHandler(deps TestDependencies) *TestHandler {
	return &TestHandler{deps: deps}
}

type questionResponse struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

type catalogResponse struct {
	Version   string             `json:"version"`
	Questions []questionResponse `json:"questions"`
}

// HandleQuestions handles GET /questions requests.
func (h *TestHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	version, questions := h.deps.Questions(r.Context())
	out := catalogResponse{Version: version, Questions: make([]questionResponse, len(questions))}
	for i, q := range questions {
		out.Questions[i] = questionResponse{ID: q.ID, Text: q.Text, Category: string(q.Category)}
	}
	writeJSON(w, http.StatusOK, out)
}

type startTestResponse struct {
	Test    testResponse `json:"test"`
	Resumed bool         `json:"resumed"`
}

// HandleStartTest handles POST /users/{id}/tests requests.
func (h *TestHandler) HandleStartTest(w http.ResponseWriter, r *http.Request) {
	t, resumed, err := h.deps.StartTest(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusCreated
	if resumed {
		status = http.StatusOK
	}
	writeJSON(w, status, startTestResponse{Test: toTestResponse(t), Resumed: resumed})
}

type answerRequest struct {
	QuestionID int `json:"question_id"`
	Score      int `json:"score"`
}

type submitTestRequest struct {
	Answers []answerRequest `json:"answers"`
}

// HandleSubmitTest handles POST /users/{id}/tests/{testID}/submit requests.
func (h *TestHandler) HandleSubmitTest(w http.ResponseWriter, r *http.Request) {
	var req submitTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing answers"))
		return
	}

	answers := make([]mbi.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = mbi.Answer{QuestionID: a.QuestionID, Score: a.Score}
	}

	t, err := h.deps.SubmitTest(r.Context(), r.PathValue("id"), r.PathValue("testID"), answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTestResponse(t))
}

// HandleListTests handles GET /users/{id}/tests?completed=true requests.
func (h *TestHandler) HandleListTests(w http.ResponseWriter, r *http.Request) {
	completedOnly := r.URL.Query().Get("completed") == "true"
	tests, err := h.deps.Tests(r.Context(), r.PathValue("id"), completedOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTestResponses(tests))
}
