package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/ember/internal/domain/model"
)

// ProfileDependencies defines the interface for profile operations.
type ProfileDependencies interface {
	User(ctx context.Context, userID string) (model.User, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (model.User, error)
}

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// HandleGetProfile handles GET /users/{id} requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.deps.User(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// profileRequest carries optional fields; absent keys leave the stored
// value untouched.
type profileRequest struct {
	Name            *string `json:"name"`
	Age             *int    `json:"age"`
	Gender          *string `json:"gender"`
	MaritalStatus   *string `json:"marital_status"`
	HasChildren     *bool   `json:"has_children"`
	Specialty       *string `json:"specialty"`
	WorkSetting     *string `json:"work_setting"`
	CareerStage     *string `json:"career_stage"`
	WorkHours       *int    `json:"work_hours"`
	OnCallFrequency *string `json:"on_call_frequency"`
	YearsExperience *int    `json:"years_experience"`
	PreviousBurnout *int    `json:"previous_burnout"`
	Reasons         []int   `json:"reasons"`
}

// HandleUpdateProfile handles PATCH /users/{id} requests.
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	u, err := h.deps.UpdateProfile(r.Context(), r.PathValue("id"), ProfileUpdate{
		Name:            req.Name,
		Age:             req.Age,
		Gender:          req.Gender,
		MaritalStatus:   req.MaritalStatus,
		HasChildren:     req.HasChildren,
		Specialty:       req.Specialty,
		WorkSetting:     req.WorkSetting,
		CareerStage:     req.CareerStage,
		WorkHours:       req.WorkHours,
		OnCallFrequency: req.OnCallFrequency,
		YearsExperience: req.YearsExperience,
		PreviousBurnout: req.PreviousBurnout,
		Reasons:         req.Reasons,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}
