package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/taskboard/internal/api/middleware"
	"github.com/daap14/taskboard/internal/api/response"
	"github.com/daap14/taskboard/internal/user"
	"github.com/daap14/taskboard/internal/validation"
)

type createUserRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type updateUserRequest struct {
	User *struct {
		Name        string  `json:"name"`
		DisplayName *string `json:"display_name"`
	} `json:"user"`
}

// validate requires the nested user object and its display_name.
func (req updateUserRequest) validate() error {
	switch {
	case req.User == nil:
		return validation.Errors{{Field: "user", Message: "user is required"}}
	case req.User.DisplayName == nil:
		return validation.Errors{{Field: "user.display_name", Message: "user.display_name is required"}}
	}
	return nil
}

type userResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description"`
	CreationTime string `json:"creation_time"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:           u.ID.String(),
		Name:         u.Name,
		DisplayName:  u.DisplayName,
		Description:  u.Description,
		CreationTime: u.CreationTime.UTC().Format(time.RFC3339),
	}
}

func toUserResponses(users []user.User) []userResponse {
	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	return items
}

type userTeamResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CreationTime string `json:"creation_time"`
}

// UserHandler handles the user endpoints.
type UserHandler struct {
	repo user.Repository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(repo user.Repository) *UserHandler {
	return &UserHandler{repo: repo}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createUserRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	u, err := h.repo.Create(r.Context(), user.CreateInput{Name: req.Name, DisplayName: req.DisplayName})
	if err != nil {
		writeError(w, r, err, "create user")
		return
	}

	response.Success(w, http.StatusCreated, idResponse{ID: u.ID.String()}, requestID)
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, r, err, "list users")
		return
	}

	items := toUserResponses(users)
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	u, err := h.repo.Describe(r.Context(), user.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err, "describe user")
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// Update handles PUT /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req updateUserRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err, "update user")
		return
	}

	u, err := h.repo.Update(r.Context(), user.ID(chi.URLParam(r, "id")), user.UpdateInput{
		Name:        req.User.Name,
		DisplayName: *req.User.DisplayName,
	})
	if err != nil {
		writeError(w, r, err, "update user")
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// Teams handles GET /users/{id}/teams.
func (h *UserHandler) Teams(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teams, err := h.repo.GetTeams(r.Context(), user.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err, "list user teams")
		return
	}

	items := make([]userTeamResponse, 0, len(teams))
	for _, t := range teams {
		items = append(items, userTeamResponse{
			ID:           t.ID,
			Name:         t.Name,
			Description:  t.Description,
			CreationTime: t.CreationTime.UTC().Format(time.RFC3339),
		})
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}
