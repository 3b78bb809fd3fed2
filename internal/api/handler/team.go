package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/taskboard/internal/api/middleware"
	"github.com/daap14/taskboard/internal/api/response"
	"github.com/daap14/taskboard/internal/team"
	"github.com/daap14/taskboard/internal/user"
)

type teamFields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Admin       string `json:"admin"`
}

type updateTeamRequest struct {
	Team teamFields `json:"team"`
}

type membersRequest struct {
	Users []string `json:"users"`
}

func (m membersRequest) ids() []user.ID {
	ids := make([]user.ID, 0, len(m.Users))
	for _, id := range m.Users {
		ids = append(ids, user.ID(id))
	}
	return ids
}

type teamResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Admin        string   `json:"admin"`
	Users        []string `json:"users"`
	CreationTime string   `json:"creation_time"`
}

func toTeamResponse(t *team.Team) teamResponse {
	members := make([]string, 0, len(t.Users))
	for _, id := range t.Users {
		members = append(members, id.String())
	}
	return teamResponse{
		ID:           t.ID.String(),
		Name:         t.Name,
		Description:  t.Description,
		Admin:        t.Admin.String(),
		Users:        members,
		CreationTime: t.CreationTime.UTC().Format(time.RFC3339),
	}
}

// TeamHandler handles the team and membership endpoints.
type TeamHandler struct {
	repo team.Repository
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(repo team.Repository) *TeamHandler {
	return &TeamHandler{repo: repo}
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req teamFields
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	t, err := h.repo.Create(r.Context(), team.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Admin:       user.ID(req.Admin),
	})
	if err != nil {
		writeError(w, r, err, "create team")
		return
	}

	response.Success(w, http.StatusCreated, idResponse{ID: t.ID.String()}, requestID)
}

// List handles GET /teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teams, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, r, err, "list teams")
		return
	}

	items := make([]teamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, toTeamResponse(&teams[i]))
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Get handles GET /teams/{id}.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	t, err := h.repo.Describe(r.Context(), team.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err, "describe team")
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(t), requestID)
}

// Update handles PUT /teams/{id}.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req updateTeamRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	t, err := h.repo.Update(r.Context(), team.ID(chi.URLParam(r, "id")), team.UpdateInput{
		Name:        req.Team.Name,
		Description: req.Team.Description,
		Admin:       user.ID(req.Team.Admin),
	})
	if err != nil {
		writeError(w, r, err, "update team")
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(t), requestID)
}

// AddUsers handles POST /teams/{id}/users.
func (h *TeamHandler) AddUsers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req membersRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	t, err := h.repo.AddUsers(r.Context(), team.ID(chi.URLParam(r, "id")), req.ids())
	if err != nil {
		writeError(w, r, err, "add team users")
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(t), requestID)
}

// RemoveUsers handles POST /teams/{id}/users/remove.
func (h *TeamHandler) RemoveUsers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req membersRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	t, err := h.repo.RemoveUsers(r.Context(), team.ID(chi.URLParam(r, "id")), req.ids())
	if err != nil {
		writeError(w, r, err, "remove team users")
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(t), requestID)
}

// Users handles GET /teams/{id}/users.
func (h *TeamHandler) Users(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.repo.ListUsers(r.Context(), team.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err, "list team users")
		return
	}

	items := toUserResponses(users)
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}
