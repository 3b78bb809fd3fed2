package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/taskboard/internal/api/middleware"
	"github.com/daap14/taskboard/internal/api/response"
	"github.com/daap14/taskboard/internal/board"
	"github.com/daap14/taskboard/internal/team"
	"github.com/daap14/taskboard/internal/user"
	"github.com/daap14/taskboard/internal/validation"
)

type createBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TeamID      string `json:"team_id"`
}

type addTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"user_id"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

type taskResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	UserID       string `json:"user_id"`
	Status       string `json:"status"`
	CreationTime string `json:"creation_time"`
}

type boardResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	TeamID       string         `json:"team_id"`
	Status       string         `json:"status"`
	CreationTime string         `json:"creation_time"`
	EndTime      *string        `json:"end_time"`
	Tasks        []taskResponse `json:"tasks"`
}

type exportResponse struct {
	Path string `json:"path"`
}

func toTaskResponse(t *board.Task) taskResponse {
	return taskResponse{
		ID:           t.ID.String(),
		Title:        t.Title,
		Description:  t.Description,
		UserID:       t.UserID.String(),
		Status:       string(t.Status),
		CreationTime: t.CreationTime.UTC().Format(time.RFC3339),
	}
}

func toBoardResponse(b *board.Board) boardResponse {
	resp := boardResponse{
		ID:           b.ID.String(),
		Name:         b.Name,
		Description:  b.Description,
		TeamID:       b.TeamID.String(),
		Status:       string(b.Status),
		CreationTime: b.CreationTime.UTC().Format(time.RFC3339),
		Tasks:        make([]taskResponse, 0, len(b.Tasks)),
	}
	if b.EndTime != nil {
		end := b.EndTime.UTC().Format(time.RFC3339)
		resp.EndTime = &end
	}
	for i := range b.Tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&b.Tasks[i]))
	}
	return resp
}

// BoardHandler handles the board and task endpoints.
type BoardHandler struct {
	repo board.Repository
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(repo board.Repository) *BoardHandler {
	return &BoardHandler{repo: repo}
}

// Create handles POST /boards.
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createBoardRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	b, err := h.repo.Create(r.Context(), board.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      team.ID(req.TeamID),
	})
	if err != nil {
		writeError(w, r, err, "create board")
		return
	}

	response.Success(w, http.StatusCreated, idResponse{ID: b.ID.String()}, requestID)
}

// List handles GET /boards?team_id=.
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID := r.URL.Query().Get("team_id")
	var c validation.Checker
	if err := c.Required("team_id", teamID).Err(); err != nil {
		writeError(w, r, err, "list boards")
		return
	}

	boards, err := h.repo.List(r.Context(), team.ID(teamID))
	if err != nil {
		writeError(w, r, err, "list boards")
		return
	}

	response.SuccessList(w, http.StatusOK, boards, len(boards), requestID)
}

// Get handles GET /boards/{id}.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	b, err := h.repo.Get(r.Context(), board.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err, "get board")
		return
	}

	response.Success(w, http.StatusOK, toBoardResponse(b), requestID)
}

// Close handles POST /boards/{id}/close.
func (h *BoardHandler) Close(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	b, err := h.repo.Close(r.Context(), board.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err, "close board")
		return
	}

	response.Success(w, http.StatusOK, toBoardResponse(b), requestID)
}

// AddTask handles POST /boards/{id}/tasks.
func (h *BoardHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req addTaskRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	task, err := h.repo.AddTask(r.Context(), board.AddTaskInput{
		Title:       req.Title,
		Description: req.Description,
		UserID:      user.ID(req.UserID),
		BoardID:     board.ID(chi.URLParam(r, "id")),
	})
	if err != nil {
		writeError(w, r, err, "add task")
		return
	}

	response.Success(w, http.StatusCreated, idResponse{ID: task.ID.String()}, requestID)
}

// UpdateTaskStatus handles PUT /tasks/{id}/status.
func (h *BoardHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req updateTaskStatusRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	task, err := h.repo.UpdateTaskStatus(r.Context(), board.TaskID(chi.URLParam(r, "id")), board.TaskStatus(req.Status))
	if err != nil {
		writeError(w, r, err, "update task status")
		return
	}

	response.Success(w, http.StatusOK, toTaskResponse(task), requestID)
}

// Export handles POST /boards/{id}/export.
func (h *BoardHandler) Export(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	format, err := board.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, err, "export board")
		return
	}

	path, err := h.repo.Export(r.Context(), board.ID(chi.URLParam(r, "id")), format)
	if err != nil {
		writeError(w, r, err, "export board")
		return
	}

	response.Success(w, http.StatusOK, exportResponse{Path: path}, requestID)
}
