package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/daap14/taskboard/internal/api/handler"
	"github.com/daap14/taskboard/internal/api/middleware"
	"github.com/daap14/taskboard/internal/board"
	"github.com/daap14/taskboard/internal/team"
	"github.com/daap14/taskboard/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Users       user.Repository
	Teams       team.Repository
	Boards      board.Repository
	Store       handler.StorePinger
	Version     string
	OpenAPISpec []byte
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.Store, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec, deps.Version)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.Users != nil {
		userHandler := handler.NewUserHandler(deps.Users)
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.Put("/{id}", userHandler.Update)
			r.Get("/{id}/teams", userHandler.Teams)
		})
	}

	if deps.Teams != nil {
		teamHandler := handler.NewTeamHandler(deps.Teams)
		r.Route("/teams", func(r chi.Router) {
			r.Post("/", teamHandler.Create)
			r.Get("/", teamHandler.List)
			r.Get("/{id}", teamHandler.Get)
			r.Put("/{id}", teamHandler.Update)
			r.Post("/{id}/users", teamHandler.AddUsers)
			r.Post("/{id}/users/remove", teamHandler.RemoveUsers)
			r.Get("/{id}/users", teamHandler.Users)
		})
	}

	if deps.Boards != nil {
		boardHandler := handler.NewBoardHandler(deps.Boards)
		r.Route("/boards", func(r chi.Router) {
			r.Post("/", boardHandler.Create)
			r.Get("/", boardHandler.List)
			r.Get("/{id}", boardHandler.Get)
			r.Post("/{id}/close", boardHandler.Close)
			r.Post("/{id}/tasks", boardHandler.AddTask)
			r.Post("/{id}/export", boardHandler.Export)
		})
		r.Put("/tasks/{id}/status", boardHandler.UpdateTaskStatus)
	}

	return r
}
