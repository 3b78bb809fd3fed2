package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/daap14/taskboard/internal/api/middleware"
	"github.com/daap14/taskboard/internal/api/response"
)

// StorePinger checks that the persistence backend is reachable.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	pinger  StorePinger
	version string
}

// NewHealthHandler creates a new HealthHandler. A nil pinger reports the
// store as unreachable.
func NewHealthHandler(pinger StorePinger, version string) *HealthHandler {
	return &HealthHandler{
		pinger:  pinger,
		version: version,
	}
}

type storeStatus struct {
	Connected bool `json:"connected"`
}

type healthData struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Store   storeStatus `json:"store"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	connected := false
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			slog.Warn("store ping failed", "error", err)
		} else {
			connected = true
		}
	}

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	response.Success(w, http.StatusOK, healthData{
		Status:  status,
		Version: h.version,
		Store:   storeStatus{Connected: connected},
	}, requestID)
}
