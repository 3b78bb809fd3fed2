package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/daap14/taskboard/internal/api/middleware"
	"github.com/daap14/taskboard/internal/api/response"
	"github.com/daap14/taskboard/internal/apperr"
	"github.com/daap14/taskboard/internal/validation"
)

const maxBodyBytes = 1 << 20

type idResponse struct {
	ID string `json:"id"`
}

type ackResponse struct {
	Status string `json:"status"`
}

var ack = ackResponse{Status: "ok"}

// decodeJSON reads the request body into dst. On failure it writes an
// INVALID_JSON response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return false
	}
	return true
}

// kindStatus maps each error kind to its HTTP status and error code.
var kindStatus = map[error]struct {
	status int
	code   string
}{
	apperr.ErrValidation: {http.StatusBadRequest, "VALIDATION_ERROR"},
	apperr.ErrNotFound:   {http.StatusNotFound, "NOT_FOUND"},
	apperr.ErrConflict:   {http.StatusConflict, "CONFLICT"},
	apperr.ErrState:      {http.StatusConflict, "INVALID_STATE"},
	apperr.ErrCapacity:   {http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED"},
	apperr.ErrImmutable:  {http.StatusUnprocessableEntity, "IMMUTABLE_FIELD"},
}

// writeError maps a repository error to its HTTP status and error code.
// Errors without a known kind are logged and reported as INTERNAL_ERROR.
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	requestID := middleware.GetRequestID(r.Context())

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrs, requestID)
		return
	}

	if mapped, ok := kindStatus[apperr.Kind(err)]; ok {
		response.Err(w, mapped.status, mapped.code, err.Error(), requestID)
		return
	}

	middleware.Logger(r.Context()).Error("failed to "+action, "error", err)
	response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+action, requestID)
}
