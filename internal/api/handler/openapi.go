package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/daap14/taskboard/internal/api/middleware"
	"github.com/daap14/taskboard/internal/api/response"
)

// OpenAPIHandler serves the OpenAPI document as JSON.
type OpenAPIHandler struct {
	rawYAML []byte
	version string

	once    sync.Once
	doc     []byte
	convErr error
}

// NewOpenAPIHandler creates a handler for the given YAML document. A
// non-empty version replaces info.version in the served document.
func NewOpenAPIHandler(yamlSpec []byte, version string) *OpenAPIHandler {
	return &OpenAPIHandler{rawYAML: yamlSpec, version: version}
}

func (h *OpenAPIHandler) convert() ([]byte, error) {
	raw, err := yaml.YAMLToJSON(h.rawYAML)
	if err != nil || h.version == "" {
		return raw, err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	info, _ := doc["info"].(map[string]any)
	if info == nil {
		info = map[string]any{}
		doc["info"] = info
	}
	info["version"] = h.version
	return json.Marshal(doc)
}

// ServeHTTP converts the YAML document on first use and writes the cached JSON.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(func() {
		h.doc, h.convErr = h.convert()
	})

	if h.convErr != nil {
		slog.Error("failed to convert OpenAPI document to JSON", "error", h.convErr)
		requestID := middleware.GetRequestID(r.Context())
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to convert OpenAPI document", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.doc); err != nil {
		slog.Error("failed to write OpenAPI response", "error", err)
	}
}
