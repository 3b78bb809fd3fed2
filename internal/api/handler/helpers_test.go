package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/daap14/taskboard/internal/board"
	"github.com/daap14/taskboard/internal/store"
	"github.com/daap14/taskboard/internal/team"
	"github.com/daap14/taskboard/internal/user"
)

type repos struct {
	users  *user.StoreRepository
	teams  *team.StoreRepository
	boards *board.StoreRepository
}

func newRepos(t *testing.T) repos {
	t.Helper()
	s := store.NewMemoryStore()
	users := user.NewRepository(s, team.NewReader(s))
	teams := team.NewRepository(s, users)
	boards := board.NewRepository(s, teams, users, board.NewDirExporter(t.TempDir()))
	return repos{users: users, teams: teams, boards: boards}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, httptest.NewRecorder()
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "failed to parse response body")
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := parseEnvelope(t, w)
	errObj, ok := env["error"].(map[string]any)
	require.True(t, ok, "expected an error object, got %s", w.Body.String())
	return errObj["code"].(string)
}

func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	env := parseEnvelope(t, w)
	data, ok := env["data"].(map[string]any)
	require.True(t, ok, "expected a data object, got %s", w.Body.String())
	return data
}

func dataList(t *testing.T, w *httptest.ResponseRecorder) []any {
	t.Helper()
	env := parseEnvelope(t, w)
	data, ok := env["data"].([]any)
	require.True(t, ok, "expected a data list, got %s", w.Body.String())
	return data
}
