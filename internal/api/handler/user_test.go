package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/taskboard/internal/api/handler"
	"github.com/daap14/taskboard/internal/team"
	"github.com/daap14/taskboard/internal/user"
)

func createUser(t *testing.T, rp repos, name string) *user.User {
	t.Helper()
	u, err := rp.users.Create(context.Background(), user.CreateInput{Name: name, DisplayName: strings.ToUpper(name)})
	require.NoError(t, err)
	return u
}

// ===== POST /users =====

func TestUserCreate_Success(t *testing.T) {
	rp := newRepos(t)
	h := handler.NewUserHandler(rp.users)

	req, w := makeChiRequest(http.MethodPost, "/users", mustJSON(t, map[string]string{
		"name": "alice", "display_name": "Alice A",
	}), nil)
	h.Create(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	id := dataMap(t, w)["id"].(string)
	assert.NotEmpty(t, id)

	u, err := rp.users.Describe(context.Background(), user.ID(id))
	require.NoError(t, err)
	assert.Equal(t, "Alice A", u.DisplayName)
}

func TestUserCreate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		wantStatus int
		wantCode   string
	}{
		{"invalid json", []byte("{"), http.StatusBadRequest, "INVALID_JSON"},
		{"missing name", []byte(`{"display_name":"A"}`), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"duplicate name", []byte(`{"name":"alice"}`), http.StatusConflict, "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := newRepos(t)
			createUser(t, rp, "alice")
			h := handler.NewUserHandler(rp.users)

			req, w := makeChiRequest(http.MethodPost, "/users", tt.body, nil)
			h.Create(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestUserCreate_ValidationDetails(t *testing.T) {
	rp := newRepos(t)
	h := handler.NewUserHandler(rp.users)

	req, w := makeChiRequest(http.MethodPost, "/users", mustJSON(t, map[string]string{
		"name": strings.Repeat("n", 65),
	}), nil)
	h.Create(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	errObj := parseEnvelope(t, w)["error"].(map[string]any)
	details := errObj["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "name", details[0].(map[string]any)["field"])
}

// ===== GET /users, GET /users/{id} =====

func TestUserList_And_Get(t *testing.T) {
	rp := newRepos(t)
	alice := createUser(t, rp, "alice")
	createUser(t, rp, "bob")
	h := handler.NewUserHandler(rp.users)

	req, w := makeChiRequest(http.MethodGet, "/users", nil, nil)
	h.List(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, w), 2)

	req, w = makeChiRequest(http.MethodGet, "/users/"+alice.ID.String(), nil, map[string]string{"id": alice.ID.String()})
	h.Get(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, w)
	assert.Equal(t, "alice", data["name"])
	assert.Equal(t, "ALICE", data["display_name"])
	assert.Equal(t, alice.Description, data["description"])
	assert.NotEmpty(t, data["creation_time"])
}

func TestUserGet_NotFound(t *testing.T) {
	rp := newRepos(t)
	h := handler.NewUserHandler(rp.users)

	req, w := makeChiRequest(http.MethodGet, "/users/nope", nil, map[string]string{"id": "nope"})
	h.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

// ===== PUT /users/{id} =====

func TestUserUpdate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"display name only", `{"user":{"display_name":"Alice B"}}`, http.StatusOK, ""},
		{"same name allowed", `{"user":{"name":"alice","display_name":"Alice C"}}`, http.StatusOK, ""},
		{"rename rejected", `{"user":{"name":"alicia","display_name":"A"}}`, http.StatusUnprocessableEntity, "IMMUTABLE_FIELD"},
		{"display name too long", `{"user":{"display_name":"` + strings.Repeat("d", 129) + `"}}`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := newRepos(t)
			alice := createUser(t, rp, "alice")
			h := handler.NewUserHandler(rp.users)

			req, w := makeChiRequest(http.MethodPut, "/users/"+alice.ID.String(), []byte(tt.body), map[string]string{"id": alice.ID.String()})
			h.Update(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
			}
		})
	}
}

// ===== GET /users/{id}/teams =====

func TestUserTeams(t *testing.T) {
	rp := newRepos(t)
	ctx := context.Background()
	alice := createUser(t, rp, "alice")
	eng, err := rp.teams.Create(ctx, team.CreateInput{Name: "Eng", Admin: alice.ID})
	require.NoError(t, err)
	_, err = rp.teams.AddUsers(ctx, eng.ID, []user.ID{alice.ID})
	require.NoError(t, err)
	h := handler.NewUserHandler(rp.users)

	req, w := makeChiRequest(http.MethodGet, "/users/"+alice.ID.String()+"/teams", nil, map[string]string{"id": alice.ID.String()})
	h.Teams(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	teams := dataList(t, w)
	require.Len(t, teams, 1)
	assert.Equal(t, "Eng", teams[0].(map[string]any)["name"])
}

func TestUserUpdate_RequiresNestedDisplayName(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"flat body", `{"name":"alice","display_name":"New"}`, "user"},
		{"empty body", `{}`, "user"},
		{"user without display name", `{"user":{"name":"alice"}}`, "user.display_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := newRepos(t)
			alice := createUser(t, rp, "alice")
			h := handler.NewUserHandler(rp.users)

			req, w := makeChiRequest(http.MethodPut, "/users/"+alice.ID.String(), []byte(tt.body), idParam(alice.ID))
			h.Update(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)
			errObj := parseEnvelope(t, w)["error"].(map[string]any)
			assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
			details := errObj["details"].([]any)
			require.Len(t, details, 1)
			assert.Equal(t, tt.wantField, details[0].(map[string]any)["field"])

			stored, err := rp.users.Describe(context.Background(), alice.ID)
			require.NoError(t, err)
			assert.Equal(t, "ALICE", stored.DisplayName)
		})
	}
}
