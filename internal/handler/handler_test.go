package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitmatrix/habitmatrix/internal/app"
	"github.com/habitmatrix/habitmatrix/internal/config"
	"github.com/habitmatrix/habitmatrix/internal/model"
	"github.com/habitmatrix/habitmatrix/internal/persistence"
	"github.com/habitmatrix/habitmatrix/internal/routes"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func setupServer(t *testing.T) (*app.App, *httptest.Server) {
	t.Helper()

	cfg := &config.Config{
		AppName:      "habitmatrix-test",
		AppEnv:       "development",
		Port:         "0",
		DBDriver:     "sqlite",
		DBConnection: filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:    "test-secret",
		JWTExpiry:    time.Hour,
	}

	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	srv := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(srv.Close)

	return a, srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return resp, env
}

func registerAndLogin(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"username": "tester",
		"email":    email,
		"password": "Sup3rSecret!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "Sup3rSecret!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	return login.Token
}

func TestRegisterLoginAndCreateHabitFlow(t *testing.T) {
	_, srv := setupServer(t)

	token := registerAndLogin(t, srv, "flow@example.com")

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/habits", token, map[string]any{
		"name":       "Morning run",
		"difficulty": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var habit model.Habit
	require.NoError(t, json.Unmarshal(env.Data, &habit))
	assert.Equal(t, "Morning run", habit.Name)

	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/habits", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []model.Habit
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, habit.ID, listed[0].ID)
}

func TestUnauthenticatedWriteIsRejectedAndNotPersisted(t *testing.T) {
	a, srv := setupServer(t)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/habits", "", map[string]any{
		"name":       "Sneaky habit",
		"difficulty": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "authentication required", env.Error)

	count, err := persistence.NewReadRepository[model.Habit](a.DB, persistence.Habits).Count(t.Context(), "1 = 1")
	require.NoError(t, err)
	assert.Zero(t, count, "the rejected request must not write anything")
}

func TestBogusTokenIsRejected(t *testing.T) {
	_, srv := setupServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/habits", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	_, srv := setupServer(t)

	body := map[string]string{"username": "dup", "email": "dup@example.com", "password": "Sup3rSecret!"}

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	_, srv := setupServer(t)

	registerAndLogin(t, srv, "creds@example.com")

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "creds@example.com",
		"password": "WrongPassword1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestRegisterResponseHidesPasswordHash(t *testing.T) {
	_, srv := setupServer(t)

	_, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"username": "hidden",
		"email":    "hidden@example.com",
		"password": "Sup3rSecret!",
	})

	assert.NotContains(t, string(env.Data), "passwordHash")
	assert.NotContains(t, string(env.Data), "Sup3rSecret")
}

func TestHabitNotFoundMapsTo404(t *testing.T) {
	_, srv := setupServer(t)

	token := registerAndLogin(t, srv, "missing@example.com")

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/habits/8f14e45f-ceea-467f-a0f9-b1a0c0a1b2c3", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestGoalCompleteWithOpenMilestoneFails(t *testing.T) {
	_, srv := setupServer(t)

	token := registerAndLogin(t, srv, "goalapi@example.com")

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/goals", token, map[string]any{
		"title":    "Ship it",
		"priority": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var goal model.Goal
	require.NoError(t, json.Unmarshal(env.Data, &goal))

	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/goals/%s/milestones", srv.URL, goal.ID), token, map[string]any{
		"title": "Write the code",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/goals/%s/complete", srv.URL, goal.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestLookupsArePublic(t *testing.T) {
	_, srv := setupServer(t)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/categories", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []model.Category
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.NotEmpty(t, categories, "seed migration should provide categories")

	resp, env = doJSON(t, http.MethodGet, srv.URL+"/api/skip-reasons", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reasons []model.SkipReason
	require.NoError(t, json.Unmarshal(env.Data, &reasons))
	assert.NotEmpty(t, reasons)
}

func TestHealthEndpoint(t *testing.T) {
	_, srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
