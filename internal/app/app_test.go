package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoTracker/internal/app"
	"todoTracker/internal/config"
	"todoTracker/internal/handlers/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Repository: config.RepositoryConfig{Type: config.RepositoryInMemory},
		Cache:      config.CacheConfig{Type: config.CacheMemory},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			Issuer:     "todo-tracker",
			BcryptCost: 4,
		},
		Worker: config.WorkerConfig{SweepInterval: time.Minute},
	}
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) call(method, path string, body any, out any) int {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// TestApp_EndToEnd тестирует полный сценарий через HTTP на хранилище в памяти
func TestApp_EndToEnd(t *testing.T) {
	ctx := context.Background()
	a := app.New(testConfig())
	require.NoError(t, a.Init(ctx))
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	c := &client{t: t, base: srv.URL}

	assert.Equal(t, http.StatusOK, c.call(http.MethodGet, "/health", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.call(http.MethodGet, "/todos/pending", nil, nil))

	var sess dto.SessionResponse
	status := c.call(http.MethodPost, "/auth/signup", dto.SignUpRequest{
		Name: "Олег", Email: "oleg@example.com", Password: "пароль123",
	}, &sess)
	require.Equal(t, http.StatusCreated, status)
	c.token = sess.AccessToken

	var created dto.TodoResponse
	status = c.call(http.MethodPost, "/todos", dto.CreateTodoRequest{Title: "Сдать отчёт"}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, sess.User.ID, created.Owner)
	assert.Equal(t, "#FFB3BA", created.Color)

	var pending []dto.TodoResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/todos/pending", nil, &pending))
	require.Len(t, pending, 1)

	var affected dto.AffectedResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodPost, "/todos/"+created.ID.String()+"/toggle",
		dto.ToggleRequest{Completed: true}, &affected))
	assert.EqualValues(t, 1, affected.Affected)

	var board dto.BoardResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/todos/board", nil, &board))
	assert.Empty(t, board.Pending)
	require.Len(t, board.Completed, 1)

	// чужой пользователь не видит и не меняет задачу
	other := &client{t: t, base: srv.URL}
	var otherSess dto.SessionResponse
	require.Equal(t, http.StatusCreated, other.call(http.MethodPost, "/auth/signup", dto.SignUpRequest{
		Name: "Ира", Email: "ira@example.com", Password: "пароль123",
	}, &otherSess))
	other.token = otherSess.AccessToken

	require.Equal(t, http.StatusOK, other.call(http.MethodDelete, "/todos/"+created.ID.String()+"?confirm=yes", nil, &affected))
	assert.Zero(t, affected.Affected)

	require.Equal(t, http.StatusOK, c.call(http.MethodDelete, "/todos/"+created.ID.String()+"?confirm=yes", nil, &affected))
	assert.EqualValues(t, 1, affected.Affected)

	var health dto.HealthResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "ok", health.Status)
	assert.NotZero(t, health.Cache.Misses)
	assert.NotZero(t, health.Cache.Invalidations)

	require.Equal(t, http.StatusNoContent, c.call(http.MethodPost, "/auth/signout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.call(http.MethodGet, "/todos/pending", nil, nil))
}
