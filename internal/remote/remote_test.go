package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"todoTracker/internal/app"
	"todoTracker/internal/auth"
	"todoTracker/internal/config"
	"todoTracker/internal/form"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/querycache"
	"todoTracker/internal/remote"
	repo "todoTracker/internal/repository"
	"todoTracker/internal/session"
	"todoTracker/internal/todos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()

	a := app.New(&config.Config{
		Server:     config.ServerConfig{AllowedOrigins: []string{"*"}},
		Repository: config.RepositoryConfig{Type: config.RepositoryInMemory},
		Cache:      config.CacheConfig{Type: config.CacheMemory},
		Auth: config.AuthConfig{
			JWTSecret:  "remote-test",
			TokenTTL:   time.Hour,
			Issuer:     "todo-tracker",
			BcryptCost: 4,
		},
	})
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

type clientSide struct {
	holder     *session.Holder
	client     *remote.Client
	controller *todos.Controller
}

func newClientSide(t *testing.T, baseURL string) *clientSide {
	t.Helper()

	holder := session.NewHolder(session.NewFileStore(filepath.Join(t.TempDir(), "session.yml")))
	client := remote.New(baseURL, 5*time.Second, holder)
	cache := querycache.New[[]todo.Todo](querycache.NewMemoryBackend[[]todo.Todo]())

	return &clientSide{
		holder:     holder,
		client:     client,
		controller: todos.NewController(todos.NewRepository(client, holder), cache, holder),
	}
}

// TestRemote_FullCycle тестирует работу клиентского контроллера через HTTP
func TestRemote_FullCycle(t *testing.T) {
	ctx := context.Background()
	c := newClientSide(t, startServer(t))

	require.NoError(t, c.client.HealthCheck(ctx))

	_, err := c.controller.Create(ctx, todo.New("Без входа", nil, nil, ""))
	var authErr *todos.AuthError
	require.ErrorAs(t, err, &authErr)

	identity, err := c.client.SignUp(ctx, form.SignUpFields{Name: "Лена", Email: "lena@example.com", Password: "пароль123"})
	require.NoError(t, err)
	require.NoError(t, c.holder.Set(identity))

	end := time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC)
	desc := "в 10:00"
	created, err := c.controller.Create(ctx, todo.New("Записаться к врачу", &desc, &end, todo.ColorOrange))
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, created.Owner)

	pending, err := c.controller.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)
	assert.Equal(t, "в 10:00", *pending[0].Description)
	assert.Equal(t, "2026-10-30", todo.FormatDate(pending[0].EndDate))
	assert.Equal(t, todo.ColorOrange, pending[0].Color)

	affected, err := c.controller.Update(ctx, created.ID, todo.WithDescription(nil), todo.WithColor(todo.ColorBlue))
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = c.controller.ToggleCompleted(ctx, created.ID, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	board, err := c.controller.Board(ctx)
	require.NoError(t, err)
	assert.Empty(t, board.Pending)
	require.Len(t, board.Completed, 1)
	assert.Nil(t, board.Completed[0].Description)
	assert.Equal(t, todo.ColorBlue, board.Completed[0].Color)

	affected, err = c.controller.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	completed, err := c.controller.Completed(ctx)
	require.NoError(t, err)
	assert.Empty(t, completed)

	require.NoError(t, c.client.SignOut(ctx))
	_, err = c.controller.Pending(ctx)
	var storeErr *todos.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestRemote_Errors(t *testing.T) {
	ctx := context.Background()
	base := startServer(t)
	c := newClientSide(t, base)

	identity, err := c.client.SignUp(ctx, form.SignUpFields{Name: "Петя", Email: "petya@example.com", Password: "пароль123"})
	require.NoError(t, err)
	require.NoError(t, c.holder.Set(identity))

	t.Run("duplicate sign up", func(t *testing.T) {
		_, err := c.client.SignUp(ctx, form.SignUpFields{Name: "Петя", Email: "petya@example.com", Password: "пароль123"})
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := c.client.SignIn(ctx, form.SignInFields{Email: "petya@example.com", Password: "другой1"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("server validation", func(t *testing.T) {
		_, err := c.client.SignIn(ctx, form.SignInFields{Email: "nope", Password: "1"})
		var vErr *form.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "email")
	})

	t.Run("duplicate id is a conflict", func(t *testing.T) {
		item := todo.New("Дубликат", nil, nil, "")
		_, err := c.controller.Create(ctx, item)
		require.NoError(t, err)

		_, err = c.controller.Create(ctx, item)
		var storeErr *todos.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.ErrorIs(t, err, repo.ErrConstraint)
	})

	t.Run("unreachable server", func(t *testing.T) {
		down := remote.New("http://127.0.0.1:1", time.Second, c.holder)
		repository := todos.NewRepository(down, c.holder)

		_, err := repository.ListPending(ctx)
		var storeErr *todos.StoreError
		assert.ErrorAs(t, err, &storeErr)
	})

	t.Run("raw http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gateway exploded", http.StatusBadGateway)
		}))
		defer srv.Close()

		err := remote.New(srv.URL, time.Second, c.holder).HealthCheck(ctx)
		var apiErr *remote.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	})
}
