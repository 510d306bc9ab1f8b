package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"todoTracker/internal/app"
	"todoTracker/internal/config"
	"todoTracker/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// сервер в тестах работает в том же процессе, логгер не пересоздаём
	setupLogger = func(bool) error { return nil }
	os.Exit(m.Run())
}

type harness struct {
	t           *testing.T
	server      string
	sessionFile string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	a := app.New(&config.Config{
		Server:     config.ServerConfig{AllowedOrigins: []string{"*"}},
		Repository: config.RepositoryConfig{Type: config.RepositoryInMemory},
		Cache:      config.CacheConfig{Type: config.CacheMemory},
		Auth: config.AuthConfig{
			JWTSecret:  "cli-test",
			TokenTTL:   time.Hour,
			Issuer:     "todo-tracker",
			BcryptCost: 4,
		},
	})
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return &harness{t: t, server: srv.URL, sessionFile: filepath.Join(t.TempDir(), "session.yml")}
}

// run выполняет одну команду так, как будто это отдельный запуск бинарника
func (h *harness) run(input string, args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd(strings.NewReader(input), &out)
	root.SetArgs(append(args, "--server", h.server, "--session", h.sessionFile))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(input string, args ...string) string {
	h.t.Helper()
	out, err := h.run(input, args...)
	require.NoError(h.t, err, out)
	return out
}

var idPattern = regexp.MustCompile(`([0-9a-f]{8}) \[[ x]\] `)

func firstID(t *testing.T, out string) string {
	t.Helper()
	m := idPattern.FindStringSubmatch(out)
	require.NotNil(t, m, out)
	return m[1]
}

func TestCLI_FullCycle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("", "signup", "--name", "Аня", "--email", "anya@example.com", "--password", "secret12")
	assert.Contains(t, out, "Добро пожаловать, Аня")

	out = h.mustRun("", "add", "Купить молоко", "--due", "2026-10-20", "--color", "2", "-d", "2 литра")
	assert.Contains(t, out, "Задача добавлена")

	out = h.mustRun("", "list")
	assert.Contains(t, out, "Активные (1)")
	assert.Contains(t, out, "Купить молоко")
	assert.Contains(t, out, "до 2026-10-20")
	assert.Contains(t, out, "2 литра")
	id := firstID(t, out)

	out = h.mustRun("", "toggle", id)
	assert.Contains(t, out, "выполнена")

	out = h.mustRun("", "list")
	assert.Contains(t, out, "Активные (0)")
	out = h.mustRun("", "list", "--completed")
	assert.Contains(t, out, "Выполненные (1)")
	assert.Contains(t, out, "Купить молоко")

	out = h.mustRun("", "edit", id, "--title", "Купить кефир", "--no-description")
	assert.Contains(t, out, "обновлена")

	out = h.mustRun("", "list", "--all")
	assert.Contains(t, out, "Купить кефир")
	assert.NotContains(t, out, "2 литра")
	// редактирование не снимает отметку о выполнении
	assert.Contains(t, out, "Выполненные (1)")

	out = h.mustRun("n\n", "rm", id)
	assert.Contains(t, out, "Отменено")
	out = h.mustRun("", "list", "--completed")
	assert.Contains(t, out, "Выполненные (1)")

	out = h.mustRun("да\n", "rm", id)
	assert.Contains(t, out, "удалена")
	out = h.mustRun("", "list", "--all")
	assert.Contains(t, out, "Активные (0)")
	assert.Contains(t, out, "Выполненные (0)")

	out = h.mustRun("", "signout")
	assert.Contains(t, out, "Вы вышли")

	_, err := h.run("", "list")
	assert.ErrorIs(t, err, session.ErrNoSession)

	out = h.mustRun("secret12\n", "signin", "--email", "anya@example.com")
	assert.Contains(t, out, "Вы вошли как anya@example.com")
}

func TestCLI_AddInvalid(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "signup", "--name", "Аня", "--email", "anya@example.com", "--password", "secret12")

	out, err := h.run("", "add", "Я")
	require.Error(t, err)
	assert.Contains(t, out, "title:")

	_, err = h.run("", "add", "Нормально", "--due", "завтра")
	require.Error(t, err)

	_, err = h.run("", "add", "Нормально", "--color", "9")
	require.Error(t, err)

	out = h.mustRun("", "list")
	assert.Contains(t, out, "Активные (0)")
}

func TestCLI_UnknownID(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "signup", "--name", "Аня", "--email", "anya@example.com", "--password", "secret12")

	_, err := h.run("", "toggle", "deadbeef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "не найдена")
}

func TestCLI_SignInWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "signup", "--name", "Аня", "--email", "anya@example.com", "--password", "secret12")
	h.mustRun("", "signout")

	_, err := h.run("", "signin", "--email", "anya@example.com", "--password", "wrong-pass")
	require.Error(t, err)

	_, err = h.run("", "list")
	assert.ErrorIs(t, err, session.ErrNoSession)
}
