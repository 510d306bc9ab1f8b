package postgres_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"todoTracker/internal/migrations"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/models/user"
	"todoTracker/internal/repository"
	"todoTracker/internal/repository/pg"
	"todoTracker/internal/repository/todo/postgres"
	userpg "todoTracker/internal/repository/user/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestSuite интеграционные тесты хранилищ на настоящем PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container testcontainers.Container
	url       string
	pool      *pgxpool.Pool
	todos     *postgres.Storage
	users     *userpg.Storage
	ctx       context.Context
}

func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)
	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.url = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	require.NoError(s.T(), migrations.Up(s.url))

	s.pool, err = pg.Connect(s.ctx, pg.PoolConfig{URL: s.url})
	require.NoError(s.T(), err)

	s.todos = postgres.New(s.pool)
	s.users = userpg.New(s.pool)
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицы перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, "TRUNCATE todos, users")
	require.NoError(s.T(), err)
}

func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) newTodo(owner uuid.UUID, title string) *todo.Todo {
	t := todo.New(title, nil, nil, "")
	t.Owner = owner
	return &t
}

func (s *PostgresTestSuite) TestHealthCheck() {
	assert.NoError(s.T(), s.todos.HealthCheck(s.ctx))
}

func (s *PostgresTestSuite) TestInsert() {
	owner := uuid.New()
	description := "два литра"
	end := time.Date(2026, 10, 20, 15, 30, 0, 0, time.UTC)

	created := todo.New("Купить молоко", &description, &end, todo.ColorBlue)
	created.Owner = owner
	require.NoError(s.T(), s.todos.Insert(s.ctx, &created))
	assert.False(s.T(), created.CreatedAt.IsZero())

	stored, err := s.todos.GetByID(s.ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Купить молоко", stored.Title)
	require.NotNil(s.T(), stored.Description)
	assert.Equal(s.T(), "два литра", *stored.Description)
	assert.Equal(s.T(), "2026-10-20", todo.FormatDate(stored.EndDate))
	assert.Equal(s.T(), todo.ColorBlue, stored.Color)
	assert.False(s.T(), stored.Completed)
	assert.Equal(s.T(), owner, stored.Owner)

	_, err = s.todos.GetByID(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestInsertConstraints() {
	owner := uuid.New()

	first := s.newTodo(owner, "Задача")
	require.NoError(s.T(), s.todos.Insert(s.ctx, first))

	err := s.todos.Insert(s.ctx, first)
	assert.ErrorIs(s.T(), err, repository.ErrDuplicate)

	err = s.todos.Insert(s.ctx, s.newTodo(uuid.Nil, "Ничья"))
	assert.ErrorIs(s.T(), err, repository.ErrConstraint)

	err = s.todos.Insert(s.ctx, s.newTodo(owner, "Я"))
	assert.ErrorIs(s.T(), err, repository.ErrConstraint)

	err = s.todos.Insert(s.ctx, s.newTodo(owner, strings.Repeat("a", 36)))
	assert.ErrorIs(s.T(), err, repository.ErrConstraint)
}

func (s *PostgresTestSuite) TestSelectByCompleted() {
	owner, stranger := uuid.New(), uuid.New()

	for i := 1; i <= 3; i++ {
		require.NoError(s.T(), s.todos.Insert(s.ctx, s.newTodo(owner, fmt.Sprintf("Задача %d", i))))
	}
	require.NoError(s.T(), s.todos.Insert(s.ctx, s.newTodo(stranger, "Чужая")))

	done := s.newTodo(owner, "Готово")
	done.Completed = true
	require.NoError(s.T(), s.todos.Insert(s.ctx, done))

	pending, err := s.todos.SelectByCompleted(s.ctx, owner, false)
	require.NoError(s.T(), err)
	require.Len(s.T(), pending, 3)
	for i, t := range pending {
		assert.Equal(s.T(), fmt.Sprintf("Задача %d", i+1), t.Title)
	}

	completed, err := s.todos.SelectByCompleted(s.ctx, owner, true)
	require.NoError(s.T(), err)
	require.Len(s.T(), completed, 1)
	assert.Equal(s.T(), done.ID, completed[0].ID)

	empty, err := s.todos.SelectByCompleted(s.ctx, uuid.New(), false)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), empty)
	assert.Empty(s.T(), empty)
}

func (s *PostgresTestSuite) TestUpdateScoped() {
	owner := uuid.New()
	created := s.newTodo(owner, "Старое")
	description := "было"
	created.Description = &description
	require.NoError(s.T(), s.todos.Insert(s.ctx, created))

	s.Run("чужой владелец", func() {
		affected, err := s.todos.UpdateScoped(s.ctx, created.ID, uuid.New(), todo.NewPatch(todo.WithTitle("Чужое")))
		require.NoError(s.T(), err)
		assert.Equal(s.T(), int64(0), affected)
	})

	s.Run("пустой патч", func() {
		affected, err := s.todos.UpdateScoped(s.ctx, created.ID, owner, todo.NewPatch())
		require.NoError(s.T(), err)
		assert.Equal(s.T(), int64(0), affected)
	})

	s.Run("частичное обновление", func() {
		affected, err := s.todos.UpdateScoped(s.ctx, created.ID, owner,
			todo.NewPatch(todo.WithTitle("Новое"), todo.WithDescription(nil), todo.WithCompleted(true)))
		require.NoError(s.T(), err)
		assert.Equal(s.T(), int64(1), affected)

		stored, err := s.todos.GetByID(s.ctx, created.ID)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "Новое", stored.Title)
		assert.Nil(s.T(), stored.Description)
		assert.True(s.T(), stored.Completed)
		assert.Equal(s.T(), todo.DefaultColor, stored.Color)
	})

	s.Run("нарушение ограничения", func() {
		_, err := s.todos.UpdateScoped(s.ctx, created.ID, owner, todo.NewPatch(todo.WithTitle(strings.Repeat("b", 40))))
		assert.ErrorIs(s.T(), err, repository.ErrConstraint)
	})
}

func (s *PostgresTestSuite) TestDeleteScoped() {
	owner := uuid.New()
	created := s.newTodo(owner, "Удалить")
	require.NoError(s.T(), s.todos.Insert(s.ctx, created))

	affected, err := s.todos.DeleteScoped(s.ctx, created.ID, uuid.New())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), affected)

	affected, err = s.todos.DeleteScoped(s.ctx, created.ID, owner)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), affected)

	_, err = s.todos.GetByID(s.ctx, created.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestUsers() {
	u := &user.User{ID: uuid.New(), Name: "Аня", Email: "Anya@Example.com", PasswordHash: "hash"}
	require.NoError(s.T(), s.users.Create(s.ctx, u))
	assert.Equal(s.T(), "anya@example.com", u.Email)
	assert.False(s.T(), u.CreatedAt.IsZero())

	found, err := s.users.GetByEmail(s.ctx, "ANYA@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), u.ID, found.ID)

	found, err = s.users.GetByID(s.ctx, u.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Аня", found.Name)

	err = s.users.Create(s.ctx, &user.User{ID: uuid.New(), Name: "Другая", Email: "anya@example.com", PasswordHash: "x"})
	assert.ErrorIs(s.T(), err, repository.ErrDuplicate)

	_, err = s.users.GetByEmail(s.ctx, "nobody@example.com")
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestMigrationsIdempotent повторный Up ничего не меняет, Down и Up снова собирают схему
func (s *PostgresTestSuite) TestMigrationsIdempotent() {
	require.NoError(s.T(), migrations.Up(s.url))

	require.NoError(s.T(), migrations.Down(s.url))
	_, err := s.pool.Exec(s.ctx, "SELECT 1 FROM todos")
	assert.Error(s.T(), err)

	require.NoError(s.T(), migrations.Up(s.url))
	// подготовленные запросы ссылаются на старые таблицы
	s.pool.Reset()
	assert.NoError(s.T(), s.todos.Insert(s.ctx, s.newTodo(uuid.New(), "После миграций")))
}
