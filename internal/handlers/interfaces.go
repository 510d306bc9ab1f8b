package handlers

import (
	"context"

	"todoTracker/internal/form"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/querycache"
	"todoTracker/internal/session"
	"todoTracker/internal/todos"

	"github.com/google/uuid"
)

type TodoController interface {
	Pending(ctx context.Context) ([]todo.Todo, error)
	Completed(ctx context.Context) ([]todo.Todo, error)
	Board(ctx context.Context) (todos.Board, error)
	Create(ctx context.Context, t todo.Todo) (todo.Todo, error)
	Update(ctx context.Context, id uuid.UUID, opts ...todo.TodoOption) (int64, error)
	ToggleCompleted(ctx context.Context, id uuid.UUID, completed bool) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CacheStats() querycache.Stats
}

type AuthService interface {
	SignUp(ctx context.Context, fields form.SignUpFields) (*session.Identity, error)
	SignIn(ctx context.Context, fields form.SignInFields) (*session.Identity, error)
	SignOut(ctx context.Context, token string) error
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
