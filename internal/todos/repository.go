// Package todos клиентский контракт работы с задачами: репозиторий поверх
// удалённого хранилища и контроллер, который держит кеш списков в актуальном
// состоянии.
package todos

import (
	"context"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store удалённое хранилище; выборки и изменения всегда ограничены владельцем
type Store interface {
	Insert(ctx context.Context, t *todo.Todo) error
	SelectByCompleted(ctx context.Context, owner uuid.UUID, completed bool) ([]todo.Todo, error)
	UpdateScoped(ctx context.Context, id, owner uuid.UUID, patch todo.Patch) (int64, error)
	DeleteScoped(ctx context.Context, id, owner uuid.UUID) (int64, error)
}

// Repository переводит намерения в вызовы хранилища. Владелец берётся из
// текущей сессии при каждом вызове, ошибки не повторяются и не маскируются
type Repository struct {
	store    Store
	sessions session.Accessor
}

func NewRepository(store Store, sessions session.Accessor) *Repository {
	return &Repository{store: store, sessions: sessions}
}

func (r *Repository) ListPending(ctx context.Context) ([]todo.Todo, error) {
	return r.list(ctx, "list pending", false)
}

func (r *Repository) ListCompleted(ctx context.Context) ([]todo.Todo, error) {
	return r.list(ctx, "list completed", true)
}

func (r *Repository) list(ctx context.Context, op string, completed bool) ([]todo.Todo, error) {
	id, ok := r.sessions.Current(ctx)
	if !ok {
		return nil, &StoreError{Op: op, Err: ErrNoSession}
	}

	start := time.Now()
	todos, err := r.store.SelectByCompleted(ctx, id.UserID, completed)
	if err != nil {
		logger.Error("Repository: Ошибка выборки задач", err, zap.String("op", op))
		return nil, &StoreError{Op: op, Err: err}
	}
	logger.Debug("Repository: Выборка задач",
		zap.String("op", op),
		zap.Int("count", len(todos)),
		zap.Duration("duration", time.Since(start)),
	)
	return todos, nil
}

// Create записывает задачу, подставляя владельца из сессии
func (r *Repository) Create(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	id, ok := r.sessions.Current(ctx)
	if !ok {
		return todo.Todo{}, &AuthError{Op: "create"}
	}

	t = t.Clone()
	t.Owner = id.UserID
	if t.Color == "" {
		t.Color = todo.DefaultColor
	}
	t.EndDate = todo.TruncateDate(t.EndDate)

	if err := r.store.Insert(ctx, &t); err != nil {
		logger.Error("Repository: Ошибка создания задачи", err, zap.String("todo_id", t.ID.String()))
		return todo.Todo{}, &StoreError{Op: "create", Err: err}
	}
	return t, nil
}

// Update частичное обновление по id и владельцу. Ноль затронутых строк
// ошибкой не считается, решение за вызывающим
func (r *Repository) Update(ctx context.Context, id uuid.UUID, opts ...todo.TodoOption) (int64, error) {
	identity, ok := r.sessions.Current(ctx)
	if !ok {
		return 0, &AuthError{Op: "update"}
	}

	patch := todo.NewPatch(opts...)
	if patch.Empty() {
		return 0, nil
	}

	affected, err := r.store.UpdateScoped(ctx, id, identity.UserID, patch)
	if err != nil {
		logger.Error("Repository: Ошибка обновления задачи", err, zap.String("todo_id", id.String()))
		return 0, &StoreError{Op: "update", Err: err}
	}
	if affected == 0 {
		logger.Debug("Repository: Обновление не затронуло строк", zap.String("todo_id", id.String()))
	}
	return affected, nil
}

// UpdateFull записывает все изменяемые поля задачи
func (r *Repository) UpdateFull(ctx context.Context, t todo.Todo) (int64, error) {
	return r.Update(ctx, t.ID, todo.FullUpdate(t)...)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	identity, ok := r.sessions.Current(ctx)
	if !ok {
		return 0, &AuthError{Op: "delete"}
	}

	affected, err := r.store.DeleteScoped(ctx, id, identity.UserID)
	if err != nil {
		logger.Error("Repository: Ошибка удаления задачи", err, zap.String("todo_id", id.String()))
		return 0, &StoreError{Op: "delete", Err: err}
	}
	return affected, nil
}
