package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TodoStorage хранилище задач в памяти. Повторяет поведение таблицы todos:
// владелец обязателен, выборки и изменения ограничены владельцем
type TodoStorage struct {
	storage map[uuid.UUID]*todo.Todo
	mtx     *sync.RWMutex
	ids     []uuid.UUID
	now     func() time.Time
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[uuid.UUID]*todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
		now:     time.Now,
	}
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *TodoStorage) Insert(ctx context.Context, todoToCreate *todo.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if todoToCreate.Owner == uuid.Nil {
		return fmt.Errorf("%w: owner не задан", repo.ErrConstraint)
	}
	if todoToCreate.ID == uuid.Nil {
		return fmt.Errorf("%w: id не задан", repo.ErrConstraint)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[todoToCreate.ID]; ok {
		logger.Warn("Repository: Повторный id задачи", zap.String("todo_id", todoToCreate.ID.String()))
		return fmt.Errorf("%w: todos_pkey", repo.ErrDuplicate)
	}

	todoToCreate.CreatedAt = s.now()
	stored := todoToCreate.Clone()
	s.storage[stored.ID] = &stored
	s.ids = append(s.ids, stored.ID)
	return nil
}

// SelectByCompleted выборка задач владельца в порядке создания
func (s *TodoStorage) SelectByCompleted(ctx context.Context, owner uuid.UUID, completed bool) ([]todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []todo.Todo{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.Owner != owner || t.Completed != completed {
			continue
		}
		res = append(res, t.Clone())
	}
	return res, nil
}

// UpdateScoped обновляет строку только при совпадении id и владельца,
// возвращает число затронутых строк
func (s *TodoStorage) UpdateScoped(ctx context.Context, id, owner uuid.UUID, patch todo.Patch) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok || t.Owner != owner {
		return 0, nil
	}

	updated := t.Clone()
	patch.Apply(&updated)
	s.storage[id] = &updated
	return 1, nil
}

func (s *TodoStorage) DeleteScoped(ctx context.Context, id, owner uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok || t.Owner != owner {
		return 0, nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return 1, nil
}
