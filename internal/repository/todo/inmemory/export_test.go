package inmemory

import (
	"context"

	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
)

// GetByID задача без ограничения владельцем
func (s *TodoStorage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := t.Clone()
	return &c, nil
}
