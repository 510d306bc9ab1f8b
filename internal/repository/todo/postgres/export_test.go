package postgres

import (
	"context"
	"errors"
	"fmt"

	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetByID задача без ограничения владельцем
func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	query := `SELECT id, title, description, end_date, color, completed, owner, created_at
				FROM todos
				WHERE id = $1`

	t, err := scanTodo(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return &t, nil
}
