package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/repository/pg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = time.Millisecond * 100

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Insert(ctx context.Context, todoToCreate *todo.Todo) error {
	start := time.Now()

	query := `INSERT INTO todos
				(id, title, description, end_date, color, completed, owner)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING created_at`

	var owner any = todoToCreate.Owner
	if todoToCreate.Owner == uuid.Nil {
		// пустой владелец уходит как NULL и отклоняется ограничением NOT NULL
		owner = nil
	}

	err := s.pool.QueryRow(ctx, query,
		todoToCreate.ID,
		todoToCreate.Title,
		todoToCreate.Description,
		todoToCreate.EndDate,
		string(todoToCreate.Color),
		todoToCreate.Completed,
		owner,
	).Scan(&todoToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", pg.MapError(err))
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) SelectByCompleted(ctx context.Context, owner uuid.UUID, completed bool) ([]todo.Todo, error) {
	start := time.Now()

	query := `SELECT
				id,
				title,
				description,
				end_date,
				color,
				completed,
				owner,
				created_at
				FROM todos
				WHERE owner = $1 AND completed = $2
				ORDER BY created_at, id`

	rows, err := s.pool.Query(ctx, query, owner, completed)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	todos := []todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return todos, nil
}

func (s *Storage) UpdateScoped(ctx context.Context, id, owner uuid.UUID, patch todo.Patch) (int64, error) {
	start := time.Now()

	sets := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.SetDescription {
		set("description", patch.Description)
	}
	if patch.SetEndDate {
		set("end_date", patch.EndDate)
	}
	if patch.Color != nil {
		set("color", string(*patch.Color))
	}
	if patch.Completed != nil {
		set("completed", *patch.Completed)
	}

	if len(sets) == 0 {
		logger.Debug("Repository: Пустое обновление", zap.String("todo_id", id.String()))
		return 0, nil
	}

	args = append(args, id, owner)
	query := fmt.Sprintf(`UPDATE todos SET %s WHERE id = $%d AND owner = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("обновление задачи: %w", pg.MapError(err))
	}

	if tag.RowsAffected() == 0 {
		logger.Info("Repository: Обновление не затронуло строк",
			zap.String("todo_id", id.String()),
			zap.String("owner", owner.String()))
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return tag.RowsAffected(), nil
}

func (s *Storage) DeleteScoped(ctx context.Context, id, owner uuid.UUID) (int64, error) {
	start := time.Now()

	query := `DELETE FROM todos
				WHERE id = $1 AND owner = $2`

	tag, err := s.pool.Exec(ctx, query, id, owner)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("удаление задачи: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return tag.RowsAffected(), nil
}


func scanTodo(row pgx.Row) (todo.Todo, error) {
	var (
		t     todo.Todo
		color string
	)
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.EndDate,
		&color,
		&t.Completed,
		&t.Owner,
		&t.CreatedAt,
	)
	t.Color = todo.Color(color)
	return t, err
}
