package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/user"
	repo "todoTracker/internal/repository"
	"todoTracker/internal/repository/pg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) Create(ctx context.Context, u *user.User) error {
	start := time.Now()

	query := `INSERT INTO users (id, name, email, password_hash)
				VALUES ($1, $2, $3, $4)
				RETURNING created_at`

	u.Email = strings.ToLower(u.Email)
	err := s.pool.QueryRow(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash).Scan(&u.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить пользователя", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", pg.MapError(err))
	}
	return nil
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT id, name, email, password_hash, created_at
				FROM users
				WHERE email = $1`
	return s.getOne(ctx, query, strings.ToLower(email))
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT id, name, email, password_hash, created_at
				FROM users
				WHERE id = $1`
	return s.getOne(ctx, query, id)
}

func (s *Storage) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	start := time.Now()

	u := &user.User{}
	err := s.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return u, nil
}
