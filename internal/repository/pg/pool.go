package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoTracker/internal/logger"
	"todoTracker/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolConfig struct {
	URL            string
	MaxConnections int
	MinConnections int
	IdleTimeout    time.Duration
}

func Connect(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if cfg.MaxConnections > 0 {
		config.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		config.MinConns = int32(cfg.MinConnections)
	}
	if cfg.IdleTimeout > 0 {
		config.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return pool, nil
}

// MapError переводит коды ошибок postgres в ошибки репозитория
func MapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == "23505":
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	case len(pgErr.Code) == 5 && pgErr.Code[:2] == "23":
		return fmt.Errorf("%w: %s", repository.ErrConstraint, pgErr.Message)
	case pgErr.Code == "22001":
		// value too long for type character varying
		return fmt.Errorf("%w: %s", repository.ErrConstraint, pgErr.Message)
	}
	return err
}
