package worker

import (
	"context"
	"time"

	"todoTracker/internal/logger"

	"go.uber.org/zap"
)

// Sweeper хранилище, умеющее удалять просроченные сессии
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SessionSweeper периодически чистит реестр сессий
type SessionSweeper struct {
	store    Sweeper
	interval time.Duration
}

func NewSessionSweeper(store Sweeper, interval *time.Duration) *SessionSweeper {
	intervalToSet := 5 * time.Minute
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}
	return &SessionSweeper{store: store, interval: intervalToSet}
}

// Start блокируется до отмены ctx
func (w *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Очистка сессий останавливается")
			return
		}
	}
}

func (w *SessionSweeper) Check(ctx context.Context) int {
	start := time.Now()

	removed, err := w.store.Sweep(ctx)
	if err != nil {
		logger.Warn("Worker: Ошибка очистки сессий", zap.Error(err), zap.Int("removed", removed))
		return removed
	}

	logger.Info(
		"Worker: Завершение очистки сессий",
		zap.Duration("ms", time.Since(start)),
		zap.Int("removed", removed),
	)
	return removed
}
