package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"todoTracker/internal/worker"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Sweep(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 2, s.err
}

func TestSessionSweeper_Check(t *testing.T) {
	store := &countingSweeper{}
	w := worker.NewSessionSweeper(store, nil)

	assert.Equal(t, 2, w.Check(context.Background()))
	assert.EqualValues(t, 1, store.calls.Load())

	store.err = errors.New("redis down")
	assert.Equal(t, 2, w.Check(context.Background()))
}

// TestSessionSweeper_Start тестирует периодический запуск и остановку по контексту
func TestSessionSweeper_Start(t *testing.T) {
	store := &countingSweeper{}
	interval := 10 * time.Millisecond
	w := worker.NewSessionSweeper(store, &interval)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("воркер не остановился")
	}
}
