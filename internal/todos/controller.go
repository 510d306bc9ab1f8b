package todos

import (
	"context"

	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/querycache"
	"todoTracker/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Board struct {
	Pending   []todo.Todo `json:"pending"`
	Completed []todo.Todo `json:"completed"`
}

// Controller то, чем пользуются экраны: чтения идут через кеш, после каждой
// успешной мутации оба списка владельца инвалидируются
type Controller struct {
	repo     *Repository
	cache    *querycache.Cache[[]todo.Todo]
	sessions session.Accessor
}

func NewController(repo *Repository, cache *querycache.Cache[[]todo.Todo], sessions session.Accessor) *Controller {
	return &Controller{repo: repo, cache: cache, sessions: sessions}
}

func (c *Controller) Pending(ctx context.Context) ([]todo.Todo, error) {
	id, ok := c.sessions.Current(ctx)
	if !ok {
		return nil, &StoreError{Op: "list pending", Err: ErrNoSession}
	}
	return c.read(ctx, PendingKey(id.UserID), c.repo.ListPending)
}

func (c *Controller) Completed(ctx context.Context) ([]todo.Todo, error) {
	id, ok := c.sessions.Current(ctx)
	if !ok {
		return nil, &StoreError{Op: "list completed", Err: ErrNoSession}
	}
	return c.read(ctx, CompletedKey(id.UserID), c.repo.ListCompleted)
}

// Board оба списка сразу; читаются параллельно
func (c *Controller) Board(ctx context.Context) (Board, error) {
	var b Board
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		b.Pending, err = c.Pending(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		b.Completed, err = c.Completed(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Board{}, err
	}
	return b, nil
}

func (c *Controller) read(ctx context.Context, key string, fetch querycache.Fetcher[[]todo.Todo]) ([]todo.Todo, error) {
	todos, err := c.cache.Get(ctx, key, fetch)
	if err != nil {
		return nil, err
	}
	// кешированный срез не отдаём наружу, чтобы его нельзя было испортить
	out := make([]todo.Todo, len(todos))
	for i, t := range todos {
		out[i] = t.Clone()
	}
	return out, nil
}

func (c *Controller) Create(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	created, err := c.repo.Create(ctx, t)
	if err != nil {
		return todo.Todo{}, err
	}
	c.invalidate(ctx, created.Owner)
	return created, nil
}

func (c *Controller) Update(ctx context.Context, id uuid.UUID, opts ...todo.TodoOption) (int64, error) {
	affected, err := c.repo.Update(ctx, id, opts...)
	if err != nil {
		return 0, err
	}
	c.invalidateCurrent(ctx)
	return affected, nil
}

func (c *Controller) UpdateFull(ctx context.Context, t todo.Todo) (int64, error) {
	return c.Update(ctx, t.ID, todo.FullUpdate(t)...)
}

// ToggleCompleted выставляет признак выполнения; задача переезжает в другой список
func (c *Controller) ToggleCompleted(ctx context.Context, id uuid.UUID, completed bool) (int64, error) {
	return c.Update(ctx, id, todo.WithCompleted(completed))
}

func (c *Controller) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	affected, err := c.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	c.invalidateCurrent(ctx)
	return affected, nil
}

// CacheStats счётчики кеша списков
func (c *Controller) CacheStats() querycache.Stats {
	return c.cache.Stats()
}

func (c *Controller) invalidateCurrent(ctx context.Context) {
	id, ok := c.sessions.Current(ctx)
	if !ok {
		return
	}
	c.invalidate(ctx, id.UserID)
}

// мутация уже прошла, поэтому сбой кеша только логируем
func (c *Controller) invalidate(ctx context.Context, owner uuid.UUID) {
	if err := c.cache.Invalidate(ctx, Keys(owner)...); err != nil {
		logger.Error("Cache: Не удалось инвалидировать списки", err, zap.String("owner", owner.String()))
	}
}
