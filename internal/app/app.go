package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"todoTracker/internal/auth"
	"todoTracker/internal/config"
	"todoTracker/internal/handlers"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"
	"todoTracker/internal/migrations"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/querycache"
	"todoTracker/internal/repository/pg"
	todoinmemory "todoTracker/internal/repository/todo/inmemory"
	todopostgres "todoTracker/internal/repository/todo/postgres"
	userinmemory "todoTracker/internal/repository/user/inmemory"
	userpostgres "todoTracker/internal/repository/user/postgres"
	"todoTracker/internal/session"
	"todoTracker/internal/todos"
	"todoTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// todoStore хранилище задач вместе с проверкой соединения
type todoStore interface {
	todos.Store
	handlers.HealthChecker
}

type sessionStore interface {
	session.Store
	worker.Sweeper
}

type App struct {
	config    *config.Config
	server    *http.Server
	handler   http.Handler
	sweeper   *worker.SessionSweeper
	shutdowns []func(context.Context) error // выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(context.Context) error, 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.onShutdown(func(context.Context) error {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
		return nil
	})

	store, userStore, err := a.initStorage(ctx)
	if err != nil {
		return err
	}

	cacheBackend, sessions, err := a.initCache(ctx)
	if err != nil {
		return err
	}

	authService := auth.NewService(
		userStore,
		auth.NewPasswordHasher(a.config.Auth.BcryptCost),
		auth.NewTokenManager(a.config.Auth.JWTSecret, a.config.Auth.TokenTTL, a.config.Auth.Issuer),
		sessions,
	)

	accessor := session.ContextAccessor{}
	controller := todos.NewController(
		todos.NewRepository(store, accessor),
		querycache.New[[]todo.Todo](cacheBackend),
		accessor,
	)

	a.onShutdown(func(context.Context) error {
		stats := controller.CacheStats()
		logger.Info("Cache: Статистика кеша списков",
			zap.Uint64("hits", stats.Hits),
			zap.Uint64("misses", stats.Misses),
			zap.Uint64("invalidations", stats.Invalidations),
			zap.Uint64("stale", stats.Stale),
			zap.Uint64("errors", stats.Errors))
		return nil
	})

	a.handler = a.router(
		handlers.NewTodoHandler(controller, store),
		handlers.NewAuthHandler(authService),
		authService,
	)

	interval := a.config.Worker.SweepInterval
	a.sweeper = worker.NewSessionSweeper(sessions, &interval)

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("cache", a.config.Cache.Type))
	return nil
}

func (a *App) initStorage(ctx context.Context) (todoStore, auth.UserStore, error) {
	if a.config.Repository.Type != config.RepositoryPostgres {
		logger.Info("Repository: Используется хранилище в памяти")
		return todoinmemory.NewTodoStorage(), userinmemory.NewUserStorage(), nil
	}

	if a.config.Database.Migrate {
		if err := migrations.Up(a.config.Database.URL); err != nil {
			return nil, nil, err
		}
	}

	pool, err := pg.Connect(ctx, pg.PoolConfig{
		URL:            a.config.Database.URL,
		MaxConnections: a.config.Database.MaxConnections,
		MinConnections: a.config.Database.MinConnections,
		IdleTimeout:    a.config.Database.IdleTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	a.onShutdown(func(context.Context) error {
		logger.Info("Закрытие пула соединений с БД...")
		pool.Close()
		return nil
	})

	return todopostgres.New(pool), userpostgres.New(pool), nil
}

func (a *App) initCache(ctx context.Context) (querycache.Backend[[]todo.Todo], sessionStore, error) {
	if !a.config.UsesRedis() {
		return querycache.NewMemoryBackend[[]todo.Todo](), session.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.config.Redis.Addr,
		Password: a.config.Redis.Password,
		DB:       a.config.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("подключение к Redis: %w", err)
	}
	a.onShutdown(func(context.Context) error {
		logger.Info("Закрытие соединения с Redis...")
		return client.Close()
	})

	return querycache.NewRedisBackend[[]todo.Todo](client, a.config.Cache.Prefix), session.NewRedisStore(client), nil
}

func (a *App) router(todoHandler *handlers.TodoHandler, authHandler *handlers.AuthHandler, authenticator middleware.Authenticator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	if a.config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
	}
	if a.config.Server.RateLimit > 0 {
		r.Use(middleware.RateLimit(a.config.Server.RateLimit))
	}

	r.Mount("/", handlers.Routes(todoHandler, authHandler, authenticator))

	return otelhttp.NewHandler(r, "todo-api")
}

// Handler корневой обработчик; доступен после Init
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run запускает сервер и очистку сессий, блокируется до отмены ctx
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go a.sweeper.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("сервер: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

func (a *App) Shutdown(ctx context.Context) error {
	var err error
	if a.server != nil {
		logger.Info("Остановка HTTP сервера...")
		err = multierr.Append(err, a.server.Shutdown(ctx))
	}
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.shutdowns[i](ctx))
	}
	a.shutdowns = nil
	return err
}

func (a *App) onShutdown(fn func(context.Context) error) {
	a.shutdowns = append(a.shutdowns, fn)
}
