package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskAPI/internal/config"
	"taskAPI/internal/handlers"
	"taskAPI/internal/logger"
	"taskAPI/internal/middleware"
	"taskAPI/internal/repository/task/inmemory"
	"taskAPI/internal/repository/task/mongodb"
	"taskAPI/internal/repository/task/postgres"
	"taskAPI/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	connectionCheckTimeout = 10 * time.Second
	shutdownTimeout        = 10 * time.Second
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository // интерфейс!
	service    *service.TaskService
	shutdowns  []func(context.Context) // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(context.Context), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func(context.Context) {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	repo, storeName := a.openRepository(ctx)
	a.repository = repo
	a.shutdowns = append(a.shutdowns, func(ctx context.Context) {
		if err := repo.Close(ctx); err != nil {
			logger.Error("App: Ошибка закрытия хранилища", err)
		}
	})

	a.service = service.NewTaskService(repo)
	a.router = NewRouter(handlers.NewTaskHandler(a.service, storeName))
	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	return nil
}

// openRepository никогда не блокирует старт: ошибка подключения только логируется
func (a *App) openRepository(ctx context.Context) (service.TaskRepository, string) {
	db := a.config.Database

	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		logger.Info("App: Используется хранилище в памяти")
		return inmemory.NewTaskStorage(), "in-memory store"

	case config.RepositoryPostgres:
		const name = "PostgreSQL"
		repo, err := postgres.New(ctx, postgres.Options{
			URL:             db.URL,
			MaxConns:        int32(db.MaxConnections),
			MinConns:        int32(db.MinConnections),
			MaxConnIdleTime: db.IdleTimeout,
		})
		if err != nil {
			logger.Error("❌ "+name+" Connection Error", err)
			return newUnavailableRepository(err), name
		}
		go checkConnection(repo, name)
		return repo, name

	default:
		const name = "MongoDB"
		repo, err := mongodb.New(ctx, mongodb.Options{
			URI:             db.URL,
			Database:        db.Name,
			MaxPoolSize:     uint64(max(db.MaxConnections, 0)),
			MinPoolSize:     uint64(max(db.MinConnections, 0)),
			MaxConnIdleTime: db.IdleTimeout,
		})
		if err != nil {
			logger.Error("❌ "+name+" Connection Error", err)
			return newUnavailableRepository(err), name
		}
		go checkConnection(repo, name)
		return repo, name
	}
}

func checkConnection(repo service.TaskRepository, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), connectionCheckTimeout)
	defer cancel()

	if err := repo.HealthCheck(ctx); err != nil {
		logger.Error("❌ "+name+" Connection Error", err)
		return
	}
	logger.Info("✅ Connected to " + name + " successfully!")
}

func NewRouter(h *handlers.TaskHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS())
	r.Use(chimw.StripSlashes)

	// неподдерживаемый метод на известном пути отвечает так же, как неизвестный маршрут
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/", h.Root)              // GET /
	r.Get("/health", h.HealthCheck) // GET /health

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)   // GET /api/tasks
		r.Post("/", h.CreateTask) // POST /api/tasks

		r.Patch("/{id}", h.UpdateTask)  // PATCH /api/tasks/{id}
		r.Delete("/{id}", h.DeleteTask) // DELETE /api/tasks/{id}
	})

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"message":"Not found"}` + "\n"))
}

func (a *App) Router() http.Handler {
	return a.router
}

// Run слушает порт, пока не отменён ctx, затем выполняет graceful shutdown
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Server running", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.Shutdown()
			return fmt.Errorf("listen %s: %w", a.server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Shutdown()
	return nil
}

func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			logger.Error("App: Ошибка остановки HTTP сервера", err)
		}
	}

	// в обратном порядке: логгер закрывается последним
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i](ctx)
	}
}
