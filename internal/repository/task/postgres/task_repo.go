package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"taskAPI/internal/logger"
	"taskAPI/internal/models/task"
	repo "taskAPI/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// задачи лежат документами в jsonb, seq сохраняет порядок вставки
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id  TEXT PRIMARY KEY,
	seq BIGSERIAL,
	doc JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_seq ON tasks(seq);
`

const slowOperation = 100 * time.Millisecond

type Options struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

type Storage struct {
	pool *pgxpool.Pool

	schemaMu    sync.Mutex
	schemaReady atomic.Bool
}

// New не ходит в базу: пул подключается при первом запросе
func New(ctx context.Context, opts Options) (*Storage, error) {
	config, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	logger.Info("Repository: Пул PostgreSQL создан")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close(ctx context.Context) error {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("ping postgres: %w", err)
	}
	return s.ensureSchema(ctx)
}

func (s *Storage) ensureSchema(ctx context.Context) error {
	if s.schemaReady.Load() {
		return nil
	}

	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady.Load() {
		return nil
	}

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	s.schemaReady.Store(true)
	return nil
}

func (s *Storage) FindAll(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()
	defer observe("find_all", start)

	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `SELECT doc FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := pgx.CollectRows(rows, pgx.RowToAddrOf[task.Task])
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	for _, t := range tasks {
		t.Normalize()
	}
	return tasks, nil
}

func (s *Storage) FindByID(ctx context.Context, id primitive.ObjectID) (*task.Task, error) {
	start := time.Now()
	defer observe("find_by_id", start)

	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var found task.Task
	err := s.pool.QueryRow(ctx, `SELECT doc FROM tasks WHERE id = $1`, id.Hex()).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("query task: %w", err)
	}
	found.Normalize()
	return &found, nil
}

func (s *Storage) Insert(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer observe("insert", start)

	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	taskToCreate.ID = primitive.NewObjectID()
	taskToCreate.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	taskToCreate.Normalize()

	_, err := s.pool.Exec(ctx, `INSERT INTO tasks (id, doc) VALUES ($1, $2)`, taskToCreate.ID.Hex(), taskToCreate)
	if err != nil {
		taskToCreate.ID = primitive.NilObjectID
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Storage) Save(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()
	defer observe("save", start)

	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	taskToUpdate.Normalize()
	tag, err := s.pool.Exec(ctx, `UPDATE tasks SET doc = $1 WHERE id = $2`, taskToUpdate, taskToUpdate.ID.Hex())
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// полное удаление из БД
func (s *Storage) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	defer observe("delete_one", start)

	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id.Hex())
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func observe(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowOperation {
		logger.Warn("Repository: Медленная операция",
			zap.String("operation", op),
			zap.Duration("ms", elapsed))
	}
}
