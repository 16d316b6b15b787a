package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskAPI/internal/logger"
	"taskAPI/internal/models/task"
	repo "taskAPI/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"
)

const (
	CollectionName  = "tasks"
	DefaultDatabase = "test"

	slowOperation = 100 * time.Millisecond
)

type Options struct {
	URI             string
	Database        string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

type Storage struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New создаёт клиента, но не ждёт сервер: драйвер подключается лениво.
// Доступность проверяется через HealthCheck.
func New(ctx context.Context, opts Options) (*Storage, error) {
	cs, err := connstring.ParseAndValidate(opts.URI)
	if err != nil {
		logger.Error("Repository: Некорректная строка подключения MongoDB", err)
		return nil, fmt.Errorf("parse mongo uri: %w", err)
	}

	dbName := opts.Database
	if dbName == "" {
		dbName = cs.Database
	}
	if dbName == "" {
		dbName = DefaultDatabase
	}

	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}
	if opts.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(opts.MaxConnIdleTime)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Error("Repository: Ошибка создания клиента MongoDB", err)
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	logger.Info("Repository: Клиент MongoDB создан",
		zap.String("database", dbName),
		zap.String("collection", CollectionName))

	return &Storage{
		client: client,
		coll:   client.Database(dbName).Collection(CollectionName),
	}, nil
}

func (s *Storage) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	logger.Info("Repository: Закрытие всех соединений MongoDB")
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

func (s *Storage) FindAll(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()
	defer observe("find_all", start)

	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	tasks := []*task.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	for _, t := range tasks {
		t.Normalize()
	}
	return tasks, nil
}

func (s *Storage) FindByID(ctx context.Context, id primitive.ObjectID) (*task.Task, error) {
	start := time.Now()
	defer observe("find_by_id", start)

	var found task.Task
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&found)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	found.Normalize()
	return &found, nil
}

func (s *Storage) Insert(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer observe("insert", start)

	taskToCreate.ID = primitive.NewObjectID()
	taskToCreate.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	taskToCreate.Normalize()

	if _, err := s.coll.InsertOne(ctx, taskToCreate); err != nil {
		taskToCreate.ID = primitive.NilObjectID
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Save заменяет документ целиком, как save() у загруженной модели
func (s *Storage) Save(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()
	defer observe("save", start)

	taskToUpdate.Normalize()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": taskToUpdate.ID}, taskToUpdate)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	defer observe("delete_one", start)

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
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
