package inmemory

import (
	"context"
	"sync"
	"time"

	"taskAPI/internal/logger"
	"taskAPI/internal/models/task"
	repo "taskAPI/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStorage хранит копии задач: наружу никогда не отдаётся внутренний указатель
type TaskStorage struct {
	storage map[primitive.ObjectID]*task.Task
	mtx     *sync.RWMutex
	ids     []primitive.ObjectID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[primitive.ObjectID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []primitive.ObjectID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Close(ctx context.Context) error {
	return nil
}

func (s *TaskStorage) Insert(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.ID = primitive.NewObjectID()
	taskToCreate.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	taskToCreate.Normalize()

	s.storage[taskToCreate.ID] = clone(taskToCreate)
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *TaskStorage) Save(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToUpdate.ID]; !ok {
		return repo.ErrNotFound
	}
	s.storage[taskToUpdate.ID] = clone(taskToUpdate)
	return nil
}

func (s *TaskStorage) FindByID(ctx context.Context, id primitive.ObjectID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(taskToGet), nil
}

// полное удаление
func (s *TaskStorage) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// задачи отдаются в порядке вставки
func (s *TaskStorage) FindAll(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, clone(s.storage[id]))
	}
	return res, nil
}

func clone(t *task.Task) *task.Task {
	c := *t
	if t.Subtasks != nil {
		c.Subtasks = append([]string{}, t.Subtasks...)
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return &c
}
