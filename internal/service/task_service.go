package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskAPI/internal/logger"
	"taskAPI/internal/models/task"
	rep "taskAPI/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("service health check: %w", err)
	}
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, title, priority string, options ...task.Option) (*task.Task, error) {
	newTask := task.New(title, priority, options...)

	var vErr *task.ValidationError
	if err := newTask.Validate(); errors.As(err, &vErr) {
		return nil, NewValidationError(vErr)
	}

	if err := s.repo.Insert(ctx, newTask); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	logger.Info("Service: Задача создана", zap.String("task_id", newTask.ID.Hex()))
	return newTask, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Info("Service: Некорректный id задачи", zap.String("target_id", id))
		return nil, NewNotFound(id, rep.ErrNotFound)
	}

	found, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id))
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return found, nil
}

// UpdateTask применяет только переданные сеттеры и проверяет задачу перед сохранением
func (s *TaskService) UpdateTask(ctx context.Context, id string, options ...task.Option) (*task.Task, error) {
	start := time.Now()

	found, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	found.Apply(options...)

	var vErr *task.ValidationError
	if err := found.Validate(); errors.As(err, &vErr) {
		logger.Warn("Service: Задача не прошла валидацию",
			zap.String("task_id", id),
			zap.Strings("fields", vErr.Fields))
		return nil, NewValidationError(vErr)
	}

	if err := s.repo.Save(ctx, found); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(id, err)
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	logger.Info("Service: Задача обновлена",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)))
	return found, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	found, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteOne(ctx, found.ID); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(id, err)
		}
		return fmt.Errorf("delete task: %w", err)
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id))
	return nil
}
