package handlers

import (
	"context"

	"taskAPI/internal/models/task"
)

type TaskService interface {
	HealthCheck(context.Context) error
	ListTasks(context.Context) ([]*task.Task, error)
	CreateTask(ctx context.Context, title, priority string, options ...task.Option) (*task.Task, error)
	GetTaskByID(context.Context, string) (*task.Task, error)
	UpdateTask(ctx context.Context, id string, options ...task.Option) (*task.Task, error)
	DeleteTask(context.Context, string) error
}
