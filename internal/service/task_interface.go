package service

import (
	"context"

	"taskAPI/internal/models/task"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskRepository interface {
	FindAll(context.Context) ([]*task.Task, error)
	FindByID(context.Context, primitive.ObjectID) (*task.Task, error)
	Insert(context.Context, *task.Task) error
	Save(context.Context, *task.Task) error
	DeleteOne(context.Context, primitive.ObjectID) error
	HealthCheck(context.Context) error
	Close(context.Context) error
}
