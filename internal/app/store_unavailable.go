package app

import (
	"context"
	"fmt"

	"taskAPI/internal/models/task"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// unavailableRepository подставляется, если клиент хранилища не удалось даже создать:
// сервер продолжает работать и отдаёт ошибку подключения на каждый запрос
type unavailableRepository struct {
	err error
}

func newUnavailableRepository(err error) *unavailableRepository {
	return &unavailableRepository{err: fmt.Errorf("store unavailable: %w", err)}
}

func (u *unavailableRepository) FindAll(context.Context) ([]*task.Task, error) {
	return nil, u.err
}

func (u *unavailableRepository) FindByID(context.Context, primitive.ObjectID) (*task.Task, error) {
	return nil, u.err
}

func (u *unavailableRepository) Insert(context.Context, *task.Task) error {
	return u.err
}

func (u *unavailableRepository) Save(context.Context, *task.Task) error {
	return u.err
}

func (u *unavailableRepository) DeleteOne(context.Context, primitive.ObjectID) error {
	return u.err
}

func (u *unavailableRepository) HealthCheck(context.Context) error {
	return u.err
}

func (u *unavailableRepository) Close(context.Context) error {
	return nil
}
