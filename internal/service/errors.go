package service

import (
	"errors"
	"fmt"

	"taskAPI/internal/models/task"
)

const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
)

const MsgTaskNotFound = "Task not found"

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	return b.Message
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(id string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: MsgTaskNotFound,
		Details: map[string]any{
			"resource": "task",
			"id":       id,
		},
		Err: err,
	}
}

func NewValidationError(err *task.ValidationError) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: err.Message,
		Details: map[string]any{
			"fields": err.Fields,
		},
		Err: err,
	}
}

// AsBusinessError достаёт бизнес-ошибку из цепочки
func AsBusinessError(err error) (*BusinessError, bool) {
	var bErr *BusinessError
	if errors.As(err, &bErr) {
		return bErr, true
	}
	return nil, false
}

func (b *BusinessError) String() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}
