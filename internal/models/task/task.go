package task

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultCategory = "General"

type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Category    string             `json:"category" bson:"category"`
	Priority    string             `json:"priority" bson:"priority"`
	IsCompleted bool               `json:"isCompleted" bson:"isCompleted"`
	DueDate     *time.Time         `json:"dueDate" bson:"dueDate"`
	Notes       string             `json:"notes" bson:"notes"`
	Subtasks    []string           `json:"subtasks" bson:"subtasks"`
	IsStarred   bool               `json:"isStarred" bson:"isStarred"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// New собирает задачу с значениями по умолчанию и применяет опции поверх них
func New(title, priority string, options ...Option) *Task {
	t := &Task{
		Title:    title,
		Category: DefaultCategory,
		Priority: priority,
		Subtasks: []string{},
	}
	t.Apply(options...)
	return t
}

// Apply пропускает nil-опции: так конструкторы With* сообщают "значение не задано"
func (t *Task) Apply(options ...Option) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
	t.Normalize()
}

// Normalize гарантирует, что subtasks отдаются как [], а не null
func (t *Task) Normalize() {
	if t.Subtasks == nil {
		t.Subtasks = []string{}
	}
}

// Validate вызывается перед каждым сохранением
func (t *Task) Validate() error {
	var missing []string
	if t.Title == "" {
		missing = append(missing, "title")
	}
	if t.Priority == "" {
		missing = append(missing, "priority")
	}
	if len(missing) == 0 {
		return nil
	}

	msg := "Task validation failed: "
	for i, field := range missing {
		if i > 0 {
			msg += ", "
		}
		msg += fmt.Sprintf("%s: Path `%s` is required.", field, field)
	}
	return &ValidationError{Fields: missing, Message: msg}
}

type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
