package task

import (
	"time"
)

// Option - типизированный сеттер одного изменяемого поля
type Option func(*Task)

func WithTitle(title string) Option {
	return func(task *Task) {
		task.Title = title
	}
}

func WithPriority(priority string) Option {
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithCategory(category string) Option {
	return func(task *Task) {
		task.Category = category
	}
}

func WithNotes(notes string) Option {
	return func(task *Task) {
		task.Notes = notes
	}
}

func WithCompleted(completed bool) Option {
	return func(task *Task) {
		task.IsCompleted = completed
	}
}

func WithStarred(starred bool) Option {
	return func(task *Task) {
		task.IsStarred = starred
	}
}

// WithDueDate с nil очищает дедлайн
func WithDueDate(dueDate *time.Time) Option {
	return func(task *Task) {
		task.DueDate = dueDate
	}
}

func WithSubtasks(subtasks []string) Option {
	if subtasks == nil {
		subtasks = []string{}
	}
	return func(task *Task) {
		task.Subtasks = subtasks
	}
}
