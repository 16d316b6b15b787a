package dto

import (
	"errors"
	"time"

	"taskAPI/internal/models/task"
)

const MsgRequiredFields = "Title and priority are required fields."

var ErrRequiredFields = errors.New("title and priority are required")

// CreateTaskRequest - тело POST /tasks после подстановки значений по умолчанию
type CreateTaskRequest struct {
	Title       string
	Category    string
	Priority    string
	IsCompleted *bool
	DueDate     *time.Time
	Notes       string
	Subtasks    []string
	IsStarred   *bool
}

// DecodeCreate: для строк пустое значение заменяется дефолтом,
// для булевых - только отсутствующее или null
func DecodeCreate(body map[string]any) (CreateTaskRequest, error) {
	var req CreateTaskRequest

	if isFalsy(body["title"]) || isFalsy(body["priority"]) {
		return req, ErrRequiredFields
	}

	var err error
	if req.Title, err = toString("title", body["title"]); err != nil {
		return req, err
	}
	if req.Priority, err = toString("priority", body["priority"]); err != nil {
		return req, err
	}

	req.Category = task.DefaultCategory
	if v := body["category"]; !isFalsy(v) {
		if req.Category, err = toString("category", v); err != nil {
			return req, err
		}
	}

	if v := body["notes"]; !isFalsy(v) {
		if req.Notes, err = toString("notes", v); err != nil {
			return req, err
		}
	}

	if req.IsCompleted, err = optionalBool("isCompleted", body["isCompleted"]); err != nil {
		return req, err
	}
	if req.IsStarred, err = optionalBool("isStarred", body["isStarred"]); err != nil {
		return req, err
	}

	if v := body["dueDate"]; !isFalsy(v) {
		due, err := toDate("dueDate", v)
		if err != nil {
			return req, err
		}
		req.DueDate = &due
	}

	req.Subtasks = []string{}
	if v := body["subtasks"]; isArray(v) {
		if req.Subtasks, err = toStringSlice("subtasks", v); err != nil {
			return req, err
		}
	}

	return req, nil
}

// Options переводит запрос в сеттеры модели; заголовок и приоритет передаются отдельно
func (r CreateTaskRequest) Options() []task.Option {
	opts := []task.Option{
		task.WithCategory(r.Category),
		task.WithNotes(r.Notes),
		task.WithDueDate(r.DueDate),
		task.WithSubtasks(r.Subtasks),
	}
	if r.IsCompleted != nil {
		opts = append(opts, task.WithCompleted(*r.IsCompleted))
	}
	if r.IsStarred != nil {
		opts = append(opts, task.WithStarred(*r.IsStarred))
	}
	return opts
}

func optionalBool(field string, v any) (*bool, error) {
	if isNullish(v) {
		return nil, nil
	}
	b, err := toBool(field, v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

type fieldSetter func(v any) (task.Option, error)

// mutableFields - единственные поля, которые можно менять через PATCH.
// id и createdAt сюда намеренно не входят.
var mutableFields = map[string]fieldSetter{
	"title": func(v any) (task.Option, error) {
		s, err := toString("title", v)
		return task.WithTitle(s), err
	},
	"priority": func(v any) (task.Option, error) {
		s, err := toString("priority", v)
		return task.WithPriority(s), err
	},
	"category": func(v any) (task.Option, error) {
		s, err := toString("category", v)
		return task.WithCategory(s), err
	},
	"notes": func(v any) (task.Option, error) {
		s, err := toString("notes", v)
		return task.WithNotes(s), err
	},
	"isCompleted": func(v any) (task.Option, error) {
		b, err := toBool("isCompleted", v)
		return task.WithCompleted(b), err
	},
	"isStarred": func(v any) (task.Option, error) {
		b, err := toBool("isStarred", v)
		return task.WithStarred(b), err
	},
	"dueDate": func(v any) (task.Option, error) {
		// пустая строка очищает дату так же, как null
		if isNullish(v) || v == "" {
			return task.WithDueDate(nil), nil
		}
		due, err := toDate("dueDate", v)
		if err != nil {
			return nil, err
		}
		return task.WithDueDate(&due), nil
	},
	"subtasks": func(v any) (task.Option, error) {
		if isNullish(v) {
			return task.WithSubtasks(nil), nil
		}
		if isArray(v) {
			items, err := toStringSlice("subtasks", v)
			return task.WithSubtasks(items), err
		}
		// одиночное значение приводится к массиву из одного элемента
		s, err := toString("subtasks", v)
		if err != nil {
			return nil, castError("subtasks", "[string]", v)
		}
		return task.WithSubtasks([]string{s}), nil
	},
}

// DecodeUpdate собирает сеттеры только для известных изменяемых полей.
// Неизвестные ключи, id и createdAt игнорируются.
func DecodeUpdate(body map[string]any) ([]task.Option, error) {
	opts := make([]task.Option, 0, len(body))
	for key, v := range body {
		setter, ok := mutableFields[key]
		if !ok {
			continue
		}
		opt, err := setter(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}
