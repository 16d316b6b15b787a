package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"taskAPI/internal/handlers"
	"taskAPI/internal/models/task"
	"taskAPI/internal/repository"
	"taskAPI/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockTaskService - мок сервиса
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) CreateTask(ctx context.Context, title, priority string, options ...task.Option) (*task.Task, error) {
	args := m.Called(ctx, title, priority, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id string, options ...task.Option) (*task.Task, error) {
	args := m.Called(ctx, id, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

func newRouter(h *handlers.TaskHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Get("/health", h.HealthCheck)
	r.Get("/api/tasks", h.ListTasks)
	r.Post("/api/tasks", h.CreateTask)
	r.Patch("/api/tasks/{id}", h.UpdateTask)
	r.Delete("/api/tasks/{id}", h.DeleteTask)
	return r
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	msg, _ := resp["message"].(string)
	return msg
}

func notFound(id string) error {
	return service.NewNotFound(id, repository.ErrNotFound)
}

func TestTaskHandler_Root(t *testing.T) {
	h := handlers.NewTaskHandler(new(MockTaskService), "MongoDB")

	w := do(t, newRouter(h), "GET", "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "🚀 Server is running and connected to MongoDB!", w.Body.String())
}

func TestTaskHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("service unavailable"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(handlers.NewTaskHandler(mockService, "MongoDB")), "GET", "/health", "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), handlers.ServiceName)
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Run("success - empty list is []", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("ListTasks", mock.Anything).Return([]*task.Task{}, nil)

		w := do(t, newRouter(handlers.NewTaskHandler(mockService, "MongoDB")), "GET", "/api/tasks", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("error - store failure is 500 with message", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("ListTasks", mock.Anything).Return(nil, errors.New("connection refused"))

		w := do(t, newRouter(handlers.NewTaskHandler(mockService, "MongoDB")), "GET", "/api/tasks", "", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "connection refused", message(t, w))
	})
}

func TestTaskHandler_CreateTask(t *testing.T) {
	taskID := primitive.NewObjectID()
	createdAt := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	stored := func() *task.Task {
		tk := task.New("Buy milk", "high")
		tk.ID = taskID
		tk.CreatedAt = createdAt
		return tk
	}

	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockTaskService)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success - create task",
			requestBody: `{"title":"Buy milk","priority":"high"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, "Buy milk", "high", mock.Anything).Return(stored(), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "success - urlencoded form",
			requestBody: url.Values{"title": {"Buy milk"}, "priority": {"high"}}.Encode(),
			contentType: "application/x-www-form-urlencoded",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, "Buy milk", "high", mock.Anything).Return(stored(), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - missing title",
			requestBody:    `{"priority":"high"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Title and priority are required fields.",
		},
		{
			name:           "error - unsupported content type is an empty body",
			requestBody:    `{"title":"Buy milk","priority":"high"}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Title and priority are required fields.",
		},
		{
			name:           "error - invalid JSON falls to catch-all",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Something went wrong!",
		},
		{
			name:           "error - uncastable due date is 500",
			requestBody:    `{"title":"a","priority":"b","dueDate":"soon"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    `Cast to Date failed for value "soon" at path "dueDate"`,
		},
		{
			name:           "error - object title is 500",
			requestBody:    `{"title":{"x":1},"priority":"b"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    `Cast to string failed for value {"x":1} at path "title"`,
		},
		{
			name:           "error - JSON null body falls to catch-all",
			requestBody:    `null`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Something went wrong!",
		},
		{
			name:           "error - JSON scalar body falls to catch-all",
			requestBody:    `"title"`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Something went wrong!",
		},
		{
			name:           "error - JSON array body is an empty object",
			requestBody:    `[1,2]`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Title and priority are required fields.",
		},
		{
			name:        "error - service error",
			requestBody: `{"title":"a","priority":"b"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, "a", "b", mock.Anything).Return(nil, errors.New("insert failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "insert failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(handlers.NewTaskHandler(mockService, "MongoDB")), "POST", "/api/tasks", tt.contentType, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, message(t, w))
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_CreateTask_ResponseShape(t *testing.T) {
	taskID := primitive.NewObjectID()
	stored := task.New("Buy milk", "high")
	stored.ID = taskID
	stored.CreatedAt = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	mockService := new(MockTaskService)
	mockService.On("CreateTask", mock.Anything, "Buy milk", "high", mock.Anything).Return(stored, nil)

	w := do(t, newRouter(handlers.NewTaskHandler(mockService, "MongoDB")), "POST", "/api/tasks",
		"application/json", `{"title":"Buy milk","priority":"high"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.JSONEq(t, `{
		"id": "`+taskID.Hex()+`",
		"title": "Buy milk",
		"category": "General",
		"priority": "high",
		"isCompleted": false,
		"dueDate": null,
		"notes": "",
		"subtasks": [],
		"isStarred": false,
		"createdAt": "2026-10-19T12:00:00Z"
	}`, w.Body.String())
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	taskID := primitive.NewObjectID().Hex()
	updated := task.New("Buy milk", "high", task.WithCompleted(true))

	tests := []struct {
		name           string
		requestBody    string
		setupMock      func(*MockTaskService)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success - partial update",
			requestBody: `{"isCompleted":true}`,
			setupMock: func(m *MockTaskService) {
				m.On("UpdateTask", mock.Anything, taskID, mock.MatchedBy(func(opts []task.Option) bool {
					return len(opts) == 1
				})).Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "success - id and createdAt ignored",
			requestBody: `{"id":"000000000000000000000000","createdAt":"2020-01-01"}`,
			setupMock: func(m *MockTaskService) {
				m.On("UpdateTask", mock.Anything, taskID, mock.MatchedBy(func(opts []task.Option) bool {
					return len(opts) == 0
				})).Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "error - not found",
			requestBody: `{"isCompleted":true}`,
			setupMock: func(m *MockTaskService) {
				m.On("UpdateTask", mock.Anything, taskID, mock.Anything).Return(nil, notFound(taskID))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Task not found",
		},
		{
			name:        "error - validation on save",
			requestBody: `{"title":""}`,
			setupMock: func(m *MockTaskService) {
				m.On("UpdateTask", mock.Anything, taskID, mock.Anything).
					Return(nil, service.NewValidationError(&task.ValidationError{
						Fields:  []string{"title"},
						Message: "Task validation failed: title: Path `title` is required.",
					}))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Task validation failed: title: Path `title` is required.",
		},
		{
			name:        "error - store failure is 400",
			requestBody: `{"notes":"x"}`,
			setupMock: func(m *MockTaskService) {
				m.On("UpdateTask", mock.Anything, taskID, mock.Anything).Return(nil, errors.New("socket closed"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "socket closed",
		},
		{
			name:        "error - cast error on existing task",
			requestBody: `{"isCompleted":"maybe"}`,
			setupMock: func(m *MockTaskService) {
				m.On("GetTaskByID", mock.Anything, taskID).Return(updated, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    `Cast to Boolean failed for value "maybe" at path "isCompleted"`,
		},
		{
			name:        "error - cast error on missing task is 404",
			requestBody: `{"isCompleted":"maybe"}`,
			setupMock: func(m *MockTaskService) {
				m.On("GetTaskByID", mock.Anything, taskID).Return(nil, notFound(taskID))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Task not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(handlers.NewTaskHandler(mockService, "MongoDB")), "PATCH", "/api/tasks/"+taskID, "application/json", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, message(t, w))
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	taskID := primitive.NewObjectID().Hex()

	tests := []struct {
		name           string
		setupMock      func(*MockTaskService)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success",
			setupMock: func(m *MockTaskService) {
				m.On("DeleteTask", mock.Anything, taskID).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "Task deleted",
		},
		{
			name: "error - not found",
			setupMock: func(m *MockTaskService) {
				m.On("DeleteTask", mock.Anything, taskID).Return(notFound(taskID))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Task not found",
		},
		{
			name: "error - store failure",
			setupMock: func(m *MockTaskService) {
				m.On("DeleteTask", mock.Anything, taskID).Return(errors.New("not primary"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "not primary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(handlers.NewTaskHandler(mockService, "MongoDB")), "DELETE", "/api/tasks/"+taskID, "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMsg, message(t, w))
			mockService.AssertExpectations(t)
		})
	}
}
