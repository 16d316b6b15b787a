package handlers

import (
	"errors"
	"net/http"
	"time"

	"taskAPI/internal/handlers/dto"
	"taskAPI/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	ServiceName    = "task-api"
	MsgTaskDeleted = "Task deleted"
)

type TaskHandler struct {
	TaskService TaskService
	banner      string
}

// storeName попадает в приветствие на GET /
func NewTaskHandler(taskService TaskService, storeName string) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
		banner:      "🚀 Server is running and connected to " + storeName + "!",
	}
}

func (s *TaskHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.banner))
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", ServiceName),
			toPayload("message", err.Error()),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", ServiceName),
	)
}

func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tasks, err := s.TaskService.ListTasks(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "list_tasks"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	writeJSON(w, http.StatusOK, tasks)
}

func (s *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := readBody(w, r)
	if err != nil {
		handleUnexpected(w, r, err)
		return
	}

	request, err := dto.DecodeCreate(body)
	if errors.Is(err, dto.ErrRequiredFields) {
		logger.Warn("HTTP: Ошибка валидации",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithMessage(w, http.StatusBadRequest, dto.MsgRequiredFields)
		return
	}
	// ошибка приведения при создании - это ошибка сохранения, а не клиента
	if err != nil {
		logger.Error("HTTP: Ошибка приведения поля", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), request.Title, request.Priority, request.Options()...)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}

		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))

		responseWithMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.Hex()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, created)
}

// UpdateTask - частичное обновление: меняются только переданные изменяемые поля
func (s *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	body, err := readBody(w, r)
	if err != nil {
		handleUnexpected(w, r, err)
		return
	}

	options, decodeErr := dto.DecodeUpdate(body)
	if decodeErr != nil {
		// несуществующая задача важнее ошибки приведения
		if _, err := s.TaskService.GetTaskByID(r.Context(), id); err != nil {
			if handleBusinessError(w, err) {
				return
			}
			responseWithMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		logger.Warn("HTTP: Ошибка приведения поля",
			zap.Error(decodeErr),
			zap.String("task_id", id))
		responseWithMessage(w, http.StatusBadRequest, decodeErr.Error())
		return
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), id, options...)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}

		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_task"),
			zap.String("task_id", id),
			zap.String("client_addr", r.RemoteAddr))

		responseWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id),
		zap.Int("fields", len(options)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, updated)
}

func (s *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	err := s.TaskService.DeleteTask(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}

		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_task"),
			zap.String("task_id", id),
			zap.String("client_addr", r.RemoteAddr))

		responseWithMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithMessage(w, http.StatusOK, MsgTaskDeleted)
}
