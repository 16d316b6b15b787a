package handlers

import (
	"net/http"

	"taskAPI/internal/logger"
	"taskAPI/internal/middleware"
	"taskAPI/internal/service"

	"go.uber.org/zap"
)

// handleBusinessError отвечает за NOT_FOUND/VALIDATION_ERROR; false - ошибка не бизнесовая
func handleBusinessError(w http.ResponseWriter, err error) bool {
	businessErr, ok := service.AsBusinessError(err)
	if !ok {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Any("details", businessErr.Details),
		zap.Int("http_status", statusCode))

	responseWithMessage(w, statusCode, businessErr.Message)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// handleUnexpected - тот же ответ, что и у middleware.Recover
func handleUnexpected(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("HTTP: Необработанная ошибка", err,
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("path", r.URL.Path))
	responseWithMessage(w, http.StatusInternalServerError, middleware.MsgUnexpected)
}
