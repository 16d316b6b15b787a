package handlers

import (
	"encoding/json"
	"net/http"

	"taskAPI/internal/logger"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	storage := make(map[string]any, len(payload))
	for _, pl := range payload {
		storage[pl.Key] = pl.Payload
	}
	writeJSON(w, code, storage)
}

// responseWithMessage - единый формат ответа {"message": "..."}
func responseWithMessage(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, toPayload("message", message))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}
