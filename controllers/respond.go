package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"mada_server_go/middleware"
	"mada_server_go/models"
	"mada_server_go/services"

	"github.com/gorilla/mux"
)

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Заголовки уже отправлены
			slog.Default().Error("failed to encode JSON response", "err", err)
		}
	}
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

// statusFor сопоставляет ошибку сервиса с HTTP-статусом.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrTodoNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateName),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrQuotaExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidMonth),
		errors.Is(err, services.ErrInvalidTime),
		errors.Is(err, services.ErrInvalidName),
		errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidCategoryName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError пишет ответ по ошибке сервиса. Внутренние ошибки логируются, а клиенту уходит общий текст.
func respondServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(op+" failed", "err", err)
		respondError(w, status, "Внутренняя ошибка сервера.")
		return
	}
	logger.Debug(op+" rejected", "status", status, "err", err)
	respondError(w, status, err.Error())
}

// requireAuthID достает AuthID из контекста или отвечает 401.
func requireAuthID(w http.ResponseWriter, r *http.Request) (string, bool) {
	authID, ok := middleware.AuthIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Пользователь не авторизован.")
		return "", false
	}
	return authID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Неверный идентификатор: "+mux.Vars(r)[name])
		return 0, false
	}
	return id, true
}

func parseDateParam(w http.ResponseWriter, raw string) (models.Date, bool) {
	d, err := models.ParseDate(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Дата должна быть в формате yyyy-MM-dd: "+raw)
		return models.Date{}, false
	}
	return d, true
}
