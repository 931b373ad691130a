package controllers

import (
	"context"
	"net/http"
)

// Pinger проверяет доступность базы данных.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheck возвращает {"status":"OK"}, если сервер и база доступны.
// Маршрут: GET /api/Service/status
func HealthCheck(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}
}
