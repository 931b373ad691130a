package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"mada_server_go/auth"
)

type contextKey string

// authIDKey - ключ для хранения AuthID пользователя в контексте запроса.
const authIDKey contextKey = "authID"

// TokenValidator проверяет токен доступа.
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// WithAuthID кладет AuthID в контекст.
func WithAuthID(ctx context.Context, authID string) context.Context {
	return context.WithValue(ctx, authIDKey, authID)
}

// AuthIDFromContext достает AuthID, положенный JWTMiddleware.
func AuthIDFromContext(ctx context.Context) (string, bool) {
	authID, ok := ctx.Value(authIDKey).(string)
	return authID, ok && authID != ""
}

// JWTMiddleware проверяет наличие и валидность JWT в заголовке Authorization.
// Если токен валиден, AuthID пользователя добавляется в контекст запроса.
func JWTMiddleware(tokens TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.With("method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("missing Authorization header")
				unauthorized(w, "Отсутствует заголовок Authorization")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("malformed Authorization header")
				unauthorized(w, "Неверный формат заголовка Authorization (ожидается Bearer {token})")
				return
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				log.Warn("invalid token", "err", err)
				unauthorized(w, "Невалидный токен: "+err.Error())
				return
			}

			log.Debug("authenticated", "user_id", claims.UserID)
			next.ServeHTTP(w, r.WithContext(WithAuthID(r.Context(), claims.Subject)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
