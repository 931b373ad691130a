package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mada_server_go/models"

	"github.com/gorilla/mux"
)

// Accounts - регистрация и вход.
type Accounts interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
}

// TokenIssuer выпускает JWT для пользователя.
type TokenIssuer interface {
	GenerateToken(authID string, userID int64) (string, time.Time, error)
}

// AuthController обрабатывает /api/auth.
type AuthController struct {
	accounts Accounts
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewAuthController создает контроллер аутентификации.
func NewAuthController(accounts Accounts, tokens TokenIssuer, logger *slog.Logger) *AuthController {
	return &AuthController{accounts: accounts, tokens: tokens, logger: logger}
}

// Register регистрирует открытые маршруты (без JWT).
func (c *AuthController) Register(r *mux.Router) {
	s := r.PathPrefix("/api/auth").Subrouter()
	s.HandleFunc("/register", c.SignUp).Methods(http.MethodPost)
	s.HandleFunc("/login", c.Login).Methods(http.MethodPost)
}

// SignUp обрабатывает запросы на регистрацию новых пользователей.
// Пример URL: POST /api/auth/register
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := c.accounts.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, c.logger, "register", err)
		return
	}
	c.respondWithToken(w, http.StatusCreated, user)
}

// Login обрабатывает запросы на вход пользователей.
// Пример URL: POST /api/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		respondError(w, http.StatusBadRequest, "Email и пароль не могут быть пустыми.")
		return
	}

	user, err := c.accounts.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, c.logger, "login", err)
		return
	}
	c.respondWithToken(w, http.StatusOK, user)
}

func (c *AuthController) respondWithToken(w http.ResponseWriter, status int, user *models.User) {
	tokenString, expiresAt, err := c.tokens.GenerateToken(user.AuthID, user.ID)
	if err != nil {
		c.logger.Error("failed to generate token", "user_id", user.ID, "err", err)
		respondError(w, http.StatusInternalServerError, "Не удалось сгенерировать токен доступа.")
		return
	}

	respondJSON(w, status, models.AuthResponse{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		User:      user.PublicInfo(),
	})
}
