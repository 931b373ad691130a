package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"mada_server_go/models"

	"github.com/gorilla/mux"
)

// Profiles - профиль и настройки пользователя.
type Profiles interface {
	ResolveUser(ctx context.Context, authID string) (*models.User, error)
	UpdateProfile(ctx context.Context, authID string, req models.UpdateProfileRequest) (*models.User, error)
	UpdatePageSettings(ctx context.Context, authID string, settings models.PageSettings) (*models.User, error)
	UpdateAlarmSettings(ctx context.Context, authID string, settings models.AlarmSettings) (*models.User, error)
	UpdateSubscribe(ctx context.Context, authID string, subscribe bool) (*models.User, error)
	Withdraw(ctx context.Context, authID string) error
}

// UserController обрабатывает /api/user.
type UserController struct {
	profiles Profiles
	logger   *slog.Logger
}

// NewUserController создает контроллер пользователя.
func NewUserController(profiles Profiles, logger *slog.Logger) *UserController {
	return &UserController{profiles: profiles, logger: logger}
}

// Register регистрирует маршруты на защищенном подмаршрутизаторе /api.
func (c *UserController) Register(r *mux.Router) {
	s := r.PathPrefix("/user").Subrouter()
	s.HandleFunc("", c.Withdraw).Methods(http.MethodDelete)
	s.HandleFunc("/profile", c.Profile).Methods(http.MethodGet)
	s.HandleFunc("/profile", c.UpdateProfile).Methods(http.MethodPatch, http.MethodPut)
	s.HandleFunc("/settings/page", c.UpdatePageSettings).Methods(http.MethodPatch)
	s.HandleFunc("/settings/alarm", c.UpdateAlarmSettings).Methods(http.MethodPatch)
	s.HandleFunc("/subscribe", c.UpdateSubscribe).Methods(http.MethodPatch)
}

// Profile - GET /api/user/profile
func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	user, err := c.profiles.ResolveUser(r.Context(), authID)
	c.respondUser(w, "profile get", user, err)
}

// UpdateProfile - PATCH /api/user/profile
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := c.profiles.UpdateProfile(r.Context(), authID, req)
	c.respondUser(w, "profile update", user, err)
}

// UpdatePageSettings - PATCH /api/user/settings/page
func (c *UserController) UpdatePageSettings(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	var req models.PageSettings
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := c.profiles.UpdatePageSettings(r.Context(), authID, req)
	c.respondUser(w, "page settings update", user, err)
}

// UpdateAlarmSettings - PATCH /api/user/settings/alarm
func (c *UserController) UpdateAlarmSettings(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	var req models.AlarmSettings
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := c.profiles.UpdateAlarmSettings(r.Context(), authID, req)
	c.respondUser(w, "alarm settings update", user, err)
}

// UpdateSubscribe - PATCH /api/user/subscribe
func (c *UserController) UpdateSubscribe(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	var req models.SubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := c.profiles.UpdateSubscribe(r.Context(), authID, req.Subscribe)
	c.respondUser(w, "subscribe update", user, err)
}

// Withdraw - DELETE /api/user. Аккаунт помечается истекшим.
func (c *UserController) Withdraw(w http.ResponseWriter, r *http.Request) {
	authID, ok := requireAuthID(w, r)
	if !ok {
		return
	}
	if err := c.profiles.Withdraw(r.Context(), authID); err != nil {
		respondServiceError(w, c.logger, "withdraw", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *UserController) respondUser(w http.ResponseWriter, op string, user *models.User, err error) {
	if err != nil {
		respondServiceError(w, c.logger, op, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
