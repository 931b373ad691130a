package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mada_server_go/auth"
	"mada_server_go/models"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// UserStore - хранилище пользователей.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (mo.Option[models.User], error)
	FindByAuthID(ctx context.Context, authID string) (mo.Option[models.User], error)
	UpdateProfile(ctx context.Context, userID int64, nickname, email, photoUrl string) error
	UpdatePageSettings(ctx context.Context, userID int64, settings models.PageSettings) error
	UpdateAlarmSettings(ctx context.Context, userID int64, settings models.AlarmSettings) error
	UpdateSubscribe(ctx context.Context, userID int64, subscribe bool) error
	Expire(ctx context.Context, userID int64) error
}

// UserService отвечает за регистрацию, вход, профиль и настройки пользователя.
// Он же служит каталогом пользователей для остальных сервисов.
type UserService struct {
	store  UserStore
	logger *slog.Logger
}

// NewUserService создает сервис пользователей.
func NewUserService(store UserStore, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// normalizeEmail приводит email к виду, в котором он хранится.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ResolveUser находит активного пользователя по идентификатору из токена.
func (s *UserService) ResolveUser(ctx context.Context, authID string) (*models.User, error) {
	if authID == "" {
		return nil, ErrUserNotFound
	}
	found, err := s.store.FindByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}
	user, ok := found.Get()
	if !ok || user.AccountExpired {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Register создает пользователя с новым AuthID.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || strings.TrimSpace(req.Password) == "" || strings.TrimSpace(req.Nickname) == "" {
		return nil, fmt.Errorf("%w: email, пароль и никнейм", ErrMissingFields)
	}

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing.IsPresent() {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		AuthID:       uuid.NewString(),
		Nickname:     req.Nickname,
		Email:        email,
		PasswordHash: hash,
		Provider:     "local",
		Role:         models.RoleUser,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login проверяет email и пароль.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	found, err := s.store.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	user, ok := found.Get()
	if !ok || user.AccountExpired || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// UpdateProfile меняет никнейм, email и фото. Пустые email и фото не меняются.
func (s *UserService) UpdateProfile(ctx context.Context, authID string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Nickname) == "" {
		return nil, ErrInvalidName
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		email = user.Email
	}
	if !strings.EqualFold(email, user.Email) {
		taken, err := s.store.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken.IsPresent() {
			return nil, ErrEmailTaken
		}
	}
	photo := req.PhotoUrl
	if photo == "" {
		photo = user.PhotoUrl
	}

	if err := s.store.UpdateProfile(ctx, user.ID, req.Nickname, email, photo); err != nil {
		return nil, err
	}
	return s.ResolveUser(ctx, authID)
}

// UpdatePageSettings сохраняет настройки страницы to-do.
func (s *UserService) UpdatePageSettings(ctx context.Context, authID string, settings models.PageSettings) (*models.User, error) {
	user, err := s.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdatePageSettings(ctx, user.ID, settings); err != nil {
		return nil, err
	}
	return s.ResolveUser(ctx, authID)
}

// UpdateAlarmSettings сохраняет настройки уведомлений.
func (s *UserService) UpdateAlarmSettings(ctx context.Context, authID string, settings models.AlarmSettings) (*models.User, error) {
	user, err := s.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateAlarmSettings(ctx, user.ID, settings); err != nil {
		return nil, err
	}
	return s.ResolveUser(ctx, authID)
}

// UpdateSubscribe включает или выключает подписку.
func (s *UserService) UpdateSubscribe(ctx context.Context, authID string, subscribe bool) (*models.User, error) {
	user, err := s.ResolveUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateSubscribe(ctx, user.ID, subscribe); err != nil {
		return nil, err
	}
	return s.ResolveUser(ctx, authID)
}

// Withdraw помечает аккаунт истекшим. После этого ResolveUser его не находит.
func (s *UserService) Withdraw(ctx context.Context, authID string) error {
	user, err := s.ResolveUser(ctx, authID)
	if err != nil {
		return err
	}
	if err := s.store.Expire(ctx, user.ID); err != nil {
		return err
	}
	s.logger.Info("user account expired", "user_id", user.ID)
	return nil
}
