package services

import (
	"context"
	"errors"
	"testing"

	"mada_server_go/auth"
	"mada_server_go/models"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (mo.Option[models.User], error) {
	args := m.Called(ctx, email)
	return args.Get(0).(mo.Option[models.User]), args.Error(1)
}

func (m *mockUserStore) FindByAuthID(ctx context.Context, authID string) (mo.Option[models.User], error) {
	args := m.Called(ctx, authID)
	return args.Get(0).(mo.Option[models.User]), args.Error(1)
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, userID int64, nickname, email, photoUrl string) error {
	return m.Called(ctx, userID, nickname, email, photoUrl).Error(0)
}

func (m *mockUserStore) UpdatePageSettings(ctx context.Context, userID int64, settings models.PageSettings) error {
	return m.Called(ctx, userID, settings).Error(0)
}

func (m *mockUserStore) UpdateAlarmSettings(ctx context.Context, userID int64, settings models.AlarmSettings) error {
	return m.Called(ctx, userID, settings).Error(0)
}

func (m *mockUserStore) UpdateSubscribe(ctx context.Context, userID int64, subscribe bool) error {
	return m.Called(ctx, userID, subscribe).Error(0)
}

func (m *mockUserStore) Expire(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

var noUser = mo.None[models.User]()

func TestUserService_ResolveUser(t *testing.T) {
	ctx := context.Background()
	store := &mockUserStore{}
	svc := NewUserService(store, discardLogger())

	store.On("FindByAuthID", ctx, "active").Return(mo.Some(models.User{ID: 1, AuthID: "active"}), nil).Once()
	store.On("FindByAuthID", ctx, "expired").Return(mo.Some(models.User{ID: 2, AuthID: "expired", AccountExpired: true}), nil).Once()
	store.On("FindByAuthID", ctx, "missing").Return(noUser, nil).Once()
	store.On("FindByAuthID", ctx, "broken").Return(noUser, errors.New("db down")).Once()

	u, err := svc.ResolveUser(ctx, "active")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = svc.ResolveUser(ctx, "expired")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.ResolveUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.ResolveUser(ctx, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.ResolveUser(ctx, "broken")
	assert.EqualError(t, err, "db down")

	store.AssertExpectations(t)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		store := &mockUserStore{}
		svc := NewUserService(store, discardLogger())

		store.On("FindByEmail", ctx, "a@example.com").Return(noUser, nil).Once()
		store.On("Create", ctx, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.User).ID = 7
			}).Return(nil).Once()

		user, err := svc.Register(ctx, models.RegisterRequest{Email: " a@example.com ", Password: "secret", Nickname: "alice"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "a@example.com", user.Email)
		assert.NotEmpty(t, user.AuthID)
		assert.NotEqual(t, "secret", user.PasswordHash)
		assert.True(t, auth.CheckPasswordHash("secret", user.PasswordHash))
		assert.Equal(t, models.RoleUser, user.Role)
		store.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		store := &mockUserStore{}
		svc := NewUserService(store, discardLogger())
		store.On("FindByEmail", ctx, "a@example.com").Return(mo.Some(models.User{ID: 1}), nil).Once()

		_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: "x", Nickname: "n"})
		assert.ErrorIs(t, err, ErrEmailTaken)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("email taken in another case", func(t *testing.T) {
		store := &mockUserStore{}
		svc := NewUserService(store, discardLogger())
		store.On("FindByEmail", ctx, "a@example.com").Return(mo.Some(models.User{ID: 1}), nil).Once()

		_, err := svc.Register(ctx, models.RegisterRequest{Email: "A@Example.com", Password: "x", Nickname: "n"})
		assert.ErrorIs(t, err, ErrEmailTaken)
		store.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := NewUserService(&mockUserStore{}, discardLogger())
		_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: " "})
		assert.ErrorIs(t, err, ErrMissingFields)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("right")
	require.NoError(t, err)

	store := &mockUserStore{}
	svc := NewUserService(store, discardLogger())
	store.On("FindByEmail", ctx, "a@example.com").Return(mo.Some(models.User{ID: 3, PasswordHash: hash}), nil)
	store.On("FindByEmail", ctx, "nobody@example.com").Return(noUser, nil)

	user, err := svc.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)

	user, err = svc.Login(ctx, models.LoginRequest{Email: " A@EXAMPLE.com", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "right"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	current := models.User{ID: 5, AuthID: "a5", Nickname: "old", Email: "old@example.com", PhotoUrl: "/p.png"}

	t.Run("keeps email and photo when empty", func(t *testing.T) {
		store := &mockUserStore{}
		svc := NewUserService(store, discardLogger())
		store.On("FindByAuthID", ctx, "a5").Return(mo.Some(current), nil)
		store.On("UpdateProfile", ctx, int64(5), "new", "old@example.com", "/p.png").Return(nil).Once()

		_, err := svc.UpdateProfile(ctx, "a5", models.UpdateProfileRequest{Nickname: "new"})
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("rejects taken email", func(t *testing.T) {
		store := &mockUserStore{}
		svc := NewUserService(store, discardLogger())
		store.On("FindByAuthID", ctx, "a5").Return(mo.Some(current), nil)
		store.On("FindByEmail", ctx, "b@example.com").Return(mo.Some(models.User{ID: 6}), nil).Once()

		_, err := svc.UpdateProfile(ctx, "a5", models.UpdateProfileRequest{Nickname: "new", Email: "b@example.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)
		store.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stores email in lower case", func(t *testing.T) {
		store := &mockUserStore{}
		svc := NewUserService(store, discardLogger())
		store.On("FindByAuthID", ctx, "a5").Return(mo.Some(current), nil)
		store.On("FindByEmail", ctx, "new@example.com").Return(noUser, nil).Once()
		store.On("UpdateProfile", ctx, int64(5), "new", "new@example.com", "/p.png").Return(nil).Once()

		_, err := svc.UpdateProfile(ctx, "a5", models.UpdateProfileRequest{Nickname: "new", Email: "New@Example.com"})
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("same email in another case is not a conflict", func(t *testing.T) {
		store := &mockUserStore{}
		svc := NewUserService(store, discardLogger())
		store.On("FindByAuthID", ctx, "a5").Return(mo.Some(current), nil)
		store.On("UpdateProfile", ctx, int64(5), "new", "old@example.com", "/p.png").Return(nil).Once()

		_, err := svc.UpdateProfile(ctx, "a5", models.UpdateProfileRequest{Nickname: "new", Email: "OLD@example.com"})
		require.NoError(t, err)
		store.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("rejects blank nickname", func(t *testing.T) {
		store := &mockUserStore{}
		svc := NewUserService(store, discardLogger())
		store.On("FindByAuthID", ctx, "a5").Return(mo.Some(current), nil)

		_, err := svc.UpdateProfile(ctx, "a5", models.UpdateProfileRequest{Nickname: " "})
		assert.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestUserService_Settings(t *testing.T) {
	ctx := context.Background()
	store := &mockUserStore{}
	svc := NewUserService(store, discardLogger())
	store.On("FindByAuthID", ctx, "a1").Return(mo.Some(models.User{ID: 1, AuthID: "a1"}), nil)

	page := models.PageSettings{StartTodoAtMonday: true}
	alarm := models.AlarmSettings{DdayAlarmSetting: true}
	store.On("UpdatePageSettings", ctx, int64(1), page).Return(nil).Once()
	store.On("UpdateAlarmSettings", ctx, int64(1), alarm).Return(nil).Once()
	store.On("UpdateSubscribe", ctx, int64(1), true).Return(nil).Once()
	store.On("Expire", ctx, int64(1)).Return(nil).Once()

	_, err := svc.UpdatePageSettings(ctx, "a1", page)
	require.NoError(t, err)
	_, err = svc.UpdateAlarmSettings(ctx, "a1", alarm)
	require.NoError(t, err)
	_, err = svc.UpdateSubscribe(ctx, "a1", true)
	require.NoError(t, err)
	require.NoError(t, svc.Withdraw(ctx, "a1"))

	store.AssertExpectations(t)
}
