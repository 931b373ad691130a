package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"mada_server_go/models"
	"mada_server_go/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAccounts struct {
	mock.Mock
}

func (m *mockAccounts) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	args := m.Called(req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockAccounts) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	args := m.Called(req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type stubTokens struct {
	err error
}

func (s stubTokens) GenerateToken(authID string, userID int64) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "token-for-" + authID, time.Now().Add(time.Hour), nil
}

func newAuthRouter(accounts Accounts, tokens TokenIssuer) *mux.Router {
	r := mux.NewRouter()
	NewAuthController(accounts, tokens, discardLogger()).Register(r)
	return r
}

func TestAuthController_SignUp(t *testing.T) {
	accounts := new(mockAccounts)
	user := &models.User{ID: 3, AuthID: "auth-3", Email: "a@example.com", Nickname: "alice"}
	accounts.On("Register", models.RegisterRequest{Email: "a@example.com", Password: "secret", Nickname: "alice"}).Return(user, nil)
	accounts.On("Register", models.RegisterRequest{Email: "taken@example.com", Password: "secret", Nickname: "bob"}).Return(nil, services.ErrEmailTaken)
	h := newAuthRouter(accounts, stubTokens{})

	rec := serve(h, http.MethodPost, "/api/auth/register", `{"email":"a@example.com","password":"secret","nickname":"alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token-for-auth-3", resp.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)
	assert.Equal(t, int64(3), resp.User.ID)
	assert.Equal(t, "alice", resp.User.Nickname)

	rec = serve(h, http.MethodPost, "/api/auth/register", `{"email":"taken@example.com","password":"secret","nickname":"bob"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthController_Login(t *testing.T) {
	accounts := new(mockAccounts)
	user := &models.User{ID: 3, AuthID: "auth-3", Email: "a@example.com"}
	accounts.On("Login", models.LoginRequest{Email: "a@example.com", Password: "secret"}).Return(user, nil)
	accounts.On("Login", models.LoginRequest{Email: "a@example.com", Password: "wrong"}).Return(nil, services.ErrInvalidCredentials)

	h := newAuthRouter(accounts, stubTokens{})
	rec := serve(h, http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, http.MethodPost, "/api/auth/login", `{"email":" ","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	accounts.AssertNumberOfCalls(t, "Login", 2)

	// Ошибка выпуска токена не раскрывается клиенту.
	rec = serve(newAuthRouter(accounts, stubTokens{err: errors.New("signing key")}), http.MethodPost, "/api/auth/login",
		`{"email":"a@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, errorBody(t, rec), "signing key")
}
