package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	token, expires, err := svc.GenerateToken("auth-1", 42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "auth-1", claims.Subject)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, defaultIssuer, claims.Issuer)
}

func TestTokenService_Rejects(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.EqualError(t, err, "token is malformed")

	other, err := NewTokenService("other-secret", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.GenerateToken("auth-1", 1)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, _, err := svc.GenerateToken("auth-1", 1)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.EqualError(t, err, "token is expired or not active yet")

	// Токен без subject не принимается.
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(noSubject)
	assert.EqualError(t, err, "token has no subject")

	// Подпись другим алгоритмом отклоняется.
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "auth-1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(none)
	assert.Error(t, err)
}

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.Error(t, err)

	svc, err := NewTokenService("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, svc.ttl)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
