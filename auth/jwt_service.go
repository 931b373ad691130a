package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const defaultIssuer = "mada_server_go"

// Claims структура для JWT. Subject - внешний идентификатор пользователя (AuthID).
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService выпускает и проверяет токены доступа.
type TokenService struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService создает сервис токенов. Ключ загружается из конфигурации.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{key: []byte(secret), ttl: ttl, issuer: defaultIssuer, now: time.Now}, nil
}

// GenerateToken создает новый JWT для пользователя.
func (s *TokenService) GenerateToken(authID string, userID int64) (string, time.Time, error) {
	now := s.now()
	expirationTime := now.Add(s.ttl)

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   authID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("could not sign token: %w", err)
	}

	return tokenString, expirationTime, nil
}

// ValidateToken проверяет JWT и возвращает claims, если токен валиден.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			if ve.Errors&jwt.ValidationErrorMalformed != 0 {
				return nil, fmt.Errorf("token is malformed")
			} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				return nil, fmt.Errorf("token is expired or not active yet")
			}
		}
		return nil, fmt.Errorf("couldn't handle this token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}
