package models

import "time"

// RegisterRequest - тело POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// LoginRequest - тело POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserPublicInfo - то, что клиент видит о пользователе после входа.
type UserPublicInfo struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	PhotoUrl string `json:"photoUrl"`
}

// AuthResponse - токен доступа, срок его действия и пользователь.
type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      UserPublicInfo `json:"user"`
}

// UpdateProfileRequest - тело PATCH /api/user/profile. Пустые email и photoUrl не меняются.
type UpdateProfileRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	PhotoUrl string `json:"photoUrl"`
}

// SubscribeRequest - тело PATCH /api/user/subscribe.
type SubscribeRequest struct {
	Subscribe bool `json:"subscribe"`
}

func (u *User) PublicInfo() UserPublicInfo {
	return UserPublicInfo{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		PhotoUrl: u.PhotoUrl,
	}
}
