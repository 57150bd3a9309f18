package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/identity"
)

// LoginInput contains the input for admin login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// RefreshInput contains the input for token refresh
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput revokes the tokens of the current session
type LogoutInput struct {
	// AccessTokenID is the jti of the access token used for the request
	AccessTokenID  string        `json:"-"`
	AccessTokenTTL time.Duration `json:"-"`
	// RefreshToken is optional; when present it is revoked too
	RefreshToken string `json:"refresh_token"`
}

// UserInfo is the signed-in account
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// TokenResult is returned by login and refresh
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// ToUserInfo converts a domain AdminUser to UserInfo
func ToUserInfo(u *identity.AdminUser) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
	}
}
