package identity

import (
	"time"

	"github.com/emlak/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// RefreshRequest is the body of POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordRequest is the body of PUT /auth/password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

// LoginInput contains the input for user login
type LoginInput struct {
	TenantID uuid.UUID
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LogoutInput identifies the tokens to revoke
type LogoutInput struct {
	UserID         uuid.UUID
	AccessTokenJTI string
	AccessTokenTTL time.Duration
	RefreshToken   string // optional
}

// TokenResponse is the token half of a login or refresh response
type TokenResponse struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
	TokenType             string    `json:"tokenType"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

// UserResponse is the profile of the logged in user
type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     uuid.UUID  `json:"tenantId"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"displayName"`
	Email        string     `json:"email,omitempty"`
	Role         string     `json:"role"`
	ConsultantID *uuid.UUID `json:"consultantId,omitempty"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// ToUserResponse converts a user to its profile
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		TenantID:     u.TenantID,
		Username:     u.Username,
		DisplayName:  u.GetDisplayNameOrUsername(),
		Email:        u.Email,
		Role:         string(u.Role),
		ConsultantID: u.ConsultantID,
		LastLoginAt:  u.LastLoginAt,
	}
}
