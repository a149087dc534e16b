package handler

import (
	"time"

	accessapp "github.com/shopadmin/backend/internal/application/access"
	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
)

// =====================
// Auth Request DTOs
// =====================

// LoginRequest carries the identity provider ID token obtained by the panel
type LoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally names the refresh token to revoke with the session
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// AuthUserResponse is the signed-in admin's profile
type AuthUserResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// SessionResponse is the session state seen by the panel. User and Token
// are present only while the session is authorized.
type SessionResponse struct {
	State string            `json:"state" example:"authorized"`
	User  *AuthUserResponse `json:"user,omitempty"`
	Token *TokenResponse    `json:"token,omitempty"`
}

func toSessionResponse(result *accessapp.SessionResult) SessionResponse {
	resp := SessionResponse{State: string(result.State)}
	if result.Profile != nil {
		resp.User = toAuthUserResponse(result.Profile)
	}
	if result.Tokens != nil {
		resp.Token = toTokenResponse(result.Tokens)
	}
	return resp
}

func toAuthUserResponse(id *access.Identity) *AuthUserResponse {
	return &AuthUserResponse{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
	}
}

func toTokenResponse(pair *auth.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
