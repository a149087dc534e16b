package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	accessapp "github.com/shopadmin/backend/internal/application/access"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
)

// SessionService drives admin sign-in, restore and sign-out
type SessionService interface {
	Login(ctx context.Context, idToken string) (*accessapp.SessionResult, error)
	Refresh(ctx context.Context, refreshToken string) (*accessapp.SessionResult, error)
	Logout(ctx context.Context, claims *auth.Claims, refreshToken string) (*accessapp.SessionResult, error)
	Current(claims *auth.Claims) *accessapp.SessionResult
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	sessions SessionService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login handles POST /auth/login
// Exchange an identity provider ID token for an admin session. Only allow-
// listed emails are admitted.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), req.IDToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSessionResponse(result))
}

// RefreshToken handles POST /auth/refresh
// Rotate the token pair. An admin removed from the allow-list gets a
// signed_out state.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSessionResponse(result))
}

// Logout handles POST /auth/logout
// Revoke the current access token and, when given, the refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	// the body is optional
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}

	result, err := h.sessions.Logout(c.Request.Context(), claims, req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSessionResponse(result))
}

// GetCurrentUser handles GET /auth/me
// Get the signed-in admin's profile from the access token
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	h.Success(c, toSessionResponse(h.sessions.Current(claims)))
}
