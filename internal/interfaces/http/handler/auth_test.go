package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	accessapp "github.com/shopadmin/backend/internal/application/access"
	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func authorizedSession() *accessapp.SessionResult {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &accessapp.SessionResult{
		State: access.SessionAuthorized,
		Profile: &access.Identity{
			UID:         "uid-1",
			Email:       "admin@shop.test",
			DisplayName: "Admin",
		},
		Tokens: &auth.TokenPair{
			AccessToken:           "access",
			RefreshToken:          "refresh",
			AccessTokenExpiresAt:  now.Add(15 * time.Minute),
			RefreshTokenExpiresAt: now.Add(7 * 24 * time.Hour),
			TokenType:             "Bearer",
		},
	}
}

func newAuthTestRouter(sessions SessionService) *gin.Engine {
	h := NewAuthHandler(sessions)
	router := newTestRouter()
	router.POST("/auth/login", h.Login)
	router.POST("/auth/refresh", h.RefreshToken)
	authed := router.Group("", withClaims("admin@shop.test"))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.GetCurrentUser)
	router.GET("/anon/me", h.GetCurrentUser)
	return router
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("authorized session", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Login", mock.Anything, "id-token").Return(authorizedSession(), nil)

		rec := serveJSON(newAuthTestRouter(sessions), http.MethodPost, "/auth/login", gin.H{"id_token": "id-token"})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeData[SessionResponse](t, rec)
		assert.Equal(t, "authorized", resp.State)
		require.NotNil(t, resp.User)
		assert.Equal(t, "admin@shop.test", resp.User.Email)
		require.NotNil(t, resp.Token)
		assert.Equal(t, "access", resp.Token.AccessToken)
		assert.Equal(t, "Bearer", resp.Token.TokenType)
		sessions.AssertExpectations(t)
	})

	t.Run("email not on the allow-list", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Login", mock.Anything, "id-token").Return(nil, shared.ErrAccessDenied)

		rec := serveJSON(newAuthTestRouter(sessions), http.MethodPost, "/auth/login", gin.H{"id_token": "id-token"})

		errInfo := requireErrorCode(t, rec, http.StatusForbidden, dto.ErrCodeAccessDenied)
		assert.Equal(t, "Access denied. This email is not authorized for admin access.", errInfo.Message)
		assert.NotEmpty(t, errInfo.RequestID)
	})

	t.Run("bad id token", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Login", mock.Anything, "expired").Return(nil, shared.ErrAuthentication)

		rec := serveJSON(newAuthTestRouter(sessions), http.MethodPost, "/auth/login", gin.H{"id_token": "expired"})

		requireErrorCode(t, rec, http.StatusUnauthorized, dto.ErrCodeAuthenticationFailed)
	})

	t.Run("missing id token", func(t *testing.T) {
		sessions := new(MockSessionService)

		rec := serveJSON(newAuthTestRouter(sessions), http.MethodPost, "/auth/login", gin.H{})

		errInfo := requireErrorCode(t, rec, http.StatusBadRequest, dto.ErrCodeValidation)
		require.Len(t, errInfo.Details, 1)
		assert.Equal(t, "id_token", errInfo.Details[0].Field)
		sessions.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("rotates tokens", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Refresh", mock.Anything, "refresh").Return(authorizedSession(), nil)

		rec := serveJSON(newAuthTestRouter(sessions), http.MethodPost, "/auth/refresh", gin.H{"refresh_token": "refresh"})

		resp := decodeData[SessionResponse](t, rec)
		assert.Equal(t, "authorized", resp.State)
		assert.NotNil(t, resp.Token)
	})

	t.Run("access revoked since sign-in", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Refresh", mock.Anything, "refresh").
			Return(&accessapp.SessionResult{State: access.SessionSignedOut}, nil)

		rec := serveJSON(newAuthTestRouter(sessions), http.MethodPost, "/auth/refresh", gin.H{"refresh_token": "refresh"})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeData[SessionResponse](t, rec)
		assert.Equal(t, "signed_out", resp.State)
		assert.Nil(t, resp.User)
		assert.Nil(t, resp.Token)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Refresh", mock.Anything, "old").
			Return(nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired"))

		rec := serveJSON(newAuthTestRouter(sessions), http.MethodPost, "/auth/refresh", gin.H{"refresh_token": "old"})

		requireErrorCode(t, rec, http.StatusUnauthorized, dto.ErrCodeTokenExpired)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes both tokens", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Logout", mock.Anything, mock.MatchedBy(func(c *auth.Claims) bool {
			return c.Email == "admin@shop.test"
		}), "refresh").Return(&accessapp.SessionResult{State: access.SessionSignedOut}, nil)

		rec := serveJSON(newAuthTestRouter(sessions), http.MethodPost, "/auth/logout", gin.H{"refresh_token": "refresh"})

		resp := decodeData[SessionResponse](t, rec)
		assert.Equal(t, "signed_out", resp.State)
		sessions.AssertExpectations(t)
	})

	t.Run("body is optional", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Logout", mock.Anything, mock.Anything, "").
			Return(&accessapp.SessionResult{State: access.SessionSignedOut}, nil)

		rec := serveJSON(newAuthTestRouter(sessions), http.MethodPost, "/auth/logout", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		sessions.AssertExpectations(t)
	})
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	sessions := new(MockSessionService)
	sessions.On("Current", mock.Anything).Return(&accessapp.SessionResult{
		State:   access.SessionAuthorized,
		Profile: &access.Identity{UID: "uid-1", Email: "admin@shop.test"},
	})
	router := newAuthTestRouter(sessions)

	t.Run("profile from claims", func(t *testing.T) {
		rec := serveJSON(router, http.MethodGet, "/auth/me", nil)

		resp := decodeData[SessionResponse](t, rec)
		assert.Equal(t, "authorized", resp.State)
		require.NotNil(t, resp.User)
		assert.Equal(t, "uid-1", resp.User.UID)
		assert.Nil(t, resp.Token)
	})

	t.Run("no claims", func(t *testing.T) {
		rec := serveJSON(router, http.MethodGet, "/anon/me", nil)

		requireErrorCode(t, rec, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	})
}
