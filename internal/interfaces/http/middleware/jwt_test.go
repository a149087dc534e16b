package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"github.com/shopadmin/backend/internal/infrastructure/logger"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newTestTokenPair(t *testing.T, jwtService *auth.JWTService) *auth.TokenPair {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(auth.Subject{
		UID:         "uid-1",
		Email:       "admin@shop.test",
		DisplayName: "Admin",
	})
	require.NoError(t, err)
	return pair
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func newAuthRouter(cfg JWTMiddlewareConfig, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/orders", handler)
	router.POST("/api/v1/auth/login", handler)
	return router
}

func okHandler(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair := newTestTokenPair(t, jwtService)

	router := newAuthRouter(DefaultJWTConfig(jwtService), func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, "admin@shop.test", claims.Email)
		assert.Equal(t, "uid-1", claims.Subject)
		assert.Equal(t, "admin@shop.test", GetAdminEmail(c))
		assert.Equal(t, "admin@shop.test", logger.GetAdminEmail(c.Request.Context()))
		okHandler(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	jwtService := newTestJWTService()
	pair := newTestTokenPair(t, jwtService)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeTokenInvalid},
		{"not a bearer", "Basic abc", dto.ErrCodeTokenInvalid},
		{"empty token", "Bearer ", dto.ErrCodeTokenInvalid},
		{"garbage token", "Bearer not.a.jwt", dto.ErrCodeTokenInvalid},
		{"refresh token used as access", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}

	router := newAuthRouter(DefaultJWTConfig(jwtService), okHandler)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			errInfo := decodeError(t, rec)
			assert.Equal(t, tt.code, errInfo.Code)
			assert.NotEmpty(t, errInfo.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := newAuthRouter(DefaultJWTConfig(newTestJWTService()), okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	jwtService := newTestJWTService()
	pair := newTestTokenPair(t, jwtService)
	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	blacklist := auth.NewInMemoryTokenBlacklist()
	cfg := DefaultJWTConfig(jwtService)
	cfg.TokenBlacklist = blacklist
	router := newAuthRouter(cfg, okHandler)

	serve := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve().Code)

	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

	rec := serve()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, rec).Code)
}

func TestJWTAuthMiddleware_OnError(t *testing.T) {
	cfg := DefaultJWTConfig(newTestJWTService())
	var seen error
	cfg.OnError = func(c *gin.Context, err error) {
		seen = err
		c.JSON(http.StatusTeapot, gin.H{})
	}
	called := false
	router := newAuthRouter(cfg, func(c *gin.Context) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.ErrorIs(t, seen, auth.ErrInvalidToken)
	assert.False(t, called)
}

func TestGetJWTClaims_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetAdminEmail(c))
}
