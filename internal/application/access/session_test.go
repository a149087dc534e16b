package access

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sessionFixture struct {
	verifier  *MockIdentityVerifier
	gate      *MockAuthorizer
	recorder  *MockSessionRecorder
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	service   *SessionService
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		verifier: new(MockIdentityVerifier),
		gate:     new(MockAuthorizer),
		recorder: new(MockSessionRecorder),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "session-test-secret-at-least-32-characters",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "shopadmin-test",
			MaxRefreshCount:        5,
		}),
		blacklist: auth.NewInMemoryTokenBlacklist(),
	}
	f.service = NewSessionService(f.verifier, f.gate, f.jwt, f.blacklist, zap.NewNop())
	f.service.SetRecorder(f.recorder)
	return f
}

var staffIdentity = &access.Identity{
	UID:         "uid-staff",
	Email:       "Staff@Shop.io",
	DisplayName: "Staff Member",
	PhotoURL:    "https://img/staff.png",
}

func TestSessionService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("authorized identity gets tokens", func(t *testing.T) {
		f := newSessionFixture()
		f.verifier.On("VerifyIDToken", ctx, "id-token").Return(staffIdentity, nil)
		f.gate.On("IsAuthorized", ctx, "Staff@Shop.io").Return(true)
		f.recorder.On("RecordLogin", ctx, OutcomeGranted).Once()

		result, err := f.service.Login(ctx, "id-token")
		require.NoError(t, err)
		assert.Equal(t, access.SessionAuthorized, result.State)
		assert.Equal(t, staffIdentity, result.Profile)
		require.NotNil(t, result.Tokens)

		claims, err := f.jwt.ValidateAccessToken(result.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "staff@shop.io", claims.Email)
		assert.Equal(t, "Staff Member", claims.Name)
		f.recorder.AssertExpectations(t)
	})

	t.Run("identity not on allow-list is denied", func(t *testing.T) {
		f := newSessionFixture()
		f.verifier.On("VerifyIDToken", ctx, "id-token").Return(staffIdentity, nil)
		f.gate.On("IsAuthorized", ctx, "Staff@Shop.io").Return(false)
		f.recorder.On("RecordLogin", ctx, OutcomeDenied).Once()

		result, err := f.service.Login(ctx, "id-token")
		assert.Nil(t, result)
		require.ErrorIs(t, err, shared.ErrAccessDenied)
		assert.Equal(t, "Access denied. This email is not authorized for admin access.", err.Error())
		f.recorder.AssertExpectations(t)
	})

	t.Run("invalid id token is an authentication failure", func(t *testing.T) {
		f := newSessionFixture()
		f.verifier.On("VerifyIDToken", ctx, "bad").Return(nil, errors.New("token expired"))
		f.recorder.On("RecordLogin", ctx, OutcomeFailed).Once()

		_, err := f.service.Login(ctx, "bad")
		require.ErrorIs(t, err, shared.ErrAuthentication)
		assert.NotErrorIs(t, err, shared.ErrAccessDenied)
		f.gate.AssertNotCalled(t, "IsAuthorized", mock.Anything, mock.Anything)
	})
}

func TestSessionService_Refresh(t *testing.T) {
	ctx := context.Background()

	issue := func(t *testing.T, f *sessionFixture) *auth.TokenPair {
		pair, err := f.jwt.GenerateTokenPair(auth.Subject{UID: "uid-staff", Email: "staff@shop.io", DisplayName: "Staff Member"})
		require.NoError(t, err)
		return pair
	}

	t.Run("still authorized rotates tokens", func(t *testing.T) {
		f := newSessionFixture()
		pair := issue(t, f)
		f.gate.On("IsAuthorized", ctx, "staff@shop.io").Return(true)

		result, err := f.service.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, access.SessionAuthorized, result.State)
		assert.Equal(t, "staff@shop.io", result.Profile.Email)
		require.NotNil(t, result.Tokens)

		_, err = f.service.Refresh(ctx, pair.RefreshToken)
		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "TOKEN_REVOKED", de.Code)
	})

	t.Run("removed admin is signed out without error", func(t *testing.T) {
		f := newSessionFixture()
		pair := issue(t, f)
		f.gate.On("IsAuthorized", ctx, "staff@shop.io").Return(false)

		result, err := f.service.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, access.SessionSignedOut, result.State)
		assert.Nil(t, result.Tokens)
		assert.Nil(t, result.Profile)

		claims, err := f.jwt.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		revoked, err := f.blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("concurrent refreshes with one token have one winner", func(t *testing.T) {
		f := newSessionFixture()
		pair := issue(t, f)
		f.gate.On("IsAuthorized", mock.Anything, "staff@shop.io").Return(true)

		const attempts = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			granted int
			codes   []string
		)
		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := f.service.Refresh(ctx, pair.RefreshToken)
				mu.Lock()
				defer mu.Unlock()
				if err == nil && result.Tokens != nil {
					granted++
					return
				}
				if de, ok := shared.AsDomainError(err); ok {
					codes = append(codes, de.Code)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, granted)
		require.Len(t, codes, attempts-1)
		for _, code := range codes {
			assert.Equal(t, "TOKEN_REVOKED", code)
		}
	})

	t.Run("logged out refresh token is revoked", func(t *testing.T) {
		f := newSessionFixture()
		pair := issue(t, f)
		_, err := f.service.Logout(ctx, nil, pair.RefreshToken)
		require.NoError(t, err)

		_, err = f.service.Refresh(ctx, pair.RefreshToken)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "TOKEN_REVOKED", de.Code)
		f.gate.AssertNotCalled(t, "IsAuthorized", mock.Anything, mock.Anything)
	})

	t.Run("garbage token is invalid", func(t *testing.T) {
		f := newSessionFixture()

		_, err := f.service.Refresh(ctx, "not-a-token")
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "TOKEN_INVALID", de.Code)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		f := newSessionFixture()
		pair := issue(t, f)

		_, err := f.service.Refresh(ctx, pair.AccessToken)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "TOKEN_INVALID", de.Code)
	})
}

func TestSessionService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture()

	pair, err := f.jwt.GenerateTokenPair(auth.Subject{UID: "uid-staff", Email: "staff@shop.io"})
	require.NoError(t, err)
	accessClaims, err := f.jwt.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	result, err := f.service.Logout(ctx, accessClaims, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, access.SessionSignedOut, result.State)

	revoked, _ := f.blacklist.IsBlacklisted(ctx, accessClaims.ID)
	assert.True(t, revoked)

	refreshClaims, err := f.jwt.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	revoked, _ = f.blacklist.IsBlacklisted(ctx, refreshClaims.ID)
	assert.True(t, revoked)
}

func TestSessionService_Current(t *testing.T) {
	f := newSessionFixture()

	assert.Equal(t, access.SessionSignedOut, f.service.Current(nil).State)

	claims := &auth.Claims{Email: "staff@shop.io", Name: "Staff"}
	claims.Subject = "uid-staff"
	result := f.service.Current(claims)
	assert.Equal(t, access.SessionAuthorized, result.State)
	assert.Equal(t, "uid-staff", result.Profile.UID)
	assert.Equal(t, "Staff", result.Profile.DisplayName)
}

func TestSessionMachine(t *testing.T) {
	sm := newSessionMachine(access.SessionSignedOut)

	ok, err := sm.CanFire(triggerGrant)
	require.NoError(t, err)
	assert.False(t, ok, "cannot authorize without loading")

	require.NoError(t, sm.Fire(triggerBegin))
	assert.Equal(t, access.SessionLoading, sessionState(sm))
	require.NoError(t, sm.Fire(triggerGrant))
	assert.Equal(t, access.SessionAuthorized, sessionState(sm))
	require.NoError(t, sm.Fire(triggerSignOut))
	assert.Equal(t, access.SessionSignedOut, sessionState(sm))
}
