package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/qmuntal/stateless"
	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

const (
	triggerBegin   = "begin"
	triggerGrant   = "grant"
	triggerDeny    = "deny"
	triggerSignOut = "sign_out"
)

// Login outcomes reported to the SessionRecorder
const (
	OutcomeGranted = "granted"
	OutcomeDenied  = "denied"
	OutcomeFailed  = "failed"
)

// SessionRecorder receives login outcomes
type SessionRecorder interface {
	RecordLogin(ctx context.Context, outcome string)
}

type nopSessionRecorder struct{}

func (nopSessionRecorder) RecordLogin(context.Context, string) {}

// SessionResult is what a caller learns about a session. Tokens and Profile
// are set only when State is authorized.
type SessionResult struct {
	State   access.SessionState
	Profile *access.Identity
	Tokens  *auth.TokenPair
}

// SessionService drives admin sign-in, restore and sign-out
type SessionService struct {
	verifier  IdentityVerifier
	gate      Authorizer
	tokens    TokenIssuer
	blacklist auth.TokenBlacklist
	recorder  SessionRecorder
	logger    *zap.Logger
}

// NewSessionService creates a session service
func NewSessionService(
	verifier IdentityVerifier,
	gate Authorizer,
	tokens TokenIssuer,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		verifier:  verifier,
		gate:      gate,
		tokens:    tokens,
		blacklist: blacklist,
		recorder:  nopSessionRecorder{},
		logger:    logger,
	}
}

// SetRecorder installs a login outcome recorder
func (s *SessionService) SetRecorder(r SessionRecorder) {
	if r != nil {
		s.recorder = r
	}
}

func newSessionMachine(initial access.SessionState) *stateless.StateMachine {
	sm := stateless.NewStateMachine(initial)
	sm.Configure(access.SessionSignedOut).
		Permit(triggerBegin, access.SessionLoading)
	sm.Configure(access.SessionLoading).
		Permit(triggerGrant, access.SessionAuthorized).
		Permit(triggerDeny, access.SessionSignedOut)
	sm.Configure(access.SessionAuthorized).
		Permit(triggerSignOut, access.SessionSignedOut)
	return sm
}

func sessionState(sm *stateless.StateMachine) access.SessionState {
	return sm.MustState().(access.SessionState)
}

// Login exchanges an identity provider ID token for an admin session
func (s *SessionService) Login(ctx context.Context, idToken string) (*SessionResult, error) {
	sm := newSessionMachine(access.SessionSignedOut)
	if err := sm.FireCtx(ctx, triggerBegin); err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}

	identity, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		_ = sm.FireCtx(ctx, triggerDeny)
		s.recorder.RecordLogin(ctx, OutcomeFailed)
		s.logger.Warn("ID token verification failed", zap.Error(err))
		return nil, shared.ErrAuthentication
	}

	if !s.gate.IsAuthorized(ctx, identity.Email) {
		_ = sm.FireCtx(ctx, triggerDeny)
		s.recorder.RecordLogin(ctx, OutcomeDenied)
		s.logger.Warn("Admin access denied", zap.String("email", identity.Email))
		return nil, shared.ErrAccessDenied
	}

	tokens, err := s.tokens.GenerateTokenPair(subjectOf(identity))
	if err != nil {
		_ = sm.FireCtx(ctx, triggerDeny)
		s.recorder.RecordLogin(ctx, OutcomeFailed)
		s.logger.Error("Failed to issue session tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to issue session tokens")
	}

	if err := sm.FireCtx(ctx, triggerGrant); err != nil {
		return nil, fmt.Errorf("grant session: %w", err)
	}
	s.recorder.RecordLogin(ctx, OutcomeGranted)
	s.logger.Info("Admin signed in", zap.String("email", identity.Email))

	return &SessionResult{
		State:   sessionState(sm),
		Profile: identity,
		Tokens:  tokens,
	}, nil
}

// Refresh restores a session from a refresh token. The allow-list is checked
// again; an email that lost access gets a signed-out result with no error.
// A refresh token is spent by its first use, even when refreshes race.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*SessionResult, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}

	claimed, err := s.blacklist.Claim(ctx, claims.ID, claims.GetRemainingTTL())
	if err != nil {
		s.logger.Error("Failed to claim refresh token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
	}
	if !claimed {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}

	sm := newSessionMachine(access.SessionSignedOut)
	if err := sm.FireCtx(ctx, triggerBegin); err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}

	if !s.gate.IsAuthorized(ctx, claims.Email) {
		_ = sm.FireCtx(ctx, triggerDeny)
		s.logger.Info("Session ended, email no longer allowed", zap.String("email", claims.Email))
		return &SessionResult{State: sessionState(sm)}, nil
	}

	tokens, err := s.tokens.RefreshTokenPair(claims)
	if err != nil {
		_ = sm.FireCtx(ctx, triggerDeny)
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, tokenError(err)
	}

	if err := sm.FireCtx(ctx, triggerGrant); err != nil {
		return nil, fmt.Errorf("grant session: %w", err)
	}

	profile := identityOf(claims)
	return &SessionResult{
		State:   sessionState(sm),
		Profile: &profile,
		Tokens:  tokens,
	}, nil
}

// Logout revokes the access token and, when given and valid, the refresh token
func (s *SessionService) Logout(ctx context.Context, accessClaims *auth.Claims, refreshToken string) (*SessionResult, error) {
	sm := newSessionMachine(access.SessionAuthorized)

	if accessClaims != nil {
		if err := s.blacklist.AddToBlacklist(ctx, accessClaims.ID, accessClaims.GetRemainingTTL()); err != nil {
			return nil, fmt.Errorf("revoke access token: %w", err)
		}
	}
	if refreshToken != "" {
		if claims, err := s.tokens.ValidateRefreshToken(refreshToken); err == nil {
			s.revoke(ctx, claims)
		}
	}

	if err := sm.FireCtx(ctx, triggerSignOut); err != nil {
		return nil, fmt.Errorf("sign out: %w", err)
	}
	if accessClaims != nil {
		s.logger.Info("Admin signed out", zap.String("email", accessClaims.Email))
	}
	return &SessionResult{State: sessionState(sm)}, nil
}

// Current returns the session profile carried by validated access claims
func (s *SessionService) Current(claims *auth.Claims) *SessionResult {
	if claims == nil {
		return &SessionResult{State: access.SessionSignedOut}
	}
	profile := identityOf(claims)
	return &SessionResult{
		State:   access.SessionAuthorized,
		Profile: &profile,
	}
}

func (s *SessionService) revoke(ctx context.Context, claims *auth.Claims) {
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke refresh token", zap.Error(err))
	}
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingEmail),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}

func subjectOf(id *access.Identity) auth.Subject {
	return auth.Subject{
		UID:         id.UID,
		Email:       access.NormalizeEmail(id.Email),
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
	}
}

func identityOf(claims *auth.Claims) access.Identity {
	sub := claims.ToSubject()
	return access.Identity{
		UID:         sub.UID,
		Email:       sub.Email,
		DisplayName: sub.DisplayName,
		PhotoURL:    sub.PhotoURL,
	}
}
