// Package identity adapts the Firebase Auth admin client
package identity

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrEmptyIDToken is returned when no ID token was supplied
var ErrEmptyIDToken = errors.New("empty id token")

// AuthClient is the subset of *auth.Client used here
type AuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

// FirebaseIdentity verifies Firebase ID tokens and issues password reset links
type FirebaseIdentity struct {
	client AuthClient
	logger *zap.Logger
}

// NewFirebaseIdentity creates a new FirebaseIdentity
func NewFirebaseIdentity(client AuthClient, logger *zap.Logger) *FirebaseIdentity {
	return &FirebaseIdentity{client: client, logger: logger}
}

// VerifyIDToken checks signature, expiry and audience and returns the identity it carries
func (f *FirebaseIdentity) VerifyIDToken(ctx context.Context, idToken string) (*access.Identity, error) {
	if idToken == "" {
		return nil, ErrEmptyIDToken
	}

	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	return &access.Identity{
		UID:         token.UID,
		Email:       claimString(token.Claims, "email"),
		DisplayName: claimString(token.Claims, "name"),
		PhotoURL:    claimString(token.Claims, "picture"),
	}, nil
}

// PasswordResetLink generates a reset link for an existing account
func (f *FirebaseIdentity) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := f.client.PasswordResetLink(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return "", shared.ErrNotFound
		}
		return "", fmt.Errorf("generate password reset link: %w", err)
	}
	return link, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
