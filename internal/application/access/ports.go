package access

import (
	"context"

	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
)

// IdentityVerifier verifies ID tokens minted by the identity provider
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*access.Identity, error)
}

// TokenIssuer issues and validates admin session tokens
type TokenIssuer interface {
	GenerateTokenPair(subject auth.Subject) (*auth.TokenPair, error)
	RefreshTokenPair(claims *auth.Claims) (*auth.TokenPair, error)
	ValidateRefreshToken(token string) (*auth.Claims, error)
}

// Authorizer decides whether an email may use the admin panel
type Authorizer interface {
	IsAuthorized(ctx context.Context, email string) bool
}

// InvalidationPublisher tells other replicas to drop their allow-list cache
type InvalidationPublisher interface {
	PublishInvalidation(ctx context.Context) error
}
