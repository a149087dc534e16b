package identity

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAuthClient is a mock implementation of AuthClient
type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Token), args.Error(1)
}

func (m *MockAuthClient) PasswordResetLink(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func TestFirebaseIdentity_VerifyIDToken(t *testing.T) {
	ctx := context.Background()

	t.Run("maps claims to identity", func(t *testing.T) {
		client := new(MockAuthClient)
		client.On("VerifyIDToken", ctx, "tok").Return(&auth.Token{
			UID: "uid-1",
			Claims: map[string]interface{}{
				"email":   "staff@shop.io",
				"name":    "Staff",
				"picture": "https://img/s.png",
			},
		}, nil)

		id, err := NewFirebaseIdentity(client, zap.NewNop()).VerifyIDToken(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "uid-1", id.UID)
		assert.Equal(t, "staff@shop.io", id.Email)
		assert.Equal(t, "Staff", id.DisplayName)
		assert.Equal(t, "https://img/s.png", id.PhotoURL)
	})

	t.Run("missing optional claims", func(t *testing.T) {
		client := new(MockAuthClient)
		client.On("VerifyIDToken", ctx, "tok").Return(&auth.Token{UID: "uid-2", Claims: map[string]interface{}{}}, nil)

		id, err := NewFirebaseIdentity(client, zap.NewNop()).VerifyIDToken(ctx, "tok")
		require.NoError(t, err)
		assert.Empty(t, id.Email)
	})

	t.Run("empty token is rejected locally", func(t *testing.T) {
		client := new(MockAuthClient)

		_, err := NewFirebaseIdentity(client, zap.NewNop()).VerifyIDToken(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyIDToken)
		client.AssertNotCalled(t, "VerifyIDToken", mock.Anything, mock.Anything)
	})

	t.Run("verification failure is wrapped", func(t *testing.T) {
		client := new(MockAuthClient)
		cause := errors.New("token expired")
		client.On("VerifyIDToken", ctx, "old").Return(nil, cause)

		_, err := NewFirebaseIdentity(client, zap.NewNop()).VerifyIDToken(ctx, "old")
		assert.ErrorIs(t, err, cause)
	})
}

func TestFirebaseIdentity_PasswordResetLink(t *testing.T) {
	ctx := context.Background()
	client := new(MockAuthClient)
	client.On("PasswordResetLink", ctx, "buyer@mail.com").Return("https://auth/reset", nil)
	client.On("PasswordResetLink", ctx, "broken@mail.com").Return("", errors.New("quota"))

	f := NewFirebaseIdentity(client, zap.NewNop())

	link, err := f.PasswordResetLink(ctx, "buyer@mail.com")
	require.NoError(t, err)
	assert.Equal(t, "https://auth/reset", link)

	_, err = f.PasswordResetLink(ctx, "broken@mail.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrNotFound)
}
