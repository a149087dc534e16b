package persistence

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/shopadmin/backend/internal/domain/customer"
	"github.com/shopadmin/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
)

// FirestoreUserRepository implements customer.UserRepository
type FirestoreUserRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreUserRepository creates a new FirestoreUserRepository
func NewFirestoreUserRepository(client *firestore.Client, logger *zap.Logger) *FirestoreUserRepository {
	return &FirestoreUserRepository{client: client, logger: logger}
}

func (r *FirestoreUserRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionUsers)
}

// FindAll returns every user record
func (r *FirestoreUserRepository) FindAll(ctx context.Context) ([]customer.User, error) {
	docs, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", CollectionUsers, err)
	}
	return decodeAll(r.logger, docs, (*models.UserModel).ToDomain), nil
}

// FindByID returns one user record
func (r *FirestoreUserRepository) FindByID(ctx context.Context, id string) (*customer.User, error) {
	return getOne(ctx, r.collection().Doc(id), (*models.UserModel).ToDomain)
}

// UpdateProfile writes the admin-editable fields only
func (r *FirestoreUserRepository) UpdateProfile(ctx context.Context, user *customer.User) error {
	_, err := r.collection().Doc(user.ID).Update(ctx, []firestore.Update{
		{Path: "displayName", Value: user.DisplayName},
		{Path: "phoneNumber", Value: user.PhoneNumber},
		{Path: "updatedAt", Value: user.UpdatedAt},
	})
	return translate(err, "update user")
}

// Delete removes the user record
func (r *FirestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection().Doc(id).Delete(ctx)
	return translate(err, "delete user")
}

var _ customer.UserRepository = (*FirestoreUserRepository)(nil)
