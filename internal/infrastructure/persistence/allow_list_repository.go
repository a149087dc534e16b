package persistence

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
)

// FirestoreAllowListRepository implements access.AllowListRepository.
// New documents are keyed by normalized email; entries created elsewhere
// may use generated IDs and are matched on their email field.
type FirestoreAllowListRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreAllowListRepository creates a new FirestoreAllowListRepository
func NewFirestoreAllowListRepository(client *firestore.Client, logger *zap.Logger) *FirestoreAllowListRepository {
	return &FirestoreAllowListRepository{client: client, logger: logger}
}

func (r *FirestoreAllowListRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionAllowedUsers)
}

// FindAll returns every allow-list entry
func (r *FirestoreAllowListRepository) FindAll(ctx context.Context) ([]access.AllowedAdmin, error) {
	docs, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", CollectionAllowedUsers, err)
	}
	return decodeAll(r.logger, docs, (*models.AllowedAdminModel).ToDomain), nil
}

// Save writes the entry under its ID, or under its email when the ID is blank
func (r *FirestoreAllowListRepository) Save(ctx context.Context, admin *access.AllowedAdmin) error {
	id := admin.ID
	if id == "" {
		id = admin.Email
	}
	_, err := r.collection().Doc(id).Set(ctx, models.AllowedAdminModelFromDomain(admin))
	return translate(err, "save allowed admin")
}

// Delete removes the document stored under id
func (r *FirestoreAllowListRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection().Doc(id).Delete(ctx)
	return translate(err, "delete allowed admin")
}

var _ access.AllowListRepository = (*FirestoreAllowListRepository)(nil)
