package persistence

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreProductRepository implements catalog.ProductRepository and catalog.ProductWatcher
type FirestoreProductRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreProductRepository creates a new FirestoreProductRepository
func NewFirestoreProductRepository(client *firestore.Client, logger *zap.Logger) *FirestoreProductRepository {
	return &FirestoreProductRepository{client: client, logger: logger}
}

func (r *FirestoreProductRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionProducts)
}

// FindAll returns every product
func (r *FirestoreProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	docs, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", CollectionProducts, err)
	}
	return decodeAll(r.logger, docs, (*models.ProductModel).ToDomain), nil
}

// FindByID returns one product
func (r *FirestoreProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	return getOne(ctx, r.collection().Doc(id), (*models.ProductModel).ToDomain)
}

// Create adds a product under a generated id
func (r *FirestoreProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	ref, _, err := r.collection().Add(ctx, models.ProductFields(product, false))
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	product.ID = ref.ID
	return nil
}

// Update merges the product fields into the stored document, keeping fields
// this service does not manage
func (r *FirestoreProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	_, err := r.collection().Doc(product.ID).Set(ctx, models.ProductFields(product, true), firestore.MergeAll)
	return translate(err, "update product")
}

// Delete removes a product
func (r *FirestoreProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection().Doc(id).Delete(ctx)
	return translate(err, "delete product")
}

// Watch streams the full product collection on every change until ctx ends
func (r *FirestoreProductRepository) Watch(ctx context.Context, onSnapshot func([]catalog.Product)) error {
	it := r.collection().Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return ctx.Err()
			}
			return fmt.Errorf("watch %s: %w", CollectionProducts, err)
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			return fmt.Errorf("read %s snapshot: %w", CollectionProducts, err)
		}
		onSnapshot(decodeAll(r.logger, docs, (*models.ProductModel).ToDomain))
	}
}

var (
	_ catalog.ProductRepository = (*FirestoreProductRepository)(nil)
	_ catalog.ProductWatcher    = (*FirestoreProductRepository)(nil)
)
