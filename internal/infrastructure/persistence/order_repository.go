package persistence

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/shopadmin/backend/internal/domain/order"
	"github.com/shopadmin/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
)

// FirestoreOrderRepository implements order.OrderRepository
type FirestoreOrderRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreOrderRepository creates a new FirestoreOrderRepository
func NewFirestoreOrderRepository(client *firestore.Client, logger *zap.Logger) *FirestoreOrderRepository {
	return &FirestoreOrderRepository{client: client, logger: logger}
}

// FindAll returns every order
func (r *FirestoreOrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	docs, err := r.client.Collection(CollectionOrders).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", CollectionOrders, err)
	}
	return decodeAll(r.logger, docs, (*models.OrderModel).ToDomain), nil
}

// FindByID returns one order
func (r *FirestoreOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	return getOne(ctx, r.client.Collection(CollectionOrders).Doc(id), (*models.OrderModel).ToDomain)
}

var _ order.OrderRepository = (*FirestoreOrderRepository)(nil)

// FirestoreCustomOrderRepository implements order.CustomOrderRepository
type FirestoreCustomOrderRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreCustomOrderRepository creates a new FirestoreCustomOrderRepository
func NewFirestoreCustomOrderRepository(client *firestore.Client, logger *zap.Logger) *FirestoreCustomOrderRepository {
	return &FirestoreCustomOrderRepository{client: client, logger: logger}
}

// FindAll returns every customization record
func (r *FirestoreCustomOrderRepository) FindAll(ctx context.Context) ([]order.CustomOrder, error) {
	docs, err := r.client.Collection(CollectionCustomOrders).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", CollectionCustomOrders, err)
	}
	return decodeAll(r.logger, docs, (*models.CustomOrderModel).ToDomain), nil
}

// FindByOrderID returns the customization record of an order
func (r *FirestoreCustomOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*order.CustomOrder, error) {
	return findByOrderID(ctx, r.client.Collection(CollectionCustomOrders), orderID, (*models.CustomOrderModel).ToDomain)
}

var _ order.CustomOrderRepository = (*FirestoreCustomOrderRepository)(nil)
