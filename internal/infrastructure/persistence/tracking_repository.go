package persistence

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/shopadmin/backend/internal/domain/order"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
)

// FirestoreTrackingRepository implements order.TrackingRepository.
// New tracking documents are keyed by order id; older ones may use any id
// and carry the order id in their orderId field.
type FirestoreTrackingRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreTrackingRepository creates a new FirestoreTrackingRepository
func NewFirestoreTrackingRepository(client *firestore.Client, logger *zap.Logger) *FirestoreTrackingRepository {
	return &FirestoreTrackingRepository{client: client, logger: logger}
}

func (r *FirestoreTrackingRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionOrderTracking)
}

// FindAll returns every tracking record
func (r *FirestoreTrackingRepository) FindAll(ctx context.Context) ([]order.Tracking, error) {
	docs, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", CollectionOrderTracking, err)
	}
	return decodeAll(r.logger, docs, (*models.TrackingModel).ToDomain), nil
}

// FindByOrderID returns the tracking record of an order
func (r *FirestoreTrackingRepository) FindByOrderID(ctx context.Context, orderID string) (*order.Tracking, error) {
	return findByOrderID(ctx, r.collection(), orderID, (*models.TrackingModel).ToDomain)
}

// ApplyStatusUpdate appends to the tracking history and mirrors the lowercase
// status onto the order in one transaction. The history entry is added with
// ArrayUnion so stored entries are never rewritten.
func (r *FirestoreTrackingRepository) ApplyStatusUpdate(ctx context.Context, orderID string, update order.StatusUpdate) (*order.Tracking, error) {
	orderRef := r.client.Collection(CollectionOrders).Doc(orderID)

	var result *order.Tracking
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(orderRef); err != nil {
			if isNotFound(err) {
				return shared.ErrNotFound
			}
			return fmt.Errorf("get order: %w", err)
		}

		trackingRef, snap, err := r.resolveTracking(tx, orderID)
		if err != nil {
			return err
		}
		tracking := order.NewTracking(orderID)
		if snap != nil {
			var m models.TrackingModel
			if err := snap.DataTo(&m); err != nil {
				return fmt.Errorf("decode tracking: %w", err)
			}
			current := m.ToDomain(orderID)
			tracking = &current
		}

		if err := tracking.Apply(update); err != nil {
			return err
		}
		entry := tracking.StatusHistory[len(tracking.StatusHistory)-1]

		fields := map[string]any{
			"orderId":       orderID,
			"status":        string(tracking.Status),
			"updatedAt":     tracking.UpdatedAt,
			"statusHistory": firestore.ArrayUnion(models.StatusChangeFields(entry)),
		}
		if d := update.Details.TrackingNumber; d != nil {
			fields["trackingNumber"] = *d
		}
		if d := update.Details.CourierService; d != nil {
			fields["courierService"] = *d
		}
		if d := update.Details.EstimatedDelivery; d != nil {
			fields["estimatedDelivery"] = *d
		}

		if err := tx.Set(trackingRef, fields, firestore.MergeAll); err != nil {
			return fmt.Errorf("write tracking: %w", err)
		}
		if err := tx.Update(orderRef, []firestore.Update{
			{Path: "status", Value: update.Status.Legacy()},
			{Path: "updatedAt", Value: update.At},
		}); err != nil {
			return fmt.Errorf("write order status: %w", err)
		}

		result = tracking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveTracking finds the tracking document of an order the same way
// FindByOrderID does: by document id first, then by the orderId field.
// When neither exists it returns the order-keyed ref and a nil snapshot.
func (r *FirestoreTrackingRepository) resolveTracking(tx *firestore.Transaction, orderID string) (*firestore.DocumentRef, *firestore.DocumentSnapshot, error) {
	ref := r.collection().Doc(orderID)
	snap, err := tx.Get(ref)
	if err == nil {
		return ref, snap, nil
	}
	if !isNotFound(err) {
		return nil, nil, fmt.Errorf("get tracking: %w", err)
	}

	docs, err := tx.Documents(r.collection().Where("orderId", "==", orderID).Limit(1)).GetAll()
	if err != nil {
		return nil, nil, fmt.Errorf("query tracking: %w", err)
	}
	if len(docs) == 0 {
		return ref, nil, nil
	}
	return docs[0].Ref, docs[0], nil
}

var _ order.TrackingRepository = (*FirestoreTrackingRepository)(nil)
