package persistence

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/shopadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore collection names shared with the storefront
const (
	CollectionAllowedUsers  = "allowedUsers"
	CollectionUsers         = "users"
	CollectionProducts      = "products"
	CollectionOrders        = "orders"
	CollectionOrderTracking = "orderTracking"
	CollectionCustomOrders  = "customOrders"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// translate maps a Firestore NotFound onto shared.ErrNotFound and wraps anything else
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return shared.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// decodeAll converts every document, skipping those that fail to decode
func decodeAll[M any, T any](logger *zap.Logger, docs []*firestore.DocumentSnapshot, convert func(*M, string) T) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var m M
		if err := doc.DataTo(&m); err != nil {
			logger.Warn("Skipping malformed document",
				zap.String("path", doc.Ref.Path),
				zap.Error(err))
			continue
		}
		out = append(out, convert(&m, doc.Ref.ID))
	}
	return out
}

// getOne reads a single document, returning shared.ErrNotFound when it is missing
func getOne[M any, T any](ctx context.Context, ref *firestore.DocumentRef, convert func(*M, string) T) (*T, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, translate(err, "get "+ref.Path)
	}
	var m M
	if err := snap.DataTo(&m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref.Path, err)
	}
	v := convert(&m, snap.Ref.ID)
	return &v, nil
}

// findByOrderID reads the document keyed by orderID, falling back to a query on the orderId field
func findByOrderID[M any, T any](ctx context.Context, col *firestore.CollectionRef, orderID string, convert func(*M, string) T) (*T, error) {
	v, err := getOne(ctx, col.Doc(orderID), convert)
	if err == nil || !errors.Is(err, shared.ErrNotFound) {
		return v, err
	}

	docs, err := col.Where("orderId", "==", orderID).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", col.Path, err)
	}
	if len(docs) == 0 {
		return nil, shared.ErrNotFound
	}
	var m M
	if err := docs[0].DataTo(&m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", docs[0].Ref.Path, err)
	}
	out := convert(&m, docs[0].Ref.ID)
	return &out, nil
}

// Ping verifies Firestore is reachable with a single-document read
func Ping(ctx context.Context, client *firestore.Client) error {
	if _, err := client.Collection(CollectionAllowedUsers).Limit(1).Documents(ctx).GetAll(); err != nil {
		return fmt.Errorf("ping firestore: %w", err)
	}
	return nil
}
