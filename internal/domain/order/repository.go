package order

import "context"

// OrderRepository reads storefront orders
type OrderRepository interface {
	FindAll(ctx context.Context) ([]Order, error)
	// FindByID returns shared.ErrNotFound when the order is missing
	FindByID(ctx context.Context, id string) (*Order, error)
}

// TrackingRepository reads and writes fulfilment records
type TrackingRepository interface {
	FindAll(ctx context.Context) ([]Tracking, error)
	// FindByOrderID returns shared.ErrNotFound when no record exists
	FindByOrderID(ctx context.Context, orderID string) (*Tracking, error)
	// ApplyStatusUpdate appends the update to the order's tracking record,
	// creating it when absent, and mirrors the lowercase status onto the
	// order document. Both writes commit together or not at all.
	ApplyStatusUpdate(ctx context.Context, orderID string, update StatusUpdate) (*Tracking, error)
}

// CustomOrderRepository reads customization records
type CustomOrderRepository interface {
	FindAll(ctx context.Context) ([]CustomOrder, error)
	// FindByOrderID returns shared.ErrNotFound when the order has no customization
	FindByOrderID(ctx context.Context, orderID string) (*CustomOrder, error)
}
