package catalog

import "context"

// ProductRepository persists products
type ProductRepository interface {
	FindAll(ctx context.Context) ([]Product, error)
	// FindByID returns shared.ErrNotFound when the product is missing
	FindByID(ctx context.Context, id string) (*Product, error)
	// Create stores a new product and assigns its ID
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}

// ProductWatcher streams full catalog snapshots whenever any product changes.
// Watch blocks until ctx is done or the stream fails, calling onSnapshot for
// the initial state and every subsequent change.
type ProductWatcher interface {
	Watch(ctx context.Context, onSnapshot func([]Product)) error
}
