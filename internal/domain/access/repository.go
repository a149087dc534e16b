package access

import "context"

// AllowListRepository persists the admin allow-list
type AllowListRepository interface {
	// FindAll returns every stored allow-list entry
	FindAll(ctx context.Context) ([]AllowedAdmin, error)

	// Save creates or overwrites the entry under its ID
	Save(ctx context.Context, admin *AllowedAdmin) error

	// Delete removes the entry stored under id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}
