package customer

import (
	"context"
	"strings"
	"time"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// User is a consumer account record created by the storefront.
// Deleting it removes the data row only; the identity stays with the provider.
type User struct {
	ID          string
	DisplayName string
	Email       string
	PhotoURL    string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateProfile changes the admin-editable fields
func (u *User) UpdateProfile(displayName, phoneNumber string, now time.Time) error {
	displayName = strings.TrimSpace(displayName)
	if len(displayName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Display name cannot exceed 100 characters")
	}
	phoneNumber = strings.TrimSpace(phoneNumber)
	if len(phoneNumber) > 30 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 30 characters")
	}
	u.DisplayName = displayName
	u.PhoneNumber = phoneNumber
	u.UpdatedAt = now
	return nil
}

// Matches reports whether the search term hits displayName, email or phone number
func (u *User) Matches(search string) bool {
	return shared.MatchesAnyFold(search, u.DisplayName, u.Email, u.PhoneNumber)
}

// UserRepository persists user records
type UserRepository interface {
	// FindAll returns every user record
	FindAll(ctx context.Context) ([]User, error)

	// FindByID returns shared.ErrNotFound when the record is missing
	FindByID(ctx context.Context, id string) (*User, error)

	// UpdateProfile writes displayName, phoneNumber and updatedAt
	UpdateProfile(ctx context.Context, user *User) error

	// Delete removes the record
	Delete(ctx context.Context, id string) error
}
