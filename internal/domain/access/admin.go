package access

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// DefaultOwnerEmail is the shop owner, who always holds admin access
const DefaultOwnerEmail = "sanshraysinghlangeh@gmail.com"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Allow-list errors
var (
	ErrEmailRequired  = shared.NewDomainError("EMAIL_REQUIRED", "Please enter an email address")
	ErrInvalidEmail   = shared.NewDomainError("INVALID_EMAIL", "Please enter a valid email address")
	ErrAdminExists    = shared.NewDomainError("ALREADY_EXISTS", "This email is already an admin")
	ErrOwnerImmutable = shared.NewDomainError("OWNER_IMMUTABLE", "The owner account cannot be removed from the allow-list")
)

// AllowedAdmin is an entry of the admin allow-list. New entries are stored
// under their normalized email; older ones may carry any document ID.
type AllowedAdmin struct {
	ID      string
	Email   string
	AddedAt time.Time
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the local@domain.tld shape of a normalized email
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// NewAllowedAdmin normalizes and validates the email and stamps the entry
func NewAllowedAdmin(rawEmail string, now time.Time) (*AllowedAdmin, error) {
	email := NormalizeEmail(rawEmail)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	return &AllowedAdmin{ID: email, Email: email, AddedAt: now}, nil
}

// Owner identifies the implicit allow-list member
type Owner string

// NewOwner normalizes the configured owner address, falling back to the default
func NewOwner(email string) Owner {
	if n := NormalizeEmail(email); n != "" {
		return Owner(n)
	}
	return Owner(DefaultOwnerEmail)
}

// Matches reports whether email is the owner address, ignoring case and surrounding space
func (o Owner) Matches(email string) bool {
	return NormalizeEmail(email) == string(o)
}

// String returns the owner email
func (o Owner) String() string {
	return string(o)
}
