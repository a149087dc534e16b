package order

import (
	"strings"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// Status is a canonical fulfilment status
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusPreparing Status = "PREPARING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists the canonical statuses in fulfilment order
var Statuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ErrInvalidStatus is returned for values outside the canonical set
var ErrInvalidStatus = shared.NewDomainError("INVALID_STATUS", "Unknown order status")

// legacyStatuses maps names written by older storefront versions
var legacyStatuses = map[string]Status{
	"CONFIRMED":  StatusAccepted,
	"PROCESSING": StatusPreparing,
}

// IsCanonical reports whether s is one of the six canonical statuses
func (s Status) IsCanonical() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Legacy returns the lowercase form stored on the order document
func (s Status) Legacy() string {
	return strings.ToLower(string(s))
}

// ParseStatus accepts a canonical status in any casing
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsCanonical() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// CanonicalStatus maps a stored status in any casing, including legacy
// names, to a canonical status
func CanonicalStatus(raw string) (Status, bool) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if s := Status(upper); s.IsCanonical() {
		return s, true
	}
	s, ok := legacyStatuses[upper]
	return s, ok
}

// DisplayStatus resolves the status shown for an order: the tracking status
// first, then the order's own status when canonical or a known legacy name,
// and PENDING otherwise.
func DisplayStatus(o *Order, t *Tracking) Status {
	if t != nil {
		if s, ok := CanonicalStatus(string(t.Status)); ok {
			return s
		}
	}
	if o != nil {
		if s, ok := CanonicalStatus(o.Status); ok {
			return s
		}
	}
	return StatusPending
}
