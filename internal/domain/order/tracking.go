package order

import "time"

// Tracking is the fulfilment record of an order
type Tracking struct {
	OrderID           string
	Status            Status
	TrackingNumber    string
	CourierService    string
	EstimatedDelivery string
	StatusHistory     []StatusChange
	UpdatedAt         time.Time
}

// StatusChange is one entry of the append-only status history
type StatusChange struct {
	Status    Status
	Timestamp time.Time
	Notes     string
}

// TrackingDetails are optional shipment fields merged on a status update.
// Nil fields leave the stored value unchanged.
type TrackingDetails struct {
	TrackingNumber    *string
	CourierService    *string
	EstimatedDelivery *string
}

// StatusUpdate is a request to move an order to a new status
type StatusUpdate struct {
	Status  Status
	Notes   string
	Details TrackingDetails
	At      time.Time
}

// NewTracking creates an empty tracking record for an order
func NewTracking(orderID string) *Tracking {
	return &Tracking{OrderID: orderID}
}

// Apply appends the change to the history and merges the shipment details.
// Existing history entries are never modified.
func (t *Tracking) Apply(u StatusUpdate) error {
	if !u.Status.IsCanonical() {
		return ErrInvalidStatus
	}
	history := make([]StatusChange, len(t.StatusHistory), len(t.StatusHistory)+1)
	copy(history, t.StatusHistory)
	t.StatusHistory = append(history, StatusChange{
		Status:    u.Status,
		Timestamp: u.At,
		Notes:     u.Notes,
	})
	t.Status = u.Status
	t.UpdatedAt = u.At
	if u.Details.TrackingNumber != nil {
		t.TrackingNumber = *u.Details.TrackingNumber
	}
	if u.Details.CourierService != nil {
		t.CourierService = *u.Details.CourierService
	}
	if u.Details.EstimatedDelivery != nil {
		t.EstimatedDelivery = *u.Details.EstimatedDelivery
	}
	return nil
}
