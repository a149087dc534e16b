package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the storefront's order document. Status is a free-form legacy
// field kept in sync with the tracking record on every status update.
type Order struct {
	ID              string
	UserID          string
	UserEmail       string
	Items           []Item
	ShippingAddress ShippingAddress
	Total           decimal.Decimal
	PaymentMethod   string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Item is a line of an order
type Item struct {
	ProductID     string
	Name          string
	Image         string
	Price         decimal.Decimal
	Quantity      int
	SelectedSize  string
	SelectedColor string
}

// ShippingAddress is the delivery address captured at checkout
type ShippingAddress struct {
	FullName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// CustomOrder holds customization requests attached to an order
type CustomOrder struct {
	OrderID         string
	AdditionalNotes string
	Design          map[string]any
}
