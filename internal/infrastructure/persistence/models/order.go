package models

import (
	"strings"

	"github.com/shopadmin/backend/internal/domain/order"
)

// OrderModel is a document of the orders collection
type OrderModel struct {
	UserID          string        `firestore:"userId"`
	UserEmail       string        `firestore:"userEmail"`
	Items           []OrderItem   `firestore:"items"`
	ShippingAddress *AddressModel `firestore:"shippingAddress"`
	Total           any           `firestore:"total"`
	PaymentMethod   string        `firestore:"paymentMethod"`
	Status          string        `firestore:"status"`
	CreatedAt       any           `firestore:"createdAt"`
	UpdatedAt       any           `firestore:"updatedAt"`
}

// OrderItem is a line of an order. The product is embedded as it looked at checkout.
type OrderItem struct {
	Product       map[string]any `firestore:"product"`
	ProductID     string         `firestore:"productId"`
	Quantity      any            `firestore:"quantity"`
	SelectedSize  string         `firestore:"selectedSize"`
	SelectedColor any            `firestore:"selectedColor"`
}

// AddressModel is the checkout shipping address
type AddressModel struct {
	FullName     string `firestore:"fullName"`
	Phone        any    `firestore:"phone"`
	AddressLine1 string `firestore:"addressLine1"`
	AddressLine2 string `firestore:"addressLine2"`
	City         string `firestore:"city"`
	State        string `firestore:"state"`
	Pincode      any    `firestore:"pincode"`
	Country      string `firestore:"country"`
}

// ToDomain converts the document
func (m *OrderModel) ToDomain(id string) order.Order {
	o := order.Order{
		ID:            id,
		UserID:        m.UserID,
		UserEmail:     m.UserEmail,
		Total:         Decimal(m.Total),
		PaymentMethod: m.PaymentMethod,
		Status:        m.Status,
		CreatedAt:     Time(m.CreatedAt),
		UpdatedAt:     Time(m.UpdatedAt),
	}
	if a := m.ShippingAddress; a != nil {
		o.ShippingAddress = order.ShippingAddress{
			FullName:     a.FullName,
			Phone:        String(a.Phone),
			AddressLine1: a.AddressLine1,
			AddressLine2: a.AddressLine2,
			City:         a.City,
			State:        a.State,
			PostalCode:   String(a.Pincode),
			Country:      a.Country,
		}
	}
	o.Items = make([]order.Item, 0, len(m.Items))
	for _, it := range m.Items {
		o.Items = append(o.Items, it.toDomain())
	}
	return o
}

func (it OrderItem) toDomain() order.Item {
	qty, _ := Int(it.Quantity)
	item := order.Item{
		ProductID:     it.ProductID,
		Quantity:      qty,
		SelectedSize:  it.SelectedSize,
		SelectedColor: String(it.SelectedColor),
	}
	if p := it.Product; p != nil {
		if item.ProductID == "" {
			item.ProductID = String(p["id"])
		}
		item.Name = String(p["name"])
		item.Price = Decimal(p["price"])
		if images, ok := p["images"].([]any); ok && len(images) > 0 {
			item.Image = String(images[0])
		} else {
			item.Image = String(p["image"])
		}
	}
	return item
}

// TrackingModel is a document of the orderTracking collection, keyed by order id
type TrackingModel struct {
	OrderID           string               `firestore:"orderId"`
	Status            string               `firestore:"status"`
	TrackingNumber    string               `firestore:"trackingNumber"`
	CourierService    string               `firestore:"courierService"`
	EstimatedDelivery any                  `firestore:"estimatedDelivery"`
	StatusHistory     []StatusHistoryModel `firestore:"statusHistory"`
	UpdatedAt         any                  `firestore:"updatedAt"`
}

// StatusHistoryModel is one entry of the tracking history
type StatusHistoryModel struct {
	Status    string `firestore:"status"`
	Timestamp any    `firestore:"timestamp"`
	Notes     string `firestore:"notes"`
}

// ToDomain converts the document. orderId falls back to the document id.
func (m *TrackingModel) ToDomain(docID string) order.Tracking {
	t := order.Tracking{
		OrderID:           m.OrderID,
		Status:            order.Status(strings.ToUpper(strings.TrimSpace(m.Status))),
		TrackingNumber:    m.TrackingNumber,
		CourierService:    m.CourierService,
		EstimatedDelivery: DateString(m.EstimatedDelivery),
		UpdatedAt:         Time(m.UpdatedAt),
	}
	if t.OrderID == "" {
		t.OrderID = docID
	}
	t.StatusHistory = make([]order.StatusChange, 0, len(m.StatusHistory))
	for _, h := range m.StatusHistory {
		t.StatusHistory = append(t.StatusHistory, order.StatusChange{
			Status:    order.Status(strings.ToUpper(h.Status)),
			Timestamp: Time(h.Timestamp),
			Notes:     h.Notes,
		})
	}
	return t
}

// StatusChangeFields is the stored form of a history entry. Empty notes are omitted.
func StatusChangeFields(c order.StatusChange) map[string]any {
	entry := map[string]any{
		"status":    string(c.Status),
		"timestamp": c.Timestamp,
	}
	if c.Notes != "" {
		entry["notes"] = c.Notes
	}
	return entry
}

// CustomOrderModel is a document of the customOrders collection
type CustomOrderModel struct {
	OrderID         string         `firestore:"orderId"`
	AdditionalNotes string         `firestore:"additionalNotes"`
	Design          map[string]any `firestore:"design"`
}

// ToDomain converts the document. orderId falls back to the document id.
func (m *CustomOrderModel) ToDomain(docID string) order.CustomOrder {
	c := order.CustomOrder{
		OrderID:         m.OrderID,
		AdditionalNotes: m.AdditionalNotes,
		Design:          m.Design,
	}
	if c.OrderID == "" {
		c.OrderID = docID
	}
	return c
}
