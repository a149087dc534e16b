package handler

import (
	"time"

	"github.com/shopadmin/backend/internal/domain/order"
)

// OrderListQuery is the query string of GET /orders
type OrderListQuery struct {
	Search   string `form:"search"`
	Status   string `form:"status" example:"ALL"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"10"`
}

// UpdateStatusRequest moves an order to a new fulfilment status. Omitted
// shipment fields keep their stored value.
type UpdateStatusRequest struct {
	Status            string  `json:"status" binding:"required" example:"SHIPPED"`
	Notes             string  `json:"notes" binding:"max=1000"`
	TrackingNumber    *string `json:"tracking_number,omitempty" binding:"omitempty,max=100"`
	CourierService    *string `json:"courier_service,omitempty" binding:"omitempty,max=100"`
	EstimatedDelivery *string `json:"estimated_delivery,omitempty" binding:"omitempty,max=100"`
}

// OrderItemResponse is a line of an order
type OrderItemResponse struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Image         string  `json:"image,omitempty"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	SelectedSize  string  `json:"selected_size,omitempty"`
	SelectedColor string  `json:"selected_color,omitempty"`
}

// ShippingAddressResponse is the delivery address of an order
type ShippingAddressResponse struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// StatusChangeResponse is one status history entry
type StatusChangeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// TrackingResponse is the fulfilment record of an order
type TrackingResponse struct {
	OrderID           string                 `json:"order_id"`
	Status            string                 `json:"status"`
	TrackingNumber    string                 `json:"tracking_number,omitempty"`
	CourierService    string                 `json:"courier_service,omitempty"`
	EstimatedDelivery string                 `json:"estimated_delivery,omitempty"`
	StatusHistory     []StatusChangeResponse `json:"status_history"`
	UpdatedAt         *time.Time             `json:"updated_at,omitempty"`
}

// CustomOrderResponse holds customization requests of an order
type CustomOrderResponse struct {
	AdditionalNotes string         `json:"additional_notes,omitempty"`
	Design          map[string]any `json:"design,omitempty"`
}

// OrderResponse is an order joined with its tracking and customization.
// Status is the resolved display status; StoredStatus is the raw order field.
type OrderResponse struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	UserEmail       string                  `json:"user_email"`
	Items           []OrderItemResponse     `json:"items"`
	ShippingAddress ShippingAddressResponse `json:"shipping_address"`
	Total           float64                 `json:"total"`
	PaymentMethod   string                  `json:"payment_method,omitempty"`
	Status          string                  `json:"status" example:"SHIPPED"`
	StoredStatus    string                  `json:"stored_status,omitempty"`
	Tracking        *TrackingResponse       `json:"tracking,omitempty"`
	CustomOrder     *CustomOrderResponse    `json:"custom_order,omitempty"`
	CreatedAt       *time.Time              `json:"created_at,omitempty"`
	UpdatedAt       *time.Time              `json:"updated_at,omitempty"`
}

// OrderStatsResponse summarizes every order
type OrderStatsResponse struct {
	Total        int            `json:"total"`
	StatusCounts map[string]int `json:"status_counts"`
	Revenue      float64        `json:"revenue"`
}

func toOrderResponse(m *order.MergedOrder) OrderResponse {
	o := &m.Order
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:     it.ProductID,
			Name:          it.Name,
			Image:         it.Image,
			Price:         it.Price.InexactFloat64(),
			Quantity:      it.Quantity,
			SelectedSize:  it.SelectedSize,
			SelectedColor: it.SelectedColor,
		}
	}

	resp := OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		UserEmail: o.UserEmail,
		Items:     items,
		ShippingAddress: ShippingAddressResponse{
			FullName:     o.ShippingAddress.FullName,
			Phone:        o.ShippingAddress.Phone,
			AddressLine1: o.ShippingAddress.AddressLine1,
			AddressLine2: o.ShippingAddress.AddressLine2,
			City:         o.ShippingAddress.City,
			State:        o.ShippingAddress.State,
			PostalCode:   o.ShippingAddress.PostalCode,
			Country:      o.ShippingAddress.Country,
		},
		Total:         o.Total.InexactFloat64(),
		PaymentMethod: o.PaymentMethod,
		Status:        string(m.DisplayStatus),
		StoredStatus:  o.Status,
		CreatedAt:     optionalTime(o.CreatedAt),
		UpdatedAt:     optionalTime(o.UpdatedAt),
	}
	if m.Tracking != nil {
		t := toTrackingResponse(m.Tracking)
		resp.Tracking = &t
	}
	if m.CustomOrder != nil {
		resp.CustomOrder = &CustomOrderResponse{
			AdditionalNotes: m.CustomOrder.AdditionalNotes,
			Design:          m.CustomOrder.Design,
		}
	}
	return resp
}

func toOrderResponses(orders []order.MergedOrder) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out
}

func toTrackingResponse(t *order.Tracking) TrackingResponse {
	history := make([]StatusChangeResponse, len(t.StatusHistory))
	for i, h := range t.StatusHistory {
		history[i] = StatusChangeResponse{
			Status:    string(h.Status),
			Timestamp: h.Timestamp,
			Notes:     h.Notes,
		}
	}
	return TrackingResponse{
		OrderID:           t.OrderID,
		Status:            string(t.Status),
		TrackingNumber:    t.TrackingNumber,
		CourierService:    t.CourierService,
		EstimatedDelivery: t.EstimatedDelivery,
		StatusHistory:     history,
		UpdatedAt:         optionalTime(t.UpdatedAt),
	}
}

// statusCounts renders counts keyed by status name, every canonical status included
func statusCounts(counts map[order.Status]int) map[string]int {
	out := make(map[string]int, len(order.Statuses))
	for _, s := range order.Statuses {
		out[string(s)] = counts[s]
	}
	return out
}
