package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	orderapp "github.com/shopadmin/backend/internal/application/order"
	"github.com/shopadmin/backend/internal/domain/order"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
)

// OrderService serves the merged order view and status updates
type OrderService interface {
	List(ctx context.Context, filter orderapp.ListFilter) (*orderapp.ListResult, error)
	Stats(ctx context.Context) (*order.Stats, error)
	Get(ctx context.Context, id string) (*order.MergedOrder, error)
	GetTracking(ctx context.Context, orderID string) (*order.Tracking, error)
	UpdateStatus(ctx context.Context, orderID string, input orderapp.UpdateStatusInput) (*order.Tracking, error)
}

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /orders
// List merged orders, newest first. Search covers order id, customer email and
// recipient name; status is ALL or a canonical status. Status counts cover the
// searched set before the status filter.
func (h *OrderHandler) List(c *gin.Context) {
	var query OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orders.List(c.Request.Context(), orderapp.ListFilter{
		Search: query.Search,
		Status: query.Status,
		Page:   shared.Page{Page: query.Page, PageSize: query.PageSize},
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := dto.NewSuccessResponseWithMeta(toOrderResponses(result.Items), result.Total, result.Page, result.PageSize)
	resp.Meta.StatusCounts = statusCounts(result.StatusCounts)
	c.JSON(http.StatusOK, resp)
}

// Stats handles GET /orders/stats
// Order count, per-status counts and revenue. Cancelled orders add no revenue.
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, OrderStatsResponse{
		Total:        stats.Total,
		StatusCounts: statusCounts(stats.StatusCounts),
		Revenue:      stats.Revenue.InexactFloat64(),
	})
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	merged, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(merged))
}

// GetTracking handles GET /orders/:id/tracking
func (h *OrderHandler) GetTracking(c *gin.Context) {
	tracking, err := h.orders.GetTracking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTrackingResponse(tracking))
}

// UpdateStatus handles PUT /orders/:id/status
// Append a status history entry and sync the order's stored status. The
// tracking record is created on first update.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tracking, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), orderapp.UpdateStatusInput{
		Status:            req.Status,
		Notes:             req.Notes,
		TrackingNumber:    req.TrackingNumber,
		CourierService:    req.CourierService,
		EstimatedDelivery: req.EstimatedDelivery,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTrackingResponse(tracking))
}
