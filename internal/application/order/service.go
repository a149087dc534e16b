package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopadmin/backend/internal/domain/order"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StatusAll disables status filtering in List
const StatusAll = "ALL"

// StatusRecorder receives applied status updates
type StatusRecorder interface {
	RecordStatusUpdate(ctx context.Context, status order.Status)
}

type nopStatusRecorder struct{}

func (nopStatusRecorder) RecordStatusUpdate(context.Context, order.Status) {}

// ListFilter selects and pages merged orders
type ListFilter struct {
	Search string
	// Status is StatusAll, empty, or a canonical status matched against the display status
	Status string
	shared.Page
}

// ListResult is one page of merged orders with counts over the searched set
type ListResult struct {
	shared.Paginated[order.MergedOrder]
	StatusCounts map[order.Status]int
}

// UpdateStatusInput moves an order to a new status
type UpdateStatusInput struct {
	Status            string
	Notes             string
	TrackingNumber    *string
	CourierService    *string
	EstimatedDelivery *string
}

// Service serves the merged order view and status updates
type Service struct {
	orders    order.OrderRepository
	trackings order.TrackingRepository
	customs   order.CustomOrderRepository
	recorder  StatusRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates an order service
func NewService(
	orders order.OrderRepository,
	trackings order.TrackingRepository,
	customs order.CustomOrderRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		orders:    orders,
		trackings: trackings,
		customs:   customs,
		recorder:  nopStatusRecorder{},
		logger:    logger,
		now:       time.Now,
	}
}

// SetRecorder installs a status update recorder
func (s *Service) SetRecorder(r StatusRecorder) {
	if r != nil {
		s.recorder = r
	}
}

// ListMerged fetches the three collections concurrently and joins them.
// Any fetch error fails the whole call.
func (s *Service) ListMerged(ctx context.Context) ([]order.MergedOrder, error) {
	ctx, span := telemetry.StartSpan(ctx, "order", "list_merged")
	defer span.End()

	var (
		orders    []order.Order
		trackings []order.Tracking
		customs   []order.CustomOrder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if orders, err = s.orders.FindAll(gctx); err != nil {
			return fmt.Errorf("fetch orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if trackings, err = s.trackings.FindAll(gctx); err != nil {
			return fmt.Errorf("fetch order tracking: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if customs, err = s.customs.FindAll(gctx); err != nil {
			return fmt.Errorf("fetch custom orders: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		telemetry.Fail(span, err)
		s.logger.Error("Failed to load orders", zap.Error(err))
		return nil, err
	}

	merged := order.Merge(orders, trackings, customs)
	span.SetAttributes(telemetry.AttrOrderCount.Int(len(merged)))
	return merged, nil
}

// List searches, filters and pages the merged orders
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	var status order.Status
	if raw := strings.TrimSpace(filter.Status); raw != "" && !strings.EqualFold(raw, StatusAll) {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	merged, err := s.ListMerged(ctx)
	if err != nil {
		return nil, err
	}

	searched := make([]order.MergedOrder, 0, len(merged))
	for _, m := range merged {
		if shared.MatchesAnyFold(filter.Search, m.Order.ID, m.Order.UserEmail, m.Order.ShippingAddress.FullName) {
			searched = append(searched, m)
		}
	}

	selected := searched
	if status != "" {
		selected = make([]order.MergedOrder, 0, len(searched))
		for _, m := range searched {
			if m.DisplayStatus == status {
				selected = append(selected, m)
			}
		}
	}

	return &ListResult{
		Paginated:    shared.Paginate(selected, filter.Page),
		StatusCounts: order.CountByStatus(searched),
	}, nil
}

// Stats summarizes every order
func (s *Service) Stats(ctx context.Context) (*order.Stats, error) {
	merged, err := s.ListMerged(ctx)
	if err != nil {
		return nil, err
	}
	stats := order.Summarize(merged)
	return &stats, nil
}

// Get returns one merged order
func (s *Service) Get(ctx context.Context, id string) (*order.MergedOrder, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var trackings []order.Tracking
	t, err := s.trackings.FindByOrderID(ctx, id)
	switch {
	case err == nil:
		trackings = append(trackings, *t)
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("fetch tracking for order %s: %w", id, err)
	}

	var customs []order.CustomOrder
	c, err := s.customs.FindByOrderID(ctx, id)
	switch {
	case err == nil:
		customs = append(customs, *c)
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("fetch custom order %s: %w", id, err)
	}

	merged := order.Merge([]order.Order{*o}, trackings, customs)
	return &merged[0], nil
}

// GetTracking returns the tracking record of an order
func (s *Service) GetTracking(ctx context.Context, orderID string) (*order.Tracking, error) {
	return s.trackings.FindByOrderID(ctx, orderID)
}

// UpdateStatus records a status change. The tracking history entry and the
// order document status are written together.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, input UpdateStatusInput) (*order.Tracking, error) {
	status, err := order.ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}

	update := order.StatusUpdate{
		Status: status,
		Notes:  strings.TrimSpace(input.Notes),
		Details: order.TrackingDetails{
			TrackingNumber:    input.TrackingNumber,
			CourierService:    input.CourierService,
			EstimatedDelivery: input.EstimatedDelivery,
		},
		At: s.now(),
	}

	ctx, span := telemetry.StartSpan(ctx, "order", "update_status",
		telemetry.AttrOrderID.String(orderID),
		telemetry.AttrOrderStatus.String(string(status)))
	defer span.End()

	tracking, err := s.trackings.ApplyStatusUpdate(ctx, orderID, update)
	if err != nil {
		telemetry.Fail(span, err)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("Failed to update order status",
			zap.String("order_id", orderID),
			zap.String("status", string(status)),
			zap.Error(err))
		return nil, fmt.Errorf("update status of order %s: %w", orderID, err)
	}

	s.recorder.RecordStatusUpdate(ctx, status)
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)))
	return tracking, nil
}
