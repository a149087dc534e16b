package telemetry

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/shopadmin/backend/internal/domain/order"
	"go.opentelemetry.io/otel/metric"
)

// AdminMetrics counts admin activity: logins, status updates, uploads and open streams.
type AdminMetrics struct {
	logins        metric.Int64Counter
	statusUpdates metric.Int64Counter
	imageUploads  metric.Int64Counter
	activeStreams metric.Int64UpDownCounter
}

// NewAdminMetrics registers the admin activity instruments on meter.
func NewAdminMetrics(meter metric.Meter) (*AdminMetrics, error) {
	var (
		m    AdminMetrics
		err  error
		errs *multierror.Error
	)

	if m.logins, err = meter.Int64Counter("admin_logins_total",
		metric.WithDescription("Admin login attempts by outcome"), metric.WithUnit("{login}")); err != nil {
		errs = multierror.Append(errs, err)
	}
	if m.statusUpdates, err = meter.Int64Counter("order_status_updates_total",
		metric.WithDescription("Order status updates by new status"), metric.WithUnit("{update}")); err != nil {
		errs = multierror.Append(errs, err)
	}
	if m.imageUploads, err = meter.Int64Counter("product_image_uploads_total",
		metric.WithDescription("Product image uploads"), metric.WithUnit("{upload}")); err != nil {
		errs = multierror.Append(errs, err)
	}
	if m.activeStreams, err = meter.Int64UpDownCounter("product_streams_active",
		metric.WithDescription("Open product live streams"), metric.WithUnit("{stream}")); err != nil {
		errs = multierror.Append(errs, err)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordLogin counts one login attempt.
func (m *AdminMetrics) RecordLogin(ctx context.Context, outcome string) {
	m.logins.Add(ctx, 1, metric.WithAttributes(AttrLoginOutcome.String(outcome)))
}

// RecordStatusUpdate counts one applied order status update.
func (m *AdminMetrics) RecordStatusUpdate(ctx context.Context, status order.Status) {
	m.statusUpdates.Add(ctx, 1, metric.WithAttributes(AttrOrderStatus.String(string(status))))
}

// RecordImageUpload counts one stored product image.
func (m *AdminMetrics) RecordImageUpload(ctx context.Context) {
	m.imageUploads.Add(ctx, 1)
}

// StreamOpened counts a live product stream as open.
func (m *AdminMetrics) StreamOpened(ctx context.Context) {
	m.activeStreams.Add(ctx, 1)
}

// StreamClosed releases a stream counted by StreamOpened.
func (m *AdminMetrics) StreamClosed(ctx context.Context) {
	m.activeStreams.Add(ctx, -1)
}
