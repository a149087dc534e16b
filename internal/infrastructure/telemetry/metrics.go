package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// Attribute keys shared by spans and instruments.
const (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrLoginOutcome = attribute.Key("login.outcome")
	AttrOrderID      = attribute.Key("order.id")
	AttrOrderStatus  = attribute.Key("order.status")
	AttrOrderCount   = attribute.Key("order.count")
	AttrMediaFolder  = attribute.Key("media.folder")
)

// HTTPDurationBuckets are the latency histogram boundaries in seconds.
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// MeterProvider owns the SDK meter provider while metrics are exported.
type MeterProvider struct {
	sdk *sdkmetric.MeterProvider
}

// NewMeterProvider installs a periodic OTLP metric reader as the global provider.
func NewMeterProvider(ctx context.Context, s Settings, logger *zap.Logger) (*MeterProvider, error) {
	if !s.Metrics {
		logger.Info("Metric export disabled")
		return &MeterProvider{}, nil
	}

	interval := s.ExportInterval
	if interval <= 0 {
		interval = time.Minute
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(s.Endpoint)}
	if s.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}
	res, err := s.resource()
	if err != nil {
		return nil, err
	}

	sdk := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(sdk)

	logger.Info("Exporting metrics",
		zap.String("endpoint", s.Endpoint),
		zap.Duration("interval", interval))
	return &MeterProvider{sdk: sdk}, nil
}

// Meter returns a meter from the SDK provider, or from the global one when disabled.
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if !mp.Enabled() {
		return otel.Meter(name)
	}
	return mp.sdk.Meter(name)
}

// Enabled reports whether measurements leave the process.
func (mp *MeterProvider) Enabled() bool {
	return mp != nil && mp.sdk != nil
}

// Shutdown exports the last collection and stops the reader.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if !mp.Enabled() {
		return nil
	}
	return shutdownWithin(ctx, "meter provider", mp.sdk.Shutdown)
}
