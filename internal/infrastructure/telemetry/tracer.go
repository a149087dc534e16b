package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// TracerProvider owns the SDK tracer provider while traces are exported.
type TracerProvider struct {
	sdk *sdktrace.TracerProvider
}

// NewTracerProvider installs a batching OTLP trace pipeline as the global
// provider together with W3C trace context propagation.
func NewTracerProvider(ctx context.Context, s Settings, logger *zap.Logger) (*TracerProvider, error) {
	if !s.Traces {
		logger.Info("Trace export disabled")
		return &TracerProvider{}, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(s.Endpoint)}
	if s.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	res, err := s.resource()
	if err != nil {
		return nil, err
	}

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(s.SamplingRatio)),
	)
	otel.SetTracerProvider(sdk)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Exporting traces",
		zap.String("endpoint", s.Endpoint),
		zap.Float64("sampling_ratio", s.SamplingRatio))
	return &TracerProvider{sdk: sdk}, nil
}

// sampler honours the parent decision and samples root spans by ratio
func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 {
		return sdktrace.NeverSample()
	}
	if ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Enabled reports whether spans leave the process.
func (tp *TracerProvider) Enabled() bool {
	return tp != nil && tp.sdk != nil
}

// Shutdown exports buffered spans and stops the pipeline.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if !tp.Enabled() {
		return nil
	}
	return shutdownWithin(ctx, "tracer provider", tp.sdk.Shutdown)
}
