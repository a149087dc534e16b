// Package telemetry exports traces, metrics and logs to an OTLP collector.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Settings selects which signals are exported and where to.
type Settings struct {
	Traces         bool
	Metrics        bool
	Logs           bool
	Endpoint       string
	Insecure       bool
	SamplingRatio  float64
	ExportInterval time.Duration
	ServiceName    string
	ServiceVersion string
}

// SettingsFromConfig maps the [telemetry] section. Metrics need both switches.
func SettingsFromConfig(cfg config.TelemetryConfig, version string) Settings {
	return Settings{
		Traces:         cfg.Enabled,
		Metrics:        cfg.Enabled && cfg.MetricsEnabled,
		Logs:           cfg.Enabled,
		Endpoint:       cfg.CollectorEndpoint,
		Insecure:       cfg.Insecure,
		SamplingRatio:  cfg.SamplingRatio,
		ExportInterval: cfg.ExportInterval,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
	}
}

func (s Settings) resource() (*resource.Resource, error) {
	version := s.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(s.ServiceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("build telemetry resource: %w", err)
	}
	return res, nil
}

// Providers holds one provider per signal. Disabled signals keep the
// global no-op implementations.
type Providers struct {
	Traces  *TracerProvider
	Metrics *MeterProvider
	Logs    *LoggerProvider
}

// Start builds every provider. Providers created before a failure are shut down.
func Start(ctx context.Context, s Settings, logger *zap.Logger) (*Providers, error) {
	p := &Providers{}
	var err error

	if p.Traces, err = NewTracerProvider(ctx, s, logger); err != nil {
		return nil, err
	}
	if p.Metrics, err = NewMeterProvider(ctx, s, logger); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	if p.Logs, err = NewLoggerProvider(ctx, s, logger); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	return p, nil
}

// Shutdown flushes and stops every provider, collecting all errors.
func (p *Providers) Shutdown(ctx context.Context) error {
	var result *multierror.Error
	if p.Traces != nil {
		if err := p.Traces.Shutdown(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if p.Metrics != nil {
		if err := p.Metrics.Shutdown(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if p.Logs != nil {
		if err := p.Logs.Shutdown(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func shutdownWithin(ctx context.Context, name string, shutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown %s: %w", name, err)
	}
	return nil
}
