package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider owns the SDK log provider while log records are exported.
type LoggerProvider struct {
	sdk         *sdklog.LoggerProvider
	serviceName string
}

// NewLoggerProvider installs a batching OTLP log pipeline as the global provider.
func NewLoggerProvider(ctx context.Context, s Settings, logger *zap.Logger) (*LoggerProvider, error) {
	if !s.Logs {
		logger.Info("Log export disabled")
		return &LoggerProvider{}, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(s.Endpoint)}
	if s.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create log exporter: %w", err)
	}
	res, err := s.resource()
	if err != nil {
		return nil, err
	}

	sdk := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(sdk)

	logger.Info("Exporting logs", zap.String("endpoint", s.Endpoint))
	return &LoggerProvider{sdk: sdk, serviceName: s.ServiceName}, nil
}

// Enabled reports whether log records leave the process.
func (lp *LoggerProvider) Enabled() bool {
	return lp != nil && lp.sdk != nil
}

// ZapCore bridges zap entries at or above level into the log pipeline.
// Pass it to logger.New as an extra core. Disabled providers return a nop core.
func (lp *LoggerProvider) ZapCore(level zapcore.Level) zapcore.Core {
	if !lp.Enabled() {
		return zapcore.NewNopCore()
	}
	bridge := otelzap.NewCore(lp.serviceName, otelzap.WithLoggerProvider(lp.sdk))
	core, err := zapcore.NewIncreaseLevelCore(bridge, level)
	if err != nil {
		return bridge
	}
	return core
}

// Shutdown exports buffered records and stops the pipeline.
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if !lp.Enabled() {
		return nil
	}
	return shutdownWithin(ctx, "logger provider", lp.sdk.Shutdown)
}
