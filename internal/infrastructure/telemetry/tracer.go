// Package telemetry wires OpenTelemetry tracing and Prometheus metrics.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/clothstore/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ServiceVersion is reported in traces and on the health endpoint
const ServiceVersion = "1.0.0"

const shutdownTimeout = 10 * time.Second

// TracerProvider wraps the SDK provider. A disabled provider is a no-op.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	logger   *zap.Logger
	enabled  bool
}

// TracerOption configures NewTracerProvider
type TracerOption func(*tracerOptions)

type tracerOptions struct {
	exporter     sdktrace.SpanExporter
	skipGlobal   bool
	syncExporter bool
}

// WithSpanExporter replaces the OTLP gRPC exporter. Spans are exported synchronously.
func WithSpanExporter(exp sdktrace.SpanExporter) TracerOption {
	return func(o *tracerOptions) {
		o.exporter = exp
		o.syncExporter = true
	}
}

// WithoutGlobal keeps the provider out of otel.SetTracerProvider
func WithoutGlobal() TracerOption {
	return func(o *tracerOptions) {
		o.skipGlobal = true
	}
}

// NewTracerProvider builds the SDK provider and, unless WithoutGlobal is given,
// installs it together with the W3C propagators.
func NewTracerProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger, opts ...TracerOption) (*TracerProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tp := &TracerProvider{logger: logger}
	if !cfg.Enabled {
		logger.Info("Telemetry disabled, using no-op tracer provider")
		return tp, nil
	}

	var o tracerOptions
	for _, opt := range opts {
		opt(&o)
	}

	exporter := o.exporter
	if exporter == nil {
		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
		if cfg.Insecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		var err error
		if exporter, err = otlptracegrpc.New(ctx, grpcOpts...); err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	export := sdktrace.WithBatcher(exporter)
	if o.syncExporter {
		export = sdktrace.WithSyncer(exporter)
	}
	tp.provider = sdktrace.NewTracerProvider(
		export,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SamplingRatio)),
	)
	tp.enabled = true

	if !o.skipGlobal {
		otel.SetTracerProvider(tp.provider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}

	logger.Info("Tracing enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.String("service_name", cfg.ServiceName),
	)
	return tp, nil
}

func newSampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1.0:
		return sdktrace.AlwaysSample()
	case ratio <= 0.0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// Provider returns the SDK provider, or the global one when tracing is disabled
func (tp *TracerProvider) Provider() trace.TracerProvider {
	if tp.provider == nil {
		return otel.GetTracerProvider()
	}
	return tp.provider
}

// Tracer returns a named tracer from Provider
func (tp *TracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return tp.Provider().Tracer(name, opts...)
}

// IsEnabled reports whether spans are being exported
func (tp *TracerProvider) IsEnabled() bool {
	return tp.enabled
}

// Shutdown flushes pending spans
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := tp.provider.Shutdown(ctx); err != nil {
		tp.logger.Error("Error shutting down tracer provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	tp.logger.Info("Tracer provider shut down")
	return nil
}
