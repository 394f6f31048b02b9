package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Options struct {
	ServiceName string
	// Endpoint is the host:port of an OTLP gRPC collector. Without it the
	// providers are installed but nothing is exported.
	Endpoint string
	Insecure bool
}

// ShutdownFunc flushes and stops every provider installed by Setup.
type ShutdownFunc func(context.Context) error

// Setup installs the global tracer, meter and logger providers.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(semconv.ServiceName(opts.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	tracerOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	loggerOpts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}

	if opts.Endpoint != "" {
		traceExporter, metricExporter, logExporter, err := newExporters(ctx, opts)
		if err != nil {
			return nil, err
		}

		tracerOpts = append(tracerOpts, sdktrace.WithBatcher(traceExporter))
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))
		loggerOpts = append(loggerOpts, sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)))
	}

	tracerProvider := sdktrace.NewTracerProvider(tracerOpts...)
	meterProvider := sdkmetric.NewMeterProvider(meterOpts...)
	loggerProvider := sdklog.NewLoggerProvider(loggerOpts...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	global.SetLoggerProvider(loggerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
			loggerProvider.Shutdown(ctx),
		)
	}, nil
}

// Exporter constructors, replaced in tests.
var (
	newTraceExporter = func(ctx context.Context, opts ...otlptracegrpc.Option) (sdktrace.SpanExporter, error) {
		return otlptracegrpc.New(ctx, opts...)
	}
	newMetricExporter = func(ctx context.Context, opts ...otlpmetricgrpc.Option) (sdkmetric.Exporter, error) {
		return otlpmetricgrpc.New(ctx, opts...)
	}
	newLogExporter = func(ctx context.Context, opts ...otlploggrpc.Option) (sdklog.Exporter, error) {
		return otlploggrpc.New(ctx, opts...)
	}
)

// newExporters builds the three OTLP exporters. When one fails, those
// already built are shut down.
func newExporters(ctx context.Context, opts Options) (sdktrace.SpanExporter, sdkmetric.Exporter, sdklog.Exporter, error) {
	traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(opts.Endpoint)}
	logOpts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
		logOpts = append(logOpts, otlploggrpc.WithInsecure())
	}

	traceExporter, err := newTraceExporter(ctx, traceOpts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("telemetry: trace exporter: %w", err)
	}
	metricExporter, err := newMetricExporter(ctx, metricOpts...)
	if err != nil {
		return nil, nil, nil, errors.Join(
			fmt.Errorf("telemetry: metric exporter: %w", err),
			traceExporter.Shutdown(ctx),
		)
	}
	logExporter, err := newLogExporter(ctx, logOpts...)
	if err != nil {
		return nil, nil, nil, errors.Join(
			fmt.Errorf("telemetry: log exporter: %w", err),
			traceExporter.Shutdown(ctx),
			metricExporter.Shutdown(ctx),
		)
	}

	return traceExporter, metricExporter, logExporter, nil
}

// NewLogger returns a logger writing text records to w. With bridge set the
// records go to the global OpenTelemetry logger provider instead.
func NewLogger(name string, w io.Writer, level slog.Leveler, bridge bool) *slog.Logger {
	if bridge {
		return otelslog.NewLogger(name)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel accepts the slog level names (debug, info, warn, error).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("telemetry: %w", err)
	}
	return level, nil
}
