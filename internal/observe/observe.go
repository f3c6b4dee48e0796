// Package observe records traces and metrics for query fetches.
//
// A disabled Telemetry uses no-op providers, so callers never nil-check.
// When enabled, spans and metrics are written as JSON lines to a file;
// stdout belongs to the terminal UI.
package observe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "postgrip/query"

// Options configures telemetry
type Options struct {
	Enabled     bool
	File        string
	ServiceName string
	Version     string
}

// Telemetry wraps a tracer and the query instruments
type Telemetry struct {
	tracer trace.Tracer

	fetches      metric.Int64Counter
	fetchErrors  metric.Int64Counter
	cacheHits    metric.Int64Counter
	discarded    metric.Int64Counter
	fetchLatency metric.Float64Histogram

	shutdown []func(context.Context) error
}

// Noop returns telemetry that records nothing
func Noop() *Telemetry {
	t, _ := NewWithProviders(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	return t
}

// New builds telemetry from options. Disabled options yield Noop().
func New(ctx context.Context, opts Options) (*Telemetry, error) {
	if !opts.Enabled {
		return Noop(), nil
	}
	if opts.File == "" {
		return nil, errors.New("telemetry file is required when telemetry is enabled")
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "postgrip"
	}

	if dir := filepath.Dir(opts.File); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
		}
	}
	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry file: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("service.version", opts.Version),
		),
	)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	spanExporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(spanExporter),
	)

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(file))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = file.Close()
		return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)

	t, err := NewWithProviders(tp, mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		_ = file.Close()
		return nil, err
	}
	t.shutdown = []func(context.Context) error{
		tp.Shutdown,
		mp.Shutdown,
		func(context.Context) error { return file.Close() },
	}
	return t, nil
}

// NewWithProviders builds telemetry on caller-owned providers
func NewWithProviders(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	meter := mp.Meter(instrumentationName)
	t := &Telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	if t.fetches, err = meter.Int64Counter(
		"query.fetch.total",
		metric.WithDescription("Total number of remote fetches"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}
	if t.fetchErrors, err = meter.Int64Counter(
		"query.fetch.errors",
		metric.WithDescription("Total number of failed remote fetches"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}
	if t.cacheHits, err = meter.Int64Counter(
		"query.cache.hits",
		metric.WithDescription("Cache lookups answered without a fetch"),
		metric.WithUnit("{hit}"),
	); err != nil {
		return nil, err
	}
	if t.discarded, err = meter.Int64Counter(
		"query.responses.discarded",
		metric.WithDescription("Responses dropped because their key was superseded"),
		metric.WithUnit("{response}"),
	); err != nil {
		return nil, err
	}
	if t.fetchLatency, err = meter.Float64Histogram(
		"query.fetch.duration_ms",
		metric.WithDescription("Remote fetch duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	return t, nil
}

// StartFetch opens a span for a fetch of key
func (t *Telemetry) StartFetch(ctx context.Context, key, requestID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "query.fetch",
		trace.WithAttributes(
			attribute.String("query.key", key),
			attribute.String("query.request_id", requestID),
		),
	)
}

// EndFetch closes the span and records the outcome
func (t *Telemetry) EndFetch(ctx context.Context, span trace.Span, key string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("query.key", key))

	t.fetches.Add(ctx, 1, opt)
	t.fetchLatency.Record(ctx, float64(duration.Milliseconds()), opt)

	if err != nil {
		t.fetchErrors.Add(ctx, 1, opt)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// CacheHit counts a lookup served from cache
func (t *Telemetry) CacheHit(ctx context.Context, key string, fresh bool) {
	t.cacheHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("query.key", key),
		attribute.Bool("query.fresh", fresh),
	))
}

// Discarded counts a response that arrived for a superseded key
func (t *Telemetry) Discarded(ctx context.Context, key string) {
	t.discarded.Add(ctx, 1, metric.WithAttributes(attribute.String("query.key", key)))
}

// Shutdown flushes and closes exporters. Safe to call on Noop telemetry.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	t.shutdown = nil
	return errors.Join(errs...)
}
