package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. Returns a MeterProvider that should be shut down on exit.
func InitMeter(ctx context.Context, config Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded for pipeline terminal operations.
type Metrics struct {
	terminalTotal    metric.Int64Counter
	elementsPulled   metric.Int64Counter
	terminalDuration metric.Float64Histogram
	errorTotal       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	terminalTotal, err := meter.Int64Counter("pipeline.terminal.total",
		metric.WithDescription("Total number of terminal operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.terminal.total counter: %w", err)
	}

	elementsPulled, err := meter.Int64Counter("pipeline.elements.pulled",
		metric.WithDescription("Elements pulled by terminal operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.elements.pulled counter: %w", err)
	}

	terminalDuration, err := meter.Float64Histogram("pipeline.terminal.duration",
		metric.WithDescription("Duration of terminal operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.terminal.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("pipeline.errors.total",
		metric.WithDescription("Terminal operations that failed, by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.errors.total counter: %w", err)
	}

	return &Metrics{
		terminalTotal:    terminalTotal,
		elementsPulled:   elementsPulled,
		terminalDuration: terminalDuration,
		errorTotal:       errorTotal,
	}, nil
}

// RecordTerminal records one finished terminal operation.
func (m *Metrics) RecordTerminal(ctx context.Context, operation string, pulled int, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	op := attribute.String(AttrOperation, operation)

	m.terminalTotal.Add(ctx, 1, metric.WithAttributes(op, attribute.String(AttrStatus, status)))
	m.elementsPulled.Add(ctx, int64(pulled), metric.WithAttributes(op))
	m.terminalDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(op))
	if err != nil {
		m.RecordError(ctx, operation, err)
	}
}

// RecordError records a failed operation by its error code.
func (m *Metrics) RecordError(ctx context.Context, operation string, err error) {
	code := string(errors.CodeOf(err))
	if code == "" {
		code = "UNKNOWN"
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrErrorCode, code),
	))
}
