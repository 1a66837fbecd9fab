package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/testutil"
	"github.com/kbukum/seqkit/version"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test-service")

	if cfg.Enabled {
		t.Error("expected export to be disabled by default")
	}
	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.ServiceVersion != version.Get().Version {
		t.Errorf("expected ServiceVersion %q, got %s", version.Get().Version, cfg.ServiceVersion)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{Endpoint: "collector:4318"}
	cfg.ApplyDefaults()

	if cfg.ServiceName != "seqkit" {
		t.Errorf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.Endpoint != "collector:4318" {
		t.Errorf("explicit endpoint overwritten: %q", cfg.Endpoint)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected default interval, got %v", cfg.Interval)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{0.5, sdktrace.TraceIDRatioBased(0.5).Description()},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.rate), func(t *testing.T) {
			if got := sampler(tt.rate).Description(); got != tt.want {
				t.Errorf("sampler(%v) = %s, want %s", tt.rate, got, tt.want)
			}
		})
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(DefaultConfig("res-service"))
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if kv.Key == "service.name" && kv.Value.AsString() == "res-service" {
			found = true
		}
	}
	if !found {
		t.Errorf("service.name missing from %v", res.Attributes())
	}
}

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	if metrics == nil {
		t.Fatal("expected non-nil metrics")
	}

	ctx := context.Background()
	metrics.RecordTerminal(ctx, "slice", 3, 10*time.Millisecond, nil)
	metrics.RecordTerminal(ctx, "slice", 0, time.Millisecond, fmt.Errorf("boom"))
	metrics.RecordError(ctx, "fold", errors.EmptyInput("fold"))
}

func TestRecordTerminal_ManualReader(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	metrics.RecordTerminal(ctx, "count", 4, time.Millisecond, nil)
	metrics.RecordTerminal(ctx, "flatten", 1, time.Millisecond, errors.TypeMismatch("flatten", 7, "value is not iterable"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	if sums["pipeline.terminal.total"] != 2 {
		t.Errorf("terminal.total = %d, want 2", sums["pipeline.terminal.total"])
	}
	if sums["pipeline.elements.pulled"] != 5 {
		t.Errorf("elements.pulled = %d, want 5", sums["pipeline.elements.pulled"])
	}
	if sums["pipeline.errors.total"] != 1 {
		t.Errorf("errors.total = %d, want 1", sums["pipeline.errors.total"])
	}
}

func TestTracer(t *testing.T) {
	if Tracer("test-tracer") == nil {
		t.Fatal("expected non-nil tracer")
	}
}

func TestMeter(t *testing.T) {
	if Meter("test-meter") == nil {
		t.Fatal("expected non-nil meter")
	}
}

func TestStartSpan(t *testing.T) {
	rec := testutil.Telemetry(t)

	ctx, span := StartSpan(context.Background(), "pipeline.slice")
	if !SpanFromContext(ctx).SpanContext().IsValid() {
		t.Error("expected a valid span in the returned context")
	}
	span.End()

	got, ok := rec.Span("pipeline.slice")
	if !ok {
		t.Fatalf("unexpected spans: %v", rec.Spans())
	}
	if scope := got.InstrumentationScope; scope.Name != defaultTracerName || scope.Version != version.Get().Version {
		t.Errorf("unexpected instrumentation scope %+v", scope)
	}
}

func TestSetSpanAttribute(t *testing.T) {
	// Use SDK tracer so span.IsRecording() returns true
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "test-attrs")
	SetSpanAttribute(ctx, "string-key", "value")
	SetSpanAttribute(ctx, "int-key", 42)
	SetSpanAttribute(ctx, "int64-key", int64(100))
	SetSpanAttribute(ctx, "float-key", 3.14)
	SetSpanAttribute(ctx, "bool-key", true)
	SetSpanAttribute(ctx, "string-slice-key", []string{"a", "b"})
	// Unsupported type is ignored.
	SetSpanAttribute(ctx, "unsupported-key", struct{}{})
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := len(spans[0].Attributes); got != 6 {
		t.Errorf("expected 6 attributes, got %d", got)
	}
}

func TestSetSpanAttributeNoSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "key", "value")
}

func TestSetSpanError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "test-error")
	SetSpanError(ctx, fmt.Errorf("test error"))
	span.End()

	got := exporter.GetSpans()[0]
	if len(got.Events) != 1 {
		t.Errorf("expected 1 error event, got %d", len(got.Events))
	}
	if got.Status.Code != codes.Error || got.Status.Description != "test error" {
		t.Errorf("expected error status, got %+v", got.Status)
	}
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	SetSpanError(context.Background(), fmt.Errorf("no span error"))
}

func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	cfg := DefaultConfig("test-service")
	cfg.SampleRate = 0.5

	tp, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	if otel.GetTracerProvider() != tp {
		t.Error("expected InitTracer to install the provider globally")
	}
	shutdownQuickly(t, tp.Shutdown)
}

func TestInitMeter(t *testing.T) {
	prev := otel.GetMeterProvider()
	defer otel.SetMeterProvider(prev)

	cfg := DefaultConfig("test-service")
	cfg.Insecure = false
	cfg.Interval = 0

	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitMeter: %v", err)
	}
	if otel.GetMeterProvider() != mp {
		t.Error("expected InitMeter to install the provider globally")
	}
	shutdownQuickly(t, mp.Shutdown)
}

// shutdownQuickly bounds shutdown, which may try to reach a collector that
// is not running.
func shutdownQuickly(t *testing.T, shutdown func(context.Context) error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = shutdown(ctx)
}
