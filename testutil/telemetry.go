package testutil

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// Recorder holds the spans and metrics recorded while it is installed.
type Recorder struct {
	t       testing.TB
	spans   *tracetest.InMemoryExporter
	reader  *sdkmetric.ManualReader
	metrics metricdata.ResourceMetrics
}

// Telemetry installs in-memory tracer and meter providers as the global
// providers until the test ends.
func Telemetry(t testing.TB) *Recorder {
	t.Helper()
	r := &Recorder{
		t:      t,
		spans:  tracetest.NewInMemoryExporter(),
		reader: sdkmetric.NewManualReader(),
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(r.spans))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(r.reader))

	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})
	return r
}

// Spans returns every span ended so far.
func (r *Recorder) Spans() tracetest.SpanStubs {
	return r.spans.GetSpans()
}

// Span returns the first ended span called name.
func (r *Recorder) Span(name string) (tracetest.SpanStub, bool) {
	for _, s := range r.spans.GetSpans() {
		if s.Name == name {
			return s, true
		}
	}
	return tracetest.SpanStub{}, false
}

// Sums collects the metrics and returns every int64 counter, keyed by
// instrument name and summed over its data points.
func (r *Recorder) Sums() map[string]int64 {
	r.t.Helper()
	if err := r.reader.Collect(context.Background(), &r.metrics); err != nil {
		r.t.Fatalf("collecting metrics: %v", err)
	}
	sums := make(map[string]int64)
	for _, sm := range r.metrics.ScopeMetrics {
		for _, m := range sm.Metrics {
			data, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range data.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}
	return sums
}

// Attr returns the value of the span attribute key.
func Attr(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}
