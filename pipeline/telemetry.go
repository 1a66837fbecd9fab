package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
)

const meterName = "github.com/kbukum/seqkit/pipeline"

// instruments caches the terminal-operation instruments for the global meter
// provider they were created on.
var instruments struct {
	mu       sync.Mutex
	provider metric.MeterProvider
	metrics  *observability.Metrics
}

// terminalMetrics returns the instruments for the current global meter
// provider, creating them once per provider.
func terminalMetrics() (*observability.Metrics, error) {
	provider := otel.GetMeterProvider()
	instruments.mu.Lock()
	defer instruments.mu.Unlock()
	if instruments.metrics != nil && instruments.provider == provider {
		return instruments.metrics, nil
	}
	m, err := observability.NewMetrics(provider.Meter(meterName))
	if err != nil {
		return nil, err
	}
	instruments.provider = provider
	instruments.metrics = m
	return m, nil
}

// run tracks one terminal operation: its span, its timing and how many
// elements it pulled.
type run struct {
	ctx     context.Context
	op      string
	lineage *lineage
	start   time.Time
	span    trace.Span
	traced  bool
}

func startRun(ctx context.Context, op string, lin *lineage) *run {
	r := &run{ctx: ctx, op: op, lineage: lin, start: time.Now()}
	if CurrentOptions().Telemetry {
		r.traced = true
		r.ctx, r.span = observability.StartSpan(ctx, "pipeline."+op,
			trace.WithAttributes(attribute.String(observability.AttrPipelineID, lin.ID().String())))
	}
	return r
}

func (r *run) end(pulled int, err error) {
	elapsed := time.Since(r.start)
	if r.traced {
		observability.SetSpanAttribute(r.ctx, observability.AttrElements, pulled)
		observability.SetSpanError(r.ctx, err)
		r.span.End()

		if m, merr := terminalMetrics(); merr == nil {
			m.RecordTerminal(r.ctx, r.op, pulled, elapsed, err)
		}
	}

	log := logger.Get("pipeline")
	if !log.Enabled(zerolog.DebugLevel) {
		return
	}
	fields := logger.DurationFields(r.op, elapsed)
	fields[logger.FieldPipelineID] = r.lineage.ID().String()
	fields[logger.FieldElements] = pulled
	if err != nil {
		log.WithContext(r.ctx).Debug("terminal operation failed", logger.MergeWithError(fields, err))
		return
	}
	log.WithContext(r.ctx).Debug("terminal operation finished", fields)
}

// countingIter counts successful pulls for telemetry.
type countingIter[T any] struct {
	source Iterator[T]
	n      int
}

func (it *countingIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if ok && err == nil {
		it.n++
	}
	return val, ok, err
}

func (it *countingIter[T]) Close() error { return it.source.Close() }

// drain runs fn as a terminal operation over p's source. The source is
// closed afterwards unless keepOpen is set, in which case fn is expected to
// hand the iterator on to a new pipeline.
func (p *Pipeline[T]) drain(ctx context.Context, op string, keepOpen bool, fn func(context.Context, Iterator[T]) error) error {
	if p == nil {
		return fn(ctx, emptyIter[T]{})
	}
	if p.state != Fresh {
		p.reused(op)
		return fn(ctx, emptyIter[T]{})
	}

	src := &countingIter[T]{source: p.source}
	p.source = nil
	p.state = Draining
	r := startRun(ctx, op, p.lineage)

	err := fn(r.ctx, src)
	if !keepOpen {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	p.state = Exhausted
	r.end(src.n, err)
	return err
}
