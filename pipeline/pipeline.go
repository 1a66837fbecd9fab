package pipeline

import (
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
)

// State is the consumption state of a pipeline handle.
type State int

const (
	// Fresh pipelines own their source and have not been pulled from.
	Fresh State = iota
	// Draining pipelines are being pulled by a terminal operation.
	Draining
	// Exhausted pipelines were drained, or handed their source to another stage.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Draining:
		return "draining"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Pipeline represents a lazy, single-use, pull-based sequence.
//
// Chaining an operator moves the source into a new stage and leaves the old
// handle Exhausted; a terminal operation drains the chain. Using a handle
// after that behaves as an empty pipeline (or panics, see Options.ReuseMode).
// A nil *Pipeline behaves as an empty one.
type Pipeline[T any] struct {
	source  Iterator[T]
	lineage *lineage
	state   State
}

// lineage is shared by every stage derived from the same root.
type lineage struct {
	id uuid.UUID
}

func (l *lineage) ID() uuid.UUID {
	if l.id == uuid.Nil {
		l.id = uuid.New()
	}
	return l.id
}

func newPipeline[T any](source Iterator[T], lin *lineage) *Pipeline[T] {
	if lin == nil {
		lin = &lineage{}
	}
	return &Pipeline[T]{source: source, lineage: lin}
}

// --- Constructors ---

// Empty returns a pipeline that yields nothing.
func Empty[T any]() *Pipeline[T] {
	return newPipeline[T](emptyIter[T]{}, nil)
}

// Of creates a pipeline over the given values.
func Of[T any](items ...T) *Pipeline[T] {
	return FromSlice(items)
}

// FromSlice creates a pipeline over a snapshot of items. Later writes to
// items are not observed.
func FromSlice[T any](items []T) *Pipeline[T] {
	return newPipeline[T](&sliceIter[T]{items: slices.Clone(items)}, nil)
}

// From creates a pipeline that takes ownership of an existing Iterator.
func From[T any](it Iterator[T]) *Pipeline[T] {
	if it == nil {
		return Empty[T]()
	}
	return newPipeline[T](&latch[T]{source: it}, nil)
}

// FromSource creates a pipeline over src.Iter().
func FromSource[T any](src Source[T]) *Pipeline[T] {
	if p, ok := src.(*Pipeline[T]); ok {
		return p
	}
	return From(src.Iter())
}

// FromSeq creates a pipeline over a push-style iterator.
func FromSeq[T any](seq iter.Seq[T]) *Pipeline[T] {
	if seq == nil {
		return Empty[T]()
	}
	return newPipeline[T](&seqIter[T]{seq: seq}, nil)
}

// FromFunc creates a pipeline from a generator. fn is called once per pull
// and ends the sequence by returning false.
func FromFunc[T any](fn func() (T, bool)) *Pipeline[T] {
	return newPipeline[T](&funcIter[T]{fn: fn}, nil)
}

// Iterate creates the infinite pipeline seed, next(seed), next(next(seed)), ...
func Iterate[T any](seed T, next func(T) T) *Pipeline[T] {
	cur, started := seed, false
	return FromFunc(func() (T, bool) {
		if started {
			cur = next(cur)
		}
		started = true
		return cur, true
	})
}

// Repeat creates an infinite pipeline of v.
func Repeat[T any](v T) *Pipeline[T] {
	return FromFunc(func() (T, bool) { return v, true })
}

// Range creates a pipeline over the integers in [start, stop).
func Range(start, stop int) *Pipeline[int] {
	cur := start
	return FromFunc(func() (int, bool) {
		if cur >= stop {
			return 0, false
		}
		cur++
		return cur - 1, true
	})
}

// --- Handle state ---

// ID returns the identifier shared by this pipeline and every stage derived
// from the same root. It appears in logs and spans.
func (p *Pipeline[T]) ID() uuid.UUID {
	if p == nil || p.lineage == nil {
		return uuid.Nil
	}
	return p.lineage.ID()
}

// State returns the consumption state of this handle.
func (p *Pipeline[T]) State() State {
	if p == nil {
		return Exhausted
	}
	return p.state
}

// Iter hands the pipeline's source over to the caller, who must Close it.
// The pipeline itself becomes Exhausted.
func (p *Pipeline[T]) Iter() Iterator[T] {
	return p.take("iter")
}

// take moves the source out of p for a new stage.
func (p *Pipeline[T]) take(op string) Iterator[T] {
	if p == nil {
		return emptyIter[T]{}
	}
	if p.state != Fresh {
		p.reused(op)
		return emptyIter[T]{}
	}
	src := p.source
	p.source = nil
	p.state = Exhausted
	return src
}

func (p *Pipeline[T]) lin() *lineage {
	if p == nil {
		return nil
	}
	return p.lineage
}

func (p *Pipeline[T]) reused(op string) {
	id := p.ID().String()
	if CurrentOptions().ReuseMode == ReusePanic {
		panic(errors.Consumed(id).WithDetail(logger.FieldOperation, op))
	}
	logger.Get("pipeline").Warn("pipeline reused after it was consumed; treating it as empty",
		logger.Fields(logger.FieldPipelineID, id, logger.FieldOperation, op, logger.FieldState, p.state.String()))
}

// stage builds a new pipeline that wraps p's source.
func stage[T, U any](p *Pipeline[T], op string, build func(Iterator[T]) Iterator[U]) *Pipeline[U] {
	return newPipeline(build(p.take(op)), p.lin())
}
