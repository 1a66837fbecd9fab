package collection

import (
	"context"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/pipeline"
)

// List is an eager, owned sequence with O(1) indexing.
type List[T any] []T

// Of creates a list holding items.
func Of[T any](items ...T) List[T] {
	return FromSlice(items)
}

// FromSlice creates a list holding a copy of items.
func FromSlice[T any](items []T) List[T] {
	out := make(List[T], len(items))
	copy(out, items)
	return out
}

// Collect drains p into a new list.
func Collect[T any](ctx context.Context, p *pipeline.Pipeline[T]) (List[T], error) {
	items, err := p.Slice(ctx)
	if err != nil {
		return nil, err
	}
	return List[T](items), nil
}

// Drain materializes any source. Pipelines are consumed; lists are copied.
func Drain[T any](ctx context.Context, src pipeline.Source[T]) (List[T], error) {
	if src == nil {
		return List[T]{}, nil
	}
	return Collect(ctx, pipeline.FromSource(src))
}

// Iter returns an iterator over a snapshot of l.
func (l List[T]) Iter() pipeline.Iterator[T] {
	return pipeline.SliceIter(l)
}

// Lazy returns a fresh pipeline over a snapshot of l.
func (l List[T]) Lazy() *pipeline.Pipeline[T] {
	return pipeline.FromSlice(l)
}

// Len returns the number of elements.
func (l List[T]) Len() int { return len(l) }

// Clone returns a copy of l.
func (l List[T]) Clone() List[T] { return FromSlice(l) }

// At returns the element at i. Negative indices count from the end.
// Out-of-range indices yield INDEX_OUT_OF_RANGE.
func (l List[T]) At(i int) (T, error) {
	idx := i
	if idx < 0 {
		idx += len(l)
	}
	if idx < 0 || idx >= len(l) {
		var zero T
		return zero, errors.IndexOutOfRange(i, len(l))
	}
	return l[idx], nil
}

// Get returns the element at i, or def when i is negative or past the end.
func (l List[T]) Get(i int, def T) T {
	if i < 0 || i >= len(l) {
		return def
	}
	return l[i]
}

// Range returns a copy of l[start:stop]. Negative bounds count from the
// end, and both bounds are clamped to the list.
func (l List[T]) Range(start, stop int) List[T] {
	start, stop = clampIndex(start, len(l)), clampIndex(stop, len(l))
	if start >= stop {
		return List[T]{}
	}
	return FromSlice(l[start:stop])
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n)
}

// run drains a stage whose only inputs are list snapshots, which cannot
// fail. Operators that accept an arbitrary Source return its errors instead.
func run[U any](p *pipeline.Pipeline[U]) List[U] {
	out, err := p.Slice(context.Background())
	if err != nil {
		panic(err)
	}
	return List[U](out)
}

// must unwraps the result of a terminal operation over a list snapshot.
func must[R any](r R, err error) R {
	if err != nil {
		panic(err)
	}
	return r
}

func must2[R any](r R, ok bool, err error) (R, bool) {
	if err != nil {
		panic(err)
	}
	return r, ok
}
