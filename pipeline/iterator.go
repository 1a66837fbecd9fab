package pipeline

import (
	"context"
	"iter"
	"slices"

	"github.com/kbukum/seqkit/errors"
)

// Iterator provides pull-based sequential access to a stream of values.
//
// Once Next reports false it must keep reporting false. Close releases any
// resources held by the iterator and everything it wraps.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Source is anything that can hand out an Iterator over its elements.
// Both *Pipeline and collection.List implement it.
type Source[T any] interface {
	Iter() Iterator[T]
}

// --- Source iterators ---

type emptyIter[T any] struct{}

func (emptyIter[T]) Next(context.Context) (T, bool, error) {
	var zero T
	return zero, false, nil
}

func (emptyIter[T]) Close() error { return nil }

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error {
	it.index = len(it.items)
	return nil
}

// SliceIter returns an Iterator over a snapshot of items.
func SliceIter[T any](items []T) Iterator[T] {
	return &sliceIter[T]{items: slices.Clone(items)}
}

// funcIter pulls from a generator function until it reports false.
type funcIter[T any] struct {
	fn   func() (T, bool)
	done bool
}

func (it *funcIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, false, errors.Canceled(err)
	}
	val, ok := it.fn()
	if !ok {
		it.done = true
		return zero, false, nil
	}
	return val, true, nil
}

func (it *funcIter[T]) Close() error {
	it.done = true
	return nil
}

// seqIter adapts a push-style iter.Seq. The pull coroutine starts on the
// first Next and is stopped by Close or exhaustion.
type seqIter[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
	done bool
}

func (it *seqIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, false, errors.Canceled(err)
	}
	if it.next == nil {
		it.next, it.stop = iter.Pull(it.seq)
	}
	val, ok := it.next()
	if !ok {
		it.release()
		return zero, false, nil
	}
	return val, true, nil
}

func (it *seqIter[T]) Close() error {
	it.release()
	return nil
}

func (it *seqIter[T]) release() {
	it.done = true
	if it.stop != nil {
		it.stop()
		it.stop = nil
	}
}

// latch wraps an arbitrary Iterator so that exhaustion is sticky even when
// the wrapped iterator would produce more after reporting false.
type latch[T any] struct {
	source Iterator[T]
	done   bool
}

func (it *latch[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		it.done = true
		return zero, false, nil
	}
	return val, true, nil
}

func (it *latch[T]) Close() error {
	it.done = true
	return it.source.Close()
}
