package pipeline

import (
	"context"

	"github.com/kbukum/seqkit/validation"
)

// Window yields every run of n consecutive values as its own slice, sliding
// by one. A source with fewer than n values yields nothing. n must be
// positive; otherwise Window fails immediately with INVALID_ARGUMENT.
func Window[T any](p *Pipeline[T], n int) (*Pipeline[[]T], error) {
	if err := validation.New().Positive("window size", n).Validate(); err != nil {
		return nil, err
	}
	return stage(p, "window", func(src Iterator[T]) Iterator[[]T] {
		return &windowIter[T]{source: src, ring: make([]T, n)}
	}), nil
}

// windowIter keeps the last len(ring) values in a ring buffer and copies
// them out in order for every window.
type windowIter[T any] struct {
	source Iterator[T]
	ring   []T
	head   int
	filled int
	done   bool
}

func (it *windowIter[T]) Next(ctx context.Context) ([]T, bool, error) {
	if it.done {
		return nil, false, nil
	}
	n := len(it.ring)
	need := 1
	if it.filled < n {
		need = n - it.filled
	}
	for range need {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			return nil, false, nil
		}
		it.ring[it.head] = val
		it.head = (it.head + 1) % n
		if it.filled < n {
			it.filled++
		}
	}

	window := make([]T, n)
	copy(window, it.ring[it.head:])
	copy(window[n-it.head:], it.ring[:it.head])
	return window, true, nil
}

func (it *windowIter[T]) Close() error {
	it.done = true
	return it.source.Close()
}
