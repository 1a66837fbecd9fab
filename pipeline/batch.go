package pipeline

import (
	"context"

	"github.com/kbukum/seqkit/validation"
)

// Batch groups consecutive values into slices of size. The last batch may
// be shorter. size must be positive; otherwise Batch fails immediately
// with INVALID_ARGUMENT and p is left untouched.
func Batch[T any](p *Pipeline[T], size int) (*Pipeline[[]T], error) {
	if err := validation.New().Positive("size", size).Validate(); err != nil {
		return nil, err
	}
	return stage(p, "batch", func(src Iterator[T]) Iterator[[]T] {
		return &batchIter[T]{source: src, size: size}
	}), nil
}

// BatchBy groups adjacent values that share the same key. A new batch starts
// whenever the key changes.
func BatchBy[T any, K comparable](p *Pipeline[T], key func(T) K) *Pipeline[[]T] {
	return stage(p, "batch_by", func(src Iterator[T]) Iterator[[]T] {
		return &batchByIter[T, K]{source: src, key: key}
	})
}

type batchIter[T any] struct {
	source Iterator[T]
	size   int
	err    error
	done   bool
}

func (it *batchIter[T]) Next(ctx context.Context) ([]T, bool, error) {
	if it.err != nil {
		err := it.err
		it.err = nil
		return nil, false, err
	}
	if it.done {
		return nil, false, nil
	}

	batch := make([]T, 0, it.size)
	for len(batch) < it.size {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			if len(batch) > 0 {
				// Return partial batch on error; error will surface on next call
				it.err = err
				return batch, true, nil
			}
			return nil, false, err
		}
		if !ok {
			it.done = true
			break
		}
		batch = append(batch, val)
	}
	if len(batch) == 0 {
		return nil, false, nil
	}
	return batch, true, nil
}

func (it *batchIter[T]) Close() error { return it.source.Close() }

type batchByIter[T any, K comparable] struct {
	source     Iterator[T]
	key        func(T) K
	pending    T
	pendingKey K
	hasPending bool
	done       bool
}

func (it *batchByIter[T, K]) Next(ctx context.Context) ([]T, bool, error) {
	if it.done && !it.hasPending {
		return nil, false, nil
	}
	if !it.hasPending {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			return nil, false, nil
		}
		it.pending, it.pendingKey, it.hasPending = val, it.key(val), true
	}

	batch := []T{it.pending}
	current := it.pendingKey
	it.hasPending = false
	for !it.done {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			break
		}
		k := it.key(val)
		if k != current {
			it.pending, it.pendingKey, it.hasPending = val, k, true
			break
		}
		batch = append(batch, val)
	}
	return batch, true, nil
}

func (it *batchByIter[T, K]) Close() error {
	it.done, it.hasPending = true, false
	return it.source.Close()
}
