package pipeline

import (
	"cmp"
	"context"
	"iter"
	"reflect"

	"github.com/kbukum/seqkit/errors"
)

// Summable is the set of types Sum can add with +.
type Summable interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 | ~complex64 | ~complex128 | ~string
}

// Slice drains p into a new slice.
func (p *Pipeline[T]) Slice(ctx context.Context) ([]T, error) {
	var out []T
	err := p.drain(ctx, "slice", false, func(ctx context.Context, it Iterator[T]) error {
		for {
			val, ok, err := it.Next(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			out = append(out, val)
		}
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// ForEach calls fn for every value of p.
func (p *Pipeline[T]) ForEach(ctx context.Context, fn func(T)) error {
	return p.drain(ctx, "foreach", false, func(ctx context.Context, it Iterator[T]) error {
		return each(ctx, it, func(v T) bool {
			fn(v)
			return true
		})
	})
}

// Count drains p and returns how many values it produced.
func (p *Pipeline[T]) Count(ctx context.Context) (int, error) {
	n := 0
	err := p.drain(ctx, "count", false, func(ctx context.Context, it Iterator[T]) error {
		return each(ctx, it, func(T) bool {
			n++
			return true
		})
	})
	return n, err
}

// Fold combines every value of p into an accumulator, left to right.
func Fold[T, R any](ctx context.Context, p *Pipeline[T], init R, op func(R, T) R) (R, error) {
	acc := init
	err := p.drain(ctx, "fold", false, func(ctx context.Context, it Iterator[T]) error {
		return each(ctx, it, func(v T) bool {
			acc = op(acc, v)
			return true
		})
	})
	return acc, err
}

// Reduce folds p using its first value as the seed. An empty pipeline
// yields an EMPTY_INPUT error.
func Reduce[T any](ctx context.Context, p *Pipeline[T], op func(T, T) T) (T, error) {
	var acc T
	seeded := false
	err := p.drain(ctx, "reduce", false, func(ctx context.Context, it Iterator[T]) error {
		return each(ctx, it, func(v T) bool {
			if seeded {
				acc = op(acc, v)
			} else {
				acc, seeded = v, true
			}
			return true
		})
	})
	if err != nil {
		return acc, err
	}
	if !seeded {
		return acc, errors.EmptyInput("reduce")
	}
	return acc, nil
}

// All reports whether pred holds for every value, stopping at the first
// failure. A nil pred tests Truthy. An empty pipeline yields true.
func (p *Pipeline[T]) All(ctx context.Context, pred func(T) bool) (bool, error) {
	if pred == nil {
		pred = Truthy[T]
	}
	result := true
	err := p.drain(ctx, "all", false, func(ctx context.Context, it Iterator[T]) error {
		return each(ctx, it, func(v T) bool {
			result = pred(v)
			return result
		})
	})
	return result, err
}

// Any reports whether pred holds for some value, stopping at the first
// match. A nil pred tests Truthy. An empty pipeline yields false.
func (p *Pipeline[T]) Any(ctx context.Context, pred func(T) bool) (bool, error) {
	if pred == nil {
		pred = Truthy[T]
	}
	result := false
	err := p.drain(ctx, "any", false, func(ctx context.Context, it Iterator[T]) error {
		return each(ctx, it, func(v T) bool {
			result = pred(v)
			return !result
		})
	})
	return result, err
}

// Truthy reports whether v differs from its type's zero value. A nil
// interface, a nil or empty slice, map or string are not truthy.
func Truthy[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len() > 0
	default:
		return !rv.IsZero()
	}
}

// First returns the first value of p, pulling exactly once.
func (p *Pipeline[T]) First(ctx context.Context) (T, bool, error) {
	var (
		first T
		found bool
	)
	err := p.drain(ctx, "first", false, func(ctx context.Context, it Iterator[T]) error {
		val, ok, err := it.Next(ctx)
		first, found = val, ok && err == nil
		return err
	})
	return first, found, err
}

// Get returns the value at index, or def when index is negative or past
// the end. It pulls at most index+1 values.
func (p *Pipeline[T]) Get(ctx context.Context, index int, def T) (T, error) {
	if index < 0 {
		p.discard("get")
		return def, nil
	}
	out := def
	err := p.drain(ctx, "get", false, func(ctx context.Context, it Iterator[T]) error {
		i := 0
		return each(ctx, it, func(v T) bool {
			if i == index {
				out = v
				return false
			}
			i++
			return true
		})
	})
	if err != nil {
		return def, err
	}
	return out, nil
}

// MinBy returns the smallest value by less. Ties keep the first occurrence.
// ok is false for an empty pipeline.
func (p *Pipeline[T]) MinBy(ctx context.Context, less func(a, b T) bool) (T, bool, error) {
	return p.extreme(ctx, "min", func(candidate, best T) bool { return less(candidate, best) })
}

// MaxBy returns the largest value by less. Ties keep the first occurrence.
// ok is false for an empty pipeline.
func (p *Pipeline[T]) MaxBy(ctx context.Context, less func(a, b T) bool) (T, bool, error) {
	return p.extreme(ctx, "max", func(candidate, best T) bool { return less(best, candidate) })
}

func (p *Pipeline[T]) extreme(ctx context.Context, op string, better func(candidate, best T) bool) (T, bool, error) {
	var (
		best  T
		found bool
	)
	err := p.drain(ctx, op, false, func(ctx context.Context, it Iterator[T]) error {
		return each(ctx, it, func(v T) bool {
			if !found || better(v, best) {
				best, found = v, true
			}
			return true
		})
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return best, found, nil
}

// Min returns the smallest value of p.
func Min[T cmp.Ordered](ctx context.Context, p *Pipeline[T]) (T, bool, error) {
	return p.MinBy(ctx, cmp.Less[T])
}

// Max returns the largest value of p.
func Max[T cmp.Ordered](ctx context.Context, p *Pipeline[T]) (T, bool, error) {
	return p.MaxBy(ctx, cmp.Less[T])
}

// MinByKey returns the value with the smallest key.
func MinByKey[T any, K cmp.Ordered](ctx context.Context, p *Pipeline[T], key func(T) K) (T, bool, error) {
	return p.MinBy(ctx, func(a, b T) bool { return cmp.Less(key(a), key(b)) })
}

// MaxByKey returns the value with the largest key.
func MaxByKey[T any, K cmp.Ordered](ctx context.Context, p *Pipeline[T], key func(T) K) (T, bool, error) {
	return p.MaxBy(ctx, func(a, b T) bool { return cmp.Less(key(a), key(b)) })
}

// Sum adds up every value of p, seeded with the first. ok is false for an
// empty pipeline.
func Sum[T Summable](ctx context.Context, p *Pipeline[T]) (T, bool, error) {
	var (
		total T
		found bool
	)
	err := p.drain(ctx, "sum", false, func(ctx context.Context, it Iterator[T]) error {
		return each(ctx, it, func(v T) bool {
			if found {
				total += v
			} else {
				total, found = v, true
			}
			return true
		})
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return total, found, nil
}

// Uncons splits p into its first value and a pipeline over the rest. The
// tail continues from exactly where the head was pulled and owns the
// remaining source. ok is false for an empty pipeline.
func (p *Pipeline[T]) Uncons(ctx context.Context) (head T, tail *Pipeline[T], ok bool, err error) {
	tail = Empty[T]()
	err = p.drain(ctx, "uncons", true, func(ctx context.Context, it Iterator[T]) error {
		val, found, err := it.Next(ctx)
		if err != nil || !found {
			_ = it.Close()
			return err
		}
		head, ok = val, true
		tail = newPipeline(it, p.lin())
		return nil
	})
	return head, tail, ok, err
}

// SplitWhen pulls values up to and including the first one matching pred.
// right continues with the rest of the source. Without a match, left holds
// everything and right is empty. ok is false for an empty pipeline.
func (p *Pipeline[T]) SplitWhen(ctx context.Context, pred func(T) bool) (left []T, right *Pipeline[T], ok bool, err error) {
	right = Empty[T]()
	matched := false
	err = p.drain(ctx, "split_when", true, func(ctx context.Context, it Iterator[T]) error {
		err := each(ctx, it, func(v T) bool {
			left = append(left, v)
			matched = pred(v)
			return !matched
		})
		if err != nil || !matched {
			_ = it.Close()
			return err
		}
		right = newPipeline(it, p.lin())
		return nil
	})
	if err != nil {
		return nil, Empty[T](), false, err
	}
	return left, right, len(left) > 0, nil
}

// Seq bridges p to a range-over-func loop. The loop ends at the first error,
// which is yielded with a zero value. Breaking out early closes the source.
func (p *Pipeline[T]) Seq(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		_ = p.drain(ctx, "seq", false, func(ctx context.Context, it Iterator[T]) error {
			for {
				val, ok, err := it.Next(ctx)
				if err != nil {
					var zero T
					yield(zero, err)
					return err
				}
				if !ok || !yield(val, nil) {
					return nil
				}
			}
		})
	}
}

// discard closes p's source without pulling from it.
func (p *Pipeline[T]) discard(op string) {
	_ = p.drain(context.Background(), op, false, func(context.Context, Iterator[T]) error { return nil })
}

// each pulls from it until it is exhausted, fn returns false, or an error occurs.
func each[T any](ctx context.Context, it Iterator[T], fn func(T) bool) error {
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok || !fn(val) {
			return nil
		}
	}
}
