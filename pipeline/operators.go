package pipeline

import (
	"context"
)

// Pair holds one element from each side of a Zip or Product.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Indexed is an element tagged with its position by Enumerate.
type Indexed[T any] struct {
	Index int
	Value T
}

// --- Same-type operators ---

// Filter keeps only values that satisfy pred.
func (p *Pipeline[T]) Filter(pred func(T) bool) *Pipeline[T] {
	return stage(p, "filter", func(src Iterator[T]) Iterator[T] {
		return &filterIter[T]{source: src, fn: pred}
	})
}

// Take yields at most the first n values. It never pulls past the nth.
func (p *Pipeline[T]) Take(n int) *Pipeline[T] {
	return stage(p, "take", func(src Iterator[T]) Iterator[T] {
		return &takeIter[T]{source: src, remaining: max(n, 0)}
	})
}

// Skip discards the first n values.
func (p *Pipeline[T]) Skip(n int) *Pipeline[T] {
	return stage(p, "skip", func(src Iterator[T]) Iterator[T] {
		return &skipIter[T]{source: src, n: max(n, 0)}
	})
}

// TakeWhile yields values until pred first fails, then stops for good.
func (p *Pipeline[T]) TakeWhile(pred func(T) bool) *Pipeline[T] {
	return stage(p, "take_while", func(src Iterator[T]) Iterator[T] {
		return &takeWhileIter[T]{source: src, fn: pred}
	})
}

// Chain yields every value of p, then of each of others in order. Pipelines
// among others hand their sources over at call time.
func (p *Pipeline[T]) Chain(others ...Source[T]) *Pipeline[T] {
	return stage(p, "chain", func(src Iterator[T]) Iterator[T] {
		rest := make([]Iterator[T], 0, len(others))
		for _, o := range others {
			if o != nil {
				rest = append(rest, o.Iter())
			}
		}
		return &chainIter[T]{current: src, pending: rest}
	})
}

// Cycle buffers the first pass over p and replays it forever.
// An empty pipeline stays empty.
func (p *Pipeline[T]) Cycle() *Pipeline[T] {
	return stage(p, "cycle", func(src Iterator[T]) Iterator[T] {
		return &cycleIter[T]{source: src}
	})
}

// Peek calls fn for every value as it is pulled and passes it through.
func (p *Pipeline[T]) Peek(fn func(T)) *Pipeline[T] {
	return stage(p, "peek", func(src Iterator[T]) Iterator[T] {
		return &peekIter[T]{source: src, fn: fn}
	})
}

// --- Type-changing operators ---

// Map transforms each value using fn.
func Map[T, U any](p *Pipeline[T], fn func(T) U) *Pipeline[U] {
	return stage(p, "map", func(src Iterator[T]) Iterator[U] {
		return &mapIter[T, U]{source: src, fn: func(_ context.Context, v T) (U, error) { return fn(v), nil }}
	})
}

// TryMap transforms each value using a fallible fn. The first error ends
// the drain and is returned by the terminal operation.
func TryMap[T, U any](p *Pipeline[T], fn func(context.Context, T) (U, error)) *Pipeline[U] {
	return stage(p, "map", func(src Iterator[T]) Iterator[U] {
		return &mapIter[T, U]{source: src, fn: fn}
	})
}

// FlatMap maps each value to a slice and yields the slices' elements in order.
func FlatMap[T, U any](p *Pipeline[T], fn func(T) []U) *Pipeline[U] {
	return stage(p, "flatmap", func(src Iterator[T]) Iterator[U] {
		return &flatMapIter[T, U]{source: src, fn: func(v T) Iterator[U] {
			return &sliceIter[U]{items: fn(v)}
		}}
	})
}

// FlatMapSource maps each value to a Source and yields its elements lazily.
func FlatMapSource[T, U any](p *Pipeline[T], fn func(T) Source[U]) *Pipeline[U] {
	return stage(p, "flatmap", func(src Iterator[T]) Iterator[U] {
		return &flatMapIter[T, U]{source: src, fn: func(v T) Iterator[U] {
			s := fn(v)
			if s == nil {
				return emptyIter[U]{}
			}
			return s.Iter()
		}}
	})
}

// Enumerate pairs each value with its position, counting from start.
func Enumerate[T any](p *Pipeline[T], start int) *Pipeline[Indexed[T]] {
	return stage(p, "enumerate", func(src Iterator[T]) Iterator[Indexed[T]] {
		return &enumerateIter[T]{source: src, next: start}
	})
}

// Zip pairs values of p and other positionally and stops at the shorter.
// other is pulled only after p produced a value.
func Zip[T, U any](p *Pipeline[T], other Source[U]) *Pipeline[Pair[T, U]] {
	return ZipWith(p, other, func(a T, b U) Pair[T, U] { return Pair[T, U]{First: a, Second: b} })
}

// ZipWith zips p with other and combines each pair with op.
func ZipWith[T, U, R any](p *Pipeline[T], other Source[U], op func(T, U) R) *Pipeline[R] {
	return stage(p, "zip", func(src Iterator[T]) Iterator[R] {
		var right Iterator[U] = emptyIter[U]{}
		if other != nil {
			right = other.Iter()
		}
		return &zipIter[T, U, R]{left: src, right: right, fn: op}
	})
}

// Product yields the cartesian product of p and other, p varying slowest.
func Product[T, U any](p *Pipeline[T], other []U) *Pipeline[Pair[T, U]] {
	return ProductWith(p, other, func(a T, b U) Pair[T, U] { return Pair[T, U]{First: a, Second: b} })
}

// ProductWith applies op to every pair of the cartesian product of p and other.
func ProductWith[T, U, R any](p *Pipeline[T], other []U, op func(T, U) R) *Pipeline[R] {
	snapshot := append([]U(nil), other...)
	return stage(p, "product", func(src Iterator[T]) Iterator[R] {
		return &flatMapIter[T, R]{source: src, fn: func(v T) Iterator[R] {
			out := make([]R, len(snapshot))
			for i, u := range snapshot {
				out[i] = op(v, u)
			}
			return &sliceIter[R]{items: out}
		}}
	})
}

// Scan yields every intermediate accumulator of a left fold, starting with
// op(init, first).
func Scan[T, R any](p *Pipeline[T], init R, op func(R, T) R) *Pipeline[R] {
	return stage(p, "scan", func(src Iterator[T]) Iterator[R] {
		return &scanIter[T, R]{source: src, acc: init, fn: op}
	})
}

// FlatFold is a fold in which every step may branch: combine maps each
// accumulator and value to any number of next accumulators. The result
// yields every accumulator left after the last value. The source is drained
// on the first pull; the accumulator frontier itself is produced lazily.
func FlatFold[T, R any](p *Pipeline[T], init R, combine func(R, T) []R) *Pipeline[R] {
	return stage(p, "flat_fold", func(src Iterator[T]) Iterator[R] {
		return &flatFoldIter[T, R]{source: src, init: init, fn: combine}
	})
}

// --- Iterator implementations ---

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(T) bool
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		if it.fn(val) {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type mapIter[T, U any] struct {
	source Iterator[T]
	fn     func(context.Context, T) (U, error)
}

func (it *mapIter[T, U]) Next(ctx context.Context) (U, bool, error) {
	var zero U
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[T, U]) Close() error { return it.source.Close() }

type flatMapIter[T, U any] struct {
	source  Iterator[T]
	fn      func(T) Iterator[U]
	current Iterator[U]
}

func (it *flatMapIter[T, U]) Next(ctx context.Context) (U, bool, error) {
	var zero U
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		it.current = it.fn(in)
	}
}

func (it *flatMapIter[T, U]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
		it.current = nil
	}
	return it.source.Close()
}

type takeIter[T any] struct {
	source    Iterator[T]
	remaining int
}

func (it *takeIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.remaining <= 0 {
		return zero, false, nil
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		it.remaining = 0
		return zero, false, err
	}
	it.remaining--
	return val, true, nil
}

func (it *takeIter[T]) Close() error { return it.source.Close() }

type skipIter[T any] struct {
	source Iterator[T]
	n      int
}

func (it *skipIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for it.n > 0 {
		_, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			it.n = 0
			return zero, false, err
		}
		it.n--
	}
	return it.source.Next(ctx)
}

func (it *skipIter[T]) Close() error { return it.source.Close() }

type takeWhileIter[T any] struct {
	source Iterator[T]
	fn     func(T) bool
	done   bool
}

func (it *takeWhileIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	if !it.fn(val) {
		it.done = true
		return zero, false, nil
	}
	return val, true, nil
}

func (it *takeWhileIter[T]) Close() error { return it.source.Close() }

type chainIter[T any] struct {
	current Iterator[T]
	pending []Iterator[T]
}

func (it *chainIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for it.current != nil {
		val, ok, err := it.current.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return val, true, nil
		}
		_ = it.current.Close()
		it.current = nil
		if len(it.pending) > 0 {
			it.current = it.pending[0]
			it.pending = it.pending[1:]
		}
	}
	return zero, false, nil
}

func (it *chainIter[T]) Close() error {
	var err error
	if it.current != nil {
		err = it.current.Close()
		it.current = nil
	}
	for _, pending := range it.pending {
		if cerr := pending.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	it.pending = nil
	return err
}

type cycleIter[T any] struct {
	source Iterator[T]
	buffer []T
	pos    int
	replay bool
}

func (it *cycleIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if !it.replay {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if ok {
			it.buffer = append(it.buffer, val)
			return val, true, nil
		}
		it.replay = true
	}
	if len(it.buffer) == 0 {
		return zero, false, nil
	}
	val := it.buffer[it.pos]
	it.pos = (it.pos + 1) % len(it.buffer)
	return val, true, nil
}

func (it *cycleIter[T]) Close() error {
	it.buffer = nil
	it.replay = true
	return it.source.Close()
}

type peekIter[T any] struct {
	source Iterator[T]
	fn     func(T)
}

func (it *peekIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if ok && err == nil {
		it.fn(val)
	}
	return val, ok, err
}

func (it *peekIter[T]) Close() error { return it.source.Close() }

type enumerateIter[T any] struct {
	source Iterator[T]
	next   int
}

func (it *enumerateIter[T]) Next(ctx context.Context) (Indexed[T], bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return Indexed[T]{}, false, err
	}
	out := Indexed[T]{Index: it.next, Value: val}
	it.next++
	return out, true, nil
}

func (it *enumerateIter[T]) Close() error { return it.source.Close() }

type zipIter[T, U, R any] struct {
	left  Iterator[T]
	right Iterator[U]
	fn    func(T, U) R
	done  bool
}

func (it *zipIter[T, U, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	if it.done {
		return zero, false, nil
	}
	a, ok, err := it.left.Next(ctx)
	if err != nil || !ok {
		it.done = err == nil
		return zero, false, err
	}
	b, ok, err := it.right.Next(ctx)
	if err != nil || !ok {
		it.done = err == nil
		return zero, false, err
	}
	return it.fn(a, b), true, nil
}

func (it *zipIter[T, U, R]) Close() error {
	it.done = true
	lerr := it.left.Close()
	rerr := it.right.Close()
	if lerr != nil {
		return lerr
	}
	return rerr
}

type scanIter[T, R any] struct {
	source Iterator[T]
	acc    R
	fn     func(R, T) R
}

func (it *scanIter[T, R]) Next(ctx context.Context) (R, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero R
		return zero, false, err
	}
	it.acc = it.fn(it.acc, val)
	return it.acc, true, nil
}

func (it *scanIter[T, R]) Close() error { return it.source.Close() }

// foldFrame holds the accumulators one combine call produced and the
// position of the next one to expand.
type foldFrame[R any] struct {
	items []R
	next  int
}

// flatFoldIter walks the accumulator tree depth first with an explicit
// stack. Frame i holds the accumulators after i values.
type flatFoldIter[T, R any] struct {
	source Iterator[T]
	init   R
	fn     func(R, T) []R
	values []T
	loaded bool
	stack  []foldFrame[R]
}

func (it *flatFoldIter[T, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	if !it.loaded {
		for {
			val, ok, err := it.source.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if !ok {
				break
			}
			it.values = append(it.values, val)
		}
		it.loaded = true
		it.stack = []foldFrame[R]{{items: []R{it.init}}}
	}
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.next == len(top.items) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		acc := top.items[top.next]
		top.next++
		depth := len(it.stack) - 1
		if depth == len(it.values) {
			return acc, true, nil
		}
		it.stack = append(it.stack, foldFrame[R]{items: it.fn(acc, it.values[depth])})
	}
	return zero, false, nil
}

func (it *flatFoldIter[T, R]) Close() error {
	it.loaded = true
	it.stack = nil
	it.values = nil
	return it.source.Close()
}
