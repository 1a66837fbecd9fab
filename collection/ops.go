package collection

import (
	"cmp"
	"context"
	"slices"

	"github.com/kbukum/seqkit/pipeline"
)

// --- Same-type operators ---

// Filter returns the elements that satisfy pred.
func (l List[T]) Filter(pred func(T) bool) List[T] {
	return run(l.Lazy().Filter(pred))
}

// Take returns the first n elements.
func (l List[T]) Take(n int) List[T] {
	return run(l.Lazy().Take(n))
}

// Skip returns everything after the first n elements.
func (l List[T]) Skip(n int) List[T] {
	return run(l.Lazy().Skip(n))
}

// TakeWhile returns the longest prefix whose elements satisfy pred.
func (l List[T]) TakeWhile(pred func(T) bool) List[T] {
	return run(l.Lazy().TakeWhile(pred))
}

// Chain returns l followed by the elements of each of others. The first
// error raised by a source is returned with no list.
func (l List[T]) Chain(others ...pipeline.Source[T]) (List[T], error) {
	return Collect(context.Background(), l.Lazy().Chain(others...))
}

// Merge interleaves l with other; see pipeline.Pipeline.Merge. An empty
// side yields a copy of the other. Errors from other are returned.
func (l List[T]) Merge(other pipeline.Source[T], left func(l, r T) bool) (List[T], error) {
	o, err := Drain(context.Background(), other)
	if err != nil {
		return nil, err
	}
	if len(o) == 0 {
		return l.Clone(), nil
	}
	if len(l) == 0 {
		return o, nil
	}
	return run(l.Lazy().Merge(o, left)), nil
}

// Repeat returns l concatenated with itself times times.
func (l List[T]) Repeat(times int) List[T] {
	if times <= 0 || len(l) == 0 {
		return List[T]{}
	}
	return Cycle(l, times*len(l))
}

// Reversed returns the elements in reverse order.
func (l List[T]) Reversed() List[T] {
	out := l.Clone()
	slices.Reverse(out)
	return out
}

// SortedFunc returns the elements stably sorted by compare, or in
// descending order when reverse is set. Equal elements keep their order
// either way.
func (l List[T]) SortedFunc(compare func(a, b T) int, reverse bool) List[T] {
	out := l.Clone()
	if reverse {
		slices.SortStableFunc(out, func(a, b T) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// ForEach calls fn for every element in order.
func (l List[T]) ForEach(fn func(T)) {
	for _, v := range l {
		fn(v)
	}
}

// All reports whether pred holds for every element. A nil pred tests
// pipeline.Truthy. An empty list yields true.
func (l List[T]) All(pred func(T) bool) bool {
	return must(l.Lazy().All(context.Background(), pred))
}

// Any reports whether pred holds for some element. A nil pred tests
// pipeline.Truthy. An empty list yields false.
func (l List[T]) Any(pred func(T) bool) bool {
	return must(l.Lazy().Any(context.Background(), pred))
}

// First returns the first element; ok is false for an empty list.
func (l List[T]) First() (T, bool) {
	if len(l) == 0 {
		var zero T
		return zero, false
	}
	return l[0], true
}

// Uncons splits l into its first element and a copy of the rest.
func (l List[T]) Uncons() (head T, tail List[T], ok bool) {
	if len(l) == 0 {
		return head, List[T]{}, false
	}
	return l[0], l.Range(1, len(l)), true
}

// SplitWhen splits l after the first element matching pred. Without a
// match, left is everything and right is empty. ok is false for an empty
// list.
func (l List[T]) SplitWhen(pred func(T) bool) (left, right List[T], ok bool) {
	if len(l) == 0 {
		return List[T]{}, List[T]{}, false
	}
	for i, v := range l {
		if pred(v) {
			return l.Range(0, i+1), l.Range(i+1, len(l)), true
		}
	}
	return l.Clone(), List[T]{}, true
}

// MinBy returns the smallest element by less, first occurrence on ties.
func (l List[T]) MinBy(less func(a, b T) bool) (T, bool) {
	return must2(l.Lazy().MinBy(context.Background(), less))
}

// MaxBy returns the largest element by less, first occurrence on ties.
func (l List[T]) MaxBy(less func(a, b T) bool) (T, bool) {
	return must2(l.Lazy().MaxBy(context.Background(), less))
}

// --- Type-changing operators ---

// Map applies fn to every element.
func Map[T, U any](l List[T], fn func(T) U) List[U] {
	return run(pipeline.Map(l.Lazy(), fn))
}

// FlatMap maps every element to a slice and concatenates the results.
func FlatMap[T, U any](l List[T], fn func(T) []U) List[U] {
	return run(pipeline.FlatMap(l.Lazy(), fn))
}

// Fold combines the elements left to right, starting from init.
func Fold[T, R any](l List[T], init R, op func(R, T) R) R {
	return must(pipeline.Fold(context.Background(), l.Lazy(), init, op))
}

// FoldRight combines the elements right to left, starting from init.
func FoldRight[T, R any](l List[T], init R, op func(R, T) R) R {
	return Fold(l.Reversed(), init, op)
}

// Reduce folds l using its first element as the seed. An empty list yields
// an EMPTY_INPUT error.
func Reduce[T any](l List[T], op func(T, T) T) (T, error) {
	return pipeline.Reduce(context.Background(), l.Lazy(), op)
}

// Scan returns every intermediate accumulator of a left fold.
func Scan[T, R any](l List[T], init R, op func(R, T) R) List[R] {
	return run(pipeline.Scan(l.Lazy(), init, op))
}

// Enumerate pairs every element with its index, counting from start.
func Enumerate[T any](l List[T], start int) List[pipeline.Indexed[T]] {
	return run(pipeline.Enumerate(l.Lazy(), start))
}

// Zip pairs l with other positionally, up to the shorter length.
func Zip[T, U any](l List[T], other pipeline.Source[U]) (List[pipeline.Pair[T, U]], error) {
	return Collect(context.Background(), pipeline.Zip(l.Lazy(), other))
}

// ZipWith zips l with other and combines each pair with op.
func ZipWith[T, U, R any](l List[T], other pipeline.Source[U], op func(T, U) R) (List[R], error) {
	return Collect(context.Background(), pipeline.ZipWith(l.Lazy(), other, op))
}

// Product returns the cartesian product of l and other.
func Product[T, U any](l List[T], other []U) List[pipeline.Pair[T, U]] {
	return run(pipeline.Product(l.Lazy(), other))
}

// ProductWith applies op to every pair of the cartesian product.
func ProductWith[T, U, R any](l List[T], other []U, op func(T, U) R) List[R] {
	return run(pipeline.ProductWith(l.Lazy(), other, op))
}

// Batch splits l into lists of size elements; the last may be shorter.
// size must be positive.
func Batch[T any](l List[T], size int) (List[List[T]], error) {
	p, err := pipeline.Batch(l.Lazy(), size)
	if err != nil {
		return nil, err
	}
	return lists(run(p)), nil
}

// BatchBy splits l into runs of adjacent elements sharing a key.
func BatchBy[T any, K comparable](l List[T], key func(T) K) List[List[T]] {
	return lists(run(pipeline.BatchBy(l.Lazy(), key)))
}

// GroupBy gathers elements by key, whether adjacent or not. Groups appear in
// the order their keys first occur.
func GroupBy[T any, K comparable](l List[T], key func(T) K) List[List[T]] {
	index := make(map[K]int)
	var groups List[List[T]]
	for _, v := range l {
		k := key(v)
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, List[T]{})
		}
		groups[i] = append(groups[i], v)
	}
	if groups == nil {
		groups = List[List[T]]{}
	}
	return groups
}

// Window returns every run of n consecutive elements. n must be positive.
func Window[T any](l List[T], n int) (List[List[T]], error) {
	p, err := pipeline.Window(l.Lazy(), n)
	if err != nil {
		return nil, err
	}
	return lists(run(p)), nil
}

// Flatten concatenates the elements of every element; see pipeline.Flatten.
func Flatten[T any](l List[T]) (List[any], error) {
	return Collect(context.Background(), pipeline.Flatten(l.Lazy()))
}

// FullFlatten returns every leaf of l; see pipeline.FullFlatten.
func FullFlatten[T any](l List[T], opts ...pipeline.FlattenOption) (List[any], error) {
	return Collect(context.Background(), pipeline.FullFlatten(l.Lazy(), opts...))
}

// FlatFold is a fold in which every step may branch; see pipeline.FlatFold.
func FlatFold[T, R any](l List[T], init R, combine func(R, T) []R) List[R] {
	return run(pipeline.FlatFold(l.Lazy(), init, combine))
}

// Cycle returns the first n elements of l repeated end to end.
func Cycle[T any](l List[T], n int) List[T] {
	return run(l.Lazy().Cycle().Take(n))
}

// Sorted returns the elements in ascending order, or descending when
// reverse is set.
func Sorted[T cmp.Ordered](l List[T], reverse bool) List[T] {
	return l.SortedFunc(cmp.Compare[T], reverse)
}

// SortedBy stably sorts the elements by key.
func SortedBy[T any, K cmp.Ordered](l List[T], key func(T) K, reverse bool) List[T] {
	return l.SortedFunc(func(a, b T) int { return cmp.Compare(key(a), key(b)) }, reverse)
}

// Min returns the smallest element.
func Min[T cmp.Ordered](l List[T]) (T, bool) {
	return must2(pipeline.Min(context.Background(), l.Lazy()))
}

// Max returns the largest element.
func Max[T cmp.Ordered](l List[T]) (T, bool) {
	return must2(pipeline.Max(context.Background(), l.Lazy()))
}

// MinByKey returns the element with the smallest key.
func MinByKey[T any, K cmp.Ordered](l List[T], key func(T) K) (T, bool) {
	return must2(pipeline.MinByKey(context.Background(), l.Lazy(), key))
}

// MaxByKey returns the element with the largest key.
func MaxByKey[T any, K cmp.Ordered](l List[T], key func(T) K) (T, bool) {
	return must2(pipeline.MaxByKey(context.Background(), l.Lazy(), key))
}

// Sum adds up the elements; ok is false for an empty list.
func Sum[T pipeline.Summable](l List[T]) (T, bool) {
	return must2(pipeline.Sum(context.Background(), l.Lazy()))
}

func lists[T any](groups List[[]T]) List[List[T]] {
	out := make(List[List[T]], len(groups))
	for i, g := range groups {
		out[i] = List[T](g)
	}
	return out
}
