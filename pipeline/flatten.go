package pipeline

import (
	"context"
	"reflect"
	"unicode/utf8"

	"github.com/kbukum/seqkit/errors"
)

// Flatten yields the elements of every element of p, one level deep.
//
// Iterable elements are slices, arrays, strings (one string per rune),
// push iterators of the form func(func(X) bool) and pipelines. Maps are not
// iterable, since their order is unspecified. Any other element ends the
// drain with a TYPE_MISMATCH error naming its type.
func Flatten[T any](p *Pipeline[T]) *Pipeline[any] {
	return stage(p, "flatten", func(src Iterator[T]) Iterator[any] {
		return &flattenIter{source: boxed(src)}
	})
}

type flattenIter struct {
	source  Iterator[any]
	current Iterator[any]
}

func (it *flattenIter) Next(ctx context.Context) (any, bool, error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				return nil, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		outer, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		if s, isStr := outer.(string); isStr {
			it.current = runeIter(s)
			continue
		}
		inner, iterable := iterOf(outer)
		if !iterable {
			return nil, false, errors.TypeMismatch("flatten", outer, "value is not iterable")
		}
		it.current = inner
	}
}

func (it *flattenIter) Close() error {
	if it.current != nil {
		_ = it.current.Close()
		it.current = nil
	}
	return it.source.Close()
}

// --- FullFlatten ---

// FlattenOption configures FullFlatten.
type FlattenOption func(*flattenConfig)

type flattenConfig struct {
	breakStrings bool
	preserve     []reflect.Type
	maxDepth     int
}

// WithBreakStrings controls whether strings longer than one rune are split
// into single-rune strings (the default) or yielded whole.
func WithBreakStrings(on bool) FlattenOption {
	return func(c *flattenConfig) { c.breakStrings = on }
}

// WithPreserveType yields values of type t (or implementing t, when t is an
// interface) whole instead of descending into them.
func WithPreserveType(t reflect.Type) FlattenOption {
	return func(c *flattenConfig) {
		if t != nil {
			c.preserve = append(c.preserve, t)
		}
	}
}

// Preserve is WithPreserveType for the type argument X.
func Preserve[X any]() FlattenOption {
	return WithPreserveType(reflect.TypeFor[X]())
}

// FullFlatten recursively yields every non-iterable leaf of p, depth first
// and in order. Multi-rune strings break into single-rune strings, empty
// strings vanish and single-rune strings are yielded as they are. Maps are
// leaves, like any other non-iterable value. With
// Options.MaxFlattenDepth set, nesting deeper than that many levels below p
// ends the drain with DEPTH_EXCEEDED.
func FullFlatten[T any](p *Pipeline[T], opts ...FlattenOption) *Pipeline[any] {
	cfg := flattenConfig{breakStrings: true, maxDepth: CurrentOptions().MaxFlattenDepth}
	for _, opt := range opts {
		opt(&cfg)
	}
	return stage(p, "full_flatten", func(src Iterator[T]) Iterator[any] {
		return &fullFlattenIter{stack: []Iterator[any]{boxed(src)}, cfg: cfg}
	})
}

// fullFlattenIter walks nested values with an explicit stack of iterators,
// so depth is bounded by memory rather than the goroutine stack.
type fullFlattenIter struct {
	stack []Iterator[any]
	cfg   flattenConfig
}

func (it *fullFlattenIter) Next(ctx context.Context) (any, bool, error) {
	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]
		val, ok, err := top.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			_ = top.Close()
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		if it.preserved(val) {
			return val, true, nil
		}
		if s, isStr := val.(string); isStr {
			if !it.cfg.breakStrings || utf8.RuneCountInString(s) == 1 {
				return val, true, nil
			}
			it.stack = append(it.stack, runeIter(s))
			continue
		}
		child, iterable := iterOf(val)
		if !iterable {
			return val, true, nil
		}
		if it.cfg.maxDepth > 0 && len(it.stack) > it.cfg.maxDepth {
			_ = child.Close()
			return nil, false, errors.DepthExceeded(it.cfg.maxDepth)
		}
		it.stack = append(it.stack, child)
	}
	return nil, false, nil
}

func (it *fullFlattenIter) preserved(v any) bool {
	if v == nil || len(it.cfg.preserve) == 0 {
		return false
	}
	t := reflect.TypeOf(v)
	for _, pt := range it.cfg.preserve {
		if t == pt || (pt.Kind() == reflect.Interface && t.Implements(pt)) {
			return true
		}
	}
	return false
}

func (it *fullFlattenIter) Close() error {
	var err error
	for i := len(it.stack) - 1; i >= 0; i-- {
		if cerr := it.stack[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	it.stack = nil
	return err
}

// --- Dynamic iteration ---

// anySource is implemented by every *Pipeline, whatever its element type.
type anySource interface {
	anyIter() Iterator[any]
}

func (p *Pipeline[T]) anyIter() Iterator[any] {
	return boxed(p.take("flatten"))
}

func boxed[T any](src Iterator[T]) Iterator[any] {
	if b, ok := any(src).(Iterator[any]); ok {
		return b
	}
	return &mapIter[T, any]{source: src, fn: func(_ context.Context, v T) (any, error) { return v, nil }}
}

// iterOf returns an iterator over v's elements, or false when v is not
// iterable. Strings are handled by the callers.
func iterOf(v any) (Iterator[any], bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.(anySource); ok {
		return s.anyIter(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return &reflectIter{value: rv}, true
	case reflect.Func:
		if !isSeqFunc(rv.Type()) {
			return nil, false
		}
		if rv.IsNil() {
			return emptyIter[any]{}, true
		}
		return &seqIter[any]{seq: func(yield func(any) bool) {
			for el := range rv.Seq() {
				if !yield(el.Interface()) {
					return
				}
			}
		}}, true
	default:
		return nil, false
	}
}

// isSeqFunc reports whether t has the shape func(func(X) bool).
func isSeqFunc(t reflect.Type) bool {
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	yield := t.In(0)
	return yield.Kind() == reflect.Func &&
		yield.NumIn() == 1 && yield.NumOut() == 1 &&
		yield.Out(0).Kind() == reflect.Bool
}

type reflectIter struct {
	value reflect.Value
	index int
}

func (it *reflectIter) Next(context.Context) (any, bool, error) {
	if it.index >= it.value.Len() {
		return nil, false, nil
	}
	val := it.value.Index(it.index).Interface()
	it.index++
	return val, true, nil
}

func (it *reflectIter) Close() error {
	it.index = it.value.Len()
	return nil
}

// runeIter yields each rune of s as a one-rune string.
func runeIter(s string) Iterator[any] {
	runes := make([]any, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		runes = append(runes, string(r))
	}
	return &sliceIter[any]{items: runes}
}
