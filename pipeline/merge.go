package pipeline

import "context"

// Merge interleaves p with other. While both sides have values, left(l, r)
// decides which head is yielded next: true yields l, false yields r. Once
// either side runs out, the other side's held value is yielded, followed by
// the rest of that side. Two sorted inputs merged with a <= comparison
// produce a stable sorted output.
//
// Each side is pulled only when its previous head has been yielded.
func (p *Pipeline[T]) Merge(other Source[T], left func(l, r T) bool) *Pipeline[T] {
	return stage(p, "merge", func(src Iterator[T]) Iterator[T] {
		var right Iterator[T] = emptyIter[T]{}
		if other != nil {
			right = other.Iter()
		}
		return &mergeIter[T]{
			left:      src,
			right:     right,
			pick:      left,
			needLeft:  true,
			needRight: true,
		}
	})
}

type mergeIter[T any] struct {
	left, right         Iterator[T]
	pick                func(l, r T) bool
	leftVal, rightVal   T
	needLeft, needRight bool
	leftDone, rightDone bool
}

func (it *mergeIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.needLeft && !it.leftDone {
		val, ok, err := it.left.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		it.leftVal, it.leftDone, it.needLeft = val, !ok, false
	}
	if it.needRight && !it.rightDone {
		val, ok, err := it.right.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		it.rightVal, it.rightDone, it.needRight = val, !ok, false
	}

	switch {
	case it.leftDone && it.rightDone:
		return zero, false, nil
	case it.leftDone:
		it.needRight = true
		return it.rightVal, true, nil
	case it.rightDone:
		it.needLeft = true
		return it.leftVal, true, nil
	case it.pick(it.leftVal, it.rightVal):
		it.needLeft = true
		return it.leftVal, true, nil
	default:
		it.needRight = true
		return it.rightVal, true, nil
	}
}

func (it *mergeIter[T]) Close() error {
	it.leftDone, it.rightDone = true, true
	lerr := it.left.Close()
	rerr := it.right.Close()
	if lerr != nil {
		return lerr
	}
	return rerr
}
