package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Argument errors, raised at call time before any lazy work is scheduled.
const (
	// ErrCodeInvalidArgument indicates an operator parameter is out of range.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeIndexOutOfRange indicates direct indexing past the bounds of a list.
	ErrCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"
)

// Data errors, raised when the offending element or state is reached.
const (
	// ErrCodeTypeMismatch indicates an element does not have the shape an operator needs.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeEmptyInput indicates a reduction without a seed ran over an empty sequence.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"
	// ErrCodeDepthExceeded indicates recursive flattening went deeper than allowed.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"
)

// Lifecycle errors
const (
	// ErrCodeConsumed indicates a pipeline handle was reused after it was consumed.
	ErrCodeConsumed ErrorCode = "CONSUMED"
	// ErrCodeCanceled indicates the context driving a pull was canceled.
	ErrCodeCanceled ErrorCode = "CANCELED"
)
