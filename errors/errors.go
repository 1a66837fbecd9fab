package errors

import (
	stderrors "errors"
	"fmt"
	"reflect"
)

// AppError is the unified seqkit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Is reports whether any error in err's chain is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// --- Constructors ---

// Validation creates an INVALID_ARGUMENT error from an aggregated validation message.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidArgument, Message: message}
}

// TypeMismatch creates an error for an element whose runtime type the operation
// cannot handle. The message names that type.
func TypeMismatch(op string, value any, reason string) *AppError {
	typeName := TypeName(value)
	return &AppError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("could not %s element of type %s: %s", op, typeName, reason),
		Details: map[string]any{"operation": op, "type": typeName},
	}
}

// EmptyInput creates an error for a seedless reduction over an empty sequence.
func EmptyInput(op string) *AppError {
	return &AppError{
		Code:    ErrCodeEmptyInput,
		Message: fmt.Sprintf("%s of an empty sequence", op),
		Details: map[string]any{"operation": op},
	}
}

// IndexOutOfRange creates an error for direct indexing past the bounds of a list.
func IndexOutOfRange(index, length int) *AppError {
	return &AppError{
		Code:    ErrCodeIndexOutOfRange,
		Message: fmt.Sprintf("index %d out of range for length %d", index, length),
		Details: map[string]any{"index": index, "length": length},
	}
}

// DepthExceeded creates an error for recursive flattening past the configured limit.
func DepthExceeded(limit int) *AppError {
	return &AppError{
		Code:    ErrCodeDepthExceeded,
		Message: fmt.Sprintf("nesting deeper than %d levels", limit),
		Details: map[string]any{"limit": limit},
	}
}

// Consumed creates an error for a pipeline handle that was used after being consumed.
func Consumed(pipelineID string) *AppError {
	return &AppError{
		Code:    ErrCodeConsumed,
		Message: "pipeline was already consumed",
		Details: map[string]any{"pipeline_id": pipelineID},
	}
}

// Canceled wraps a context error raised while pulling from a source.
func Canceled(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeCanceled,
		Message: "pull interrupted by context",
		Cause:   cause,
	}
}

// TypeName returns the runtime type name of v, or "nil" for a nil interface.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
