// Package errors provides the engine-wide error taxonomy. Every failure that
// crosses a public engine boundary carries one of the codes below so the
// calling layer can translate it to a user-facing error without string
// matching.
package errors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// CodeInvalidArgument marks caller errors: out-of-range limits, malformed
	// criteria, maxDepth above the traversal bound. Never retryable.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// CodeNotFound marks an unresolved candidate id.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeCancelled marks a caller deadline or cancellation observed
	// mid-computation. No partial results accompany it.
	CodeCancelled ErrorCode = "CANCELLED"

	// CodeUnavailable marks a store adapter failure, surfaced as-is. Retry
	// policy belongs to the caller.
	CodeUnavailable ErrorCode = "UNAVAILABLE"

	// CodeInternal marks a bug or an unclassified failure.
	CodeInternal ErrorCode = "INTERNAL"
)

// EngineError is the standard error carried across engine boundaries.
type EngineError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *EngineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.cause
}

func newError(code ErrorCode, msg string, cause error) *EngineError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &EngineError{
		Code:      code,
		Message:   msg,
		Details:   details,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// InvalidArgument reports a caller error. Input is never silently clamped or
// fixed; the caller must be told.
func InvalidArgument(msg string) *EngineError {
	return newError(CodeInvalidArgument, msg, nil)
}

// InvalidArgumentf reports a caller error with a formatted message.
func InvalidArgumentf(format string, args ...interface{}) *EngineError {
	return newError(CodeInvalidArgument, fmt.Sprintf(format, args...), nil)
}

// NotFound reports an unresolved resource id.
func NotFound(resource, id string) *EngineError {
	return newError(CodeNotFound, fmt.Sprintf("%s %q not found", resource, id), nil)
}

// Cancelled reports an observed context cancellation or deadline.
func Cancelled(cause error) *EngineError {
	return newError(CodeCancelled, "request cancelled", cause)
}

// Unavailable reports a failed store adapter call.
func Unavailable(msg string, cause error) *EngineError {
	return newError(CodeUnavailable, msg, cause)
}

// Internal reports an unclassified failure.
func Internal(msg string, cause error) *EngineError {
	return newError(CodeInternal, msg, cause)
}

// FromContext returns a Cancelled error when ctx is done, nil otherwise.
// Engines call this between the store fetch and per-candidate work, and
// between BFS hop expansions.
func FromContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return Cancelled(err)
	}
	return nil
}

// CodeOf extracts the ErrorCode from err, defaulting to CodeInternal. Context
// errors map to CodeCancelled even when unwrapped.
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancelled
	}
	return CodeInternal
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsInvalidArgument reports whether err carries CodeInvalidArgument.
func IsInvalidArgument(err error) bool { return CodeOf(err) == CodeInvalidArgument }

// IsCancelled reports whether err carries CodeCancelled.
func IsCancelled(err error) bool { return CodeOf(err) == CodeCancelled }

// IsUnavailable reports whether err carries CodeUnavailable.
func IsUnavailable(err error) bool { return CodeOf(err) == CodeUnavailable }
