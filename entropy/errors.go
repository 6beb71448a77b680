package entropy

import (
	"errors"
	"fmt"

	"github.com/Thiagojm/rng_sources/rangemap"
)

var (
	// ErrInvalidRange is returned for lo > hi before any primitive is touched.
	ErrInvalidRange = rangemap.ErrInvalidRange
	// ErrCapabilityUnavailable is returned when a source not marked available
	// is requested.
	ErrCapabilityUnavailable = errors.New("capability unavailable")
	// ErrPrimitiveFailure is returned when the underlying OS or CPU call
	// failed or exhausted its retry budget.
	ErrPrimitiveFailure = errors.New("primitive failure")
)

// Error records the source and operation of a failed request. It unwraps to
// one of the sentinels above and, for primitive failures, to the cause.
type Error struct {
	Source Source
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(src Source, op string, kind, cause error) *Error {
	switch {
	case cause == nil:
		return &Error{Source: src, Op: op, Err: kind}
	case errors.Is(cause, kind):
		return &Error{Source: src, Op: op, Err: cause}
	default:
		return &Error{Source: src, Op: op, Err: fmt.Errorf("%w: %w", kind, cause)}
	}
}
