// internal/lifecycle/state.go
package lifecycle

import (
	"errors"
	"fmt"
)

// Phase of a single-in-flight operation
type Phase int

const (
	Idle Phase = iota
	InFlight
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// OperationState is the tagged state of one lifecycle. Payload is only
// meaningful when Succeeded; Message and Err only when Failed.
type OperationState[T any] struct {
	Phase   Phase
	Payload T
	Message string
	Err     error
}

// Busy reports whether a request is outstanding
func (s OperationState[T]) Busy() bool {
	return s.Phase == InFlight
}

var (
	// ErrInFlight is returned when a submit is ignored because a
	// request for the same lifecycle is still outstanding.
	ErrInFlight = errors.New("operation already in flight")

	// ErrClosed is returned by Submit after Close
	ErrClosed = errors.New("controller closed")
)

// ValidationError rejects input locally; nothing is sent
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsIgnored reports whether err means the submit was a silent no-op
func IsIgnored(err error) bool {
	return IsValidation(err) || errors.Is(err, ErrInFlight) || errors.Is(err, ErrClosed)
}
