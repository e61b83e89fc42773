// internal/gateway/errors.go
package gateway

import (
	"errors"
	"fmt"
)

// TransportError means the backend could not be reached or answered
// with something other than a usable 2xx response.
type TransportError struct {
	Op         string // status, query, upload
	StatusCode int    // 0 when no response was received
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BackendError means the backend was reached and reported a logical
// failure inside an otherwise successful response.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	return "backend: " + e.Message
}

// IsTransport reports whether err is (or wraps) a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsBackend reports whether err is (or wraps) a BackendError
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
