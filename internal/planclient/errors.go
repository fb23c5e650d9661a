package planclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the plan service could not be reached.
	ErrUnavailable = errors.New("plan service unavailable")

	// ErrTimeout indicates a submission exceeded the configured timeout.
	ErrTimeout = errors.New("plan service request timed out")

	// ErrInvalidResponse indicates a 2xx response whose body is not a plan result.
	ErrInvalidResponse = errors.New("invalid plan service response")

	// ErrRetryExhausted indicates all retry attempts failed.
	ErrRetryExhausted = errors.New("plan service retry attempts exhausted")
)

// StatusError is a non-2xx response from the plan service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("plan service returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
