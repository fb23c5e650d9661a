package interview

import (
	"errors"

	"github.com/alexanderramin/goalplan/internal/domain"
)

var (
	// ErrInsufficientFields indicates an advisory check ran before the
	// fields it depends on were collected.
	ErrInsufficientFields = errors.New("interview has not collected enough fields")

	// ErrAlreadyComplete indicates an answer was sent to a finished interview.
	ErrAlreadyComplete = errors.New("interview is already complete")
)

// ValidationError is a recoverable rejection of a single answer. Message is
// written for the end user and can be shown verbatim.
type ValidationError struct {
	Field   domain.Step
	Message string
}

func (e *ValidationError) Error() string {
	return string(e.Field) + ": " + e.Message
}

func invalid(field domain.Step, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}
