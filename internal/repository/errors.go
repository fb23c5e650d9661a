package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSubmission is returned when a goal with the same
	// submission key already exists.
	ErrDuplicateSubmission = errors.New("duplicate submission")
)
