package repository

import "errors"

var (
	// ErrNotFound is returned when no stored row has the requested id
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a row violates a schema constraint,
	// such as an out-of-range percentage or a repeated metal id
	ErrInvalidInput = errors.New("invalid input")
)
