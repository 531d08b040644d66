package session

import "errors"

var (
	// ErrFormNotFound indicates no open form session has the given ID.
	ErrFormNotFound = errors.New("form session not found")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
)
