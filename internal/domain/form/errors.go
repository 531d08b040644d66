package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStepIncomplete indicates the current step is missing required fields.
	ErrStepIncomplete = errors.New("step incomplete")
	// ErrInvalidValue indicates a field value outside its allowed range.
	ErrInvalidValue = errors.New("invalid field value")
	// ErrStepLocked indicates a jump to a step that has not been reached.
	ErrStepLocked = errors.New("step not yet reached")
	// ErrLastMetal indicates an attempt to remove the only metal entry.
	ErrLastMetal = errors.New("a project needs at least one metal")
	// ErrNoSaver indicates a submit on a form without a project store.
	ErrNoSaver = errors.New("form has no save target")
)

// ValidationError names the fields that blocked an operation. It is always
// user-correctable.
type ValidationError struct {
	Step   int
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d: %v: %s", e.Step, e.Err, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
