package project

import (
	"errors"
	"fmt"

	"github.com/metalcycle/lcastudio/internal/repository"
)

var (
	// ErrProjectNotFound indicates no stored project has the id.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates a project or field value the store refuses.
	ErrInvalidInput = errors.New("invalid project input")
)

// storeErr translates repository failures into project errors.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrProjectNotFound
	case errors.Is(err, repository.ErrInvalidInput):
		return fmt.Errorf("%w: %s: %v", ErrInvalidInput, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
