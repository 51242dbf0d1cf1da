package gallery

import (
	"errors"
	"strings"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrKittyNotFound    = errors.New("kitty not found")
	ErrSlugTaken        = errors.New("category slug already taken")
	ErrStorage          = errors.New("gallery storage error")
)

// ValidationError lists user-facing problems with submitted data.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
