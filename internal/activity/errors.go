package activity

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is matched by every ValidationError
var ErrMissingColumn = errors.New("missing required column")

// ValidationError reports a required column absent from an export
type ValidationError struct {
	Column string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Missing required column: %s", e.Column)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingColumn
}
