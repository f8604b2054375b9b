package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup by id that matched no record.
var ErrNotFound = errors.New("catalog: not found")

// NotFoundError names the record kind and id that were missing.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog: %s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err marks a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
