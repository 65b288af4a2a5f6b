package examdb

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every lookup miss (errors.Is).
var ErrNotFound = errors.New("not found")

// ErrInvalid is matched by every payload rejected before it reaches the store.
var ErrInvalid = errors.New("invalid")

// NotFoundError reports a lookup miss for a required record.
type NotFoundError struct {
	// Entity is the entity name, e.g. "question".
	Entity string

	// Key describes the natural key that missed, e.g. "number=1 variant=2".
	Key string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Entity, e.Key)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports a rejected payload field.
type ValidationError struct {
	Entity string
	Field  string
	Rule   string
	Value  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %s=%q fails %q", e.Entity, e.Field, e.Value, e.Rule)
}

// Is makes errors.Is(err, ErrInvalid) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// IsNotFound returns true if err is, or wraps, a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalid returns true if err is, or wraps, a validation failure.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
