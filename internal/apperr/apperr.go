// Package apperr defines the error kinds shared by every repository.
// Packages declare their own sentinels wrapping one of these kinds so that
// callers can branch on the kind with errors.Is without matching messages.
package apperr

import "errors"

var (
	// ErrValidation marks field length or shape violations.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks uniqueness violations.
	ErrConflict = errors.New("already exists")
	// ErrNotFound marks an unknown identifier.
	ErrNotFound = errors.New("not found")
	// ErrState marks an operation invalid for the current lifecycle state.
	ErrState = errors.New("invalid state")
	// ErrCapacity marks a collection limit being exceeded.
	ErrCapacity = errors.New("capacity exceeded")
	// ErrImmutable marks an attempt to change a field fixed at creation.
	ErrImmutable = errors.New("field is immutable")
)

// Kind returns the kind sentinel err matches, or nil when err is not one of
// the known kinds.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrState, ErrCapacity, ErrImmutable} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
