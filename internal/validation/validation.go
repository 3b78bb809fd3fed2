package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/daap14/taskboard/internal/apperr"
)

// Field length limits shared by the repositories.
const (
	MaxNameLength        = 64
	MaxDescriptionLength = 128
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a non-empty list of field errors. It matches apperr.ErrValidation.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is reports whether target is the validation kind.
func (e Errors) Is(target error) bool {
	return target == apperr.ErrValidation
}

// Checker accumulates field errors for a single request.
type Checker struct {
	errs Errors
}

// Required records an error when value is blank.
func (c *Checker) Required(field, value string) *Checker {
	if strings.TrimSpace(value) == "" {
		c.errs = append(c.errs, FieldError{Field: field, Message: field + " is required"})
	}
	return c
}

// MaxLength records an error when value has more than limit characters.
// Length is counted in code points, not bytes.
func (c *Checker) MaxLength(field, value string, limit int) *Checker {
	if utf8.RuneCountInString(value) > limit {
		c.errs = append(c.errs, FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %d characters", field, limit),
		})
	}
	return c
}

// OneOf records an error when value is not in allowed.
func (c *Checker) OneOf(field, value string, allowed ...string) *Checker {
	for _, a := range allowed {
		if value == a {
			return c
		}
	}
	c.errs = append(c.errs, FieldError{
		Field:   field,
		Message: fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")),
	})
	return c
}

// Err returns the accumulated errors, or nil when every check passed.
func (c *Checker) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}
