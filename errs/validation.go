package errs

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidation = errors.New("validation failed")

// ValidationError collects one or more human readable messages per form field.
type ValidationError struct {
	Fields map[string][]string
	order  []string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (v *ValidationError) Add(field, message string) {
	if _, seen := v.Fields[field]; !seen {
		v.order = append(v.order, field)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

// First returns the first message recorded for field, or "".
func (v *ValidationError) First(field string) string {
	if msgs := v.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.order))
	for _, field := range v.order {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(v.Fields[field], ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (v *ValidationError) Unwrap() error {
	return ErrValidation
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
