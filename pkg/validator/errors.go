package validator

import (
	"fmt"
	"strings"
)

// FieldError describes one offending field in a submission.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every offending field rather than stopping at the
// first, so the submitter sees the whole picture in one round trip.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationErrors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// AsValidationErrors unwraps err into ValidationErrors when possible.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	ve, ok := err.(ValidationErrors)
	return ve, ok
}
