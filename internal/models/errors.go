package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers a missing identifier, an absent row, and a
	// path/body id mismatch on edit.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification is returned when an update matched no row
	// at the expected version while the row still exists.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrInvalidCredentials is deliberately generic; it never reveals
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldError attributes a validation message to a single form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects per-field messages so a form can be redisplayed
// with annotations next to each offending input.
type ValidationErrors struct {
	Fields []FieldError `json:"fields"`
}

func (v *ValidationErrors) Add(field, message string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message})
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Fields) > 0
}

func (v *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsValidationErrors unwraps err into a ValidationErrors when possible.
func AsValidationErrors(err error) (*ValidationErrors, bool) {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
