package settings

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by a Backend when no record has been persisted.
var ErrNotFound = errors.New("settings not found")

// LoadError reports a record that exists but could not be read or decoded.
// Store.Load logs and absorbs it; Store.Read returns it.
type LoadError struct {
	Location string
	Cause    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load settings from %s: %v", e.Location, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// PersistenceError reports a failed write. Unlike LoadError it is always
// returned to the caller.
type PersistenceError struct {
	Location string
	Op       string
	Cause    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist settings to %s (%s): %v", e.Location, e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// FieldError is a validation failure for one key of the settings record.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found in a settings record.
type ValidationError struct {
	Errors []FieldError
}

// Add records a failure for field.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any failure was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "invalid settings"
	case 1:
		return "invalid settings: " + e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid settings (%d errors):", len(e.Errors))
	for _, fe := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(fe.Error())
	}
	return sb.String()
}
