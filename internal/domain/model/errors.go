package model

import "strings"

// FieldError is a single validation failure.
type FieldError struct {
	Message string `json:"message"`
}

// ValidationError aggregates every failure found while validating one input.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Append(message string) {
	e.Errors = append(e.Errors, FieldError{Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}

// Merge appends all errors of other.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Errors = append(e.Errors, other.Errors...)
}

// FirstMessage returns the first error message, or "" when empty.
func (e *ValidationError) FirstMessage() string {
	if !e.HasErrors() {
		return ""
	}
	return e.Errors[0].Message
}

func (e *ValidationError) Error() string {
	if !e.HasErrors() {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// orNil converts an empty aggregate to a nil error.
func (e *ValidationError) orNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}
