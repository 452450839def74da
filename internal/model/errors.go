package model

import "errors"

var ErrPasswordHashUnreadable = errors.New("password hash is not a readable attribute")

// ValidationError reports a field that failed a model rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}
