package gpa

import (
	"errors"
	"fmt"
)

// Error kinds reported by the forecast validator and the grade scale.
// Callers match them with errors.Is.
var (
	ErrMissingField      = errors.New("missing field")
	ErrOutOfRange        = errors.New("value out of range")
	ErrEmptyCourses      = errors.New("empty planned courses")
	ErrInvalidCreditUnit = errors.New("invalid credit unit")
	ErrInvalidGrade      = errors.New("invalid grade")
)

// Error is a rejected input. Kind is one of the Err* sentinels above.
type Error struct {
	Kind    error
	Message string
	Field   string
	// Index is the position of the planned course that failed, or -1 when
	// the error is not about a single course.
	Index int
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, field, message string) *Error {
	return &Error{Kind: kind, Message: message, Field: field, Index: -1}
}

func courseError(kind error, index int, field, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Field:   fmt.Sprintf("planned_courses[%d].%s", index, field),
		Index:   index,
	}
}
