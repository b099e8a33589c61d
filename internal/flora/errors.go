package flora

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a category of recoverable domain error.
// No kind is fatal to the process: every error is meant to be caught
// at the boundary and reported without corrupting plant state.
type ErrorKind string

const (
	ErrInvalidEnumValue ErrorKind = "invalid_enum_value"
	ErrMissingField     ErrorKind = "missing_field"
	ErrDuplicateID      ErrorKind = "duplicate_id"
	ErrOutOfRange       ErrorKind = "out_of_range"
	ErrEmptyDescription ErrorKind = "empty_description"
	ErrGenerationFailed ErrorKind = "generation_failed"
)

// Error is a kinded domain error, optionally wrapping a cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err is (or wraps) a domain error of the given
// kind, including validation errors that collected an issue of that kind.
// The whole unwrap chain is inspected, so a wrapped cause stays visible.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		if de, ok := err.(*Error); ok && de.Kind == kind {
			return true
		}
		if ve, ok := err.(*ValidationError); ok && ve.HasKind(kind) {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
