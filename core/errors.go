package core

import "github.com/pkg/errors"

// FieldError pins a message to one field of a request payload, so the API
// can report exactly which slot of a schedule save or counselor upload was
// rejected.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries the per-field breakdown of a rejected write. The
// API error handler renders Fields as a field-to-message map instead of a
// bare string.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals an unrecoverable integrity problem, like a corrupted
// data directory, that should stop the API rather than be retried.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown checks the cause chain for a shutdown error.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
