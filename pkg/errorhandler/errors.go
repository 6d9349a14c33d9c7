package errorhandler

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrFileNotFound is returned by CodeExtract for a missing file.
	ErrFileNotFound = errors.New("errorhandler: error file does not exist")
	// ErrFileNotReadable is returned by CodeExtract when the file cannot be read.
	ErrFileNotReadable = errors.New("errorhandler: error file is not readable")
)

// IsResourceError reports whether err came from reading a source file.
func IsResourceError(err error) bool {
	return errors.Is(err, ErrFileNotFound) || errors.Is(err, ErrFileNotReadable)
}

// Error is a diagnostic with a severity and source location.
type Error struct {
	Err      error
	File     string
	Line     int
	Severity Severity
}

// NewError wraps err with the caller's location.
func NewError(severity Severity, err error) *Error {
	e := &Error{Err: err, Severity: severity}
	if _, file, line, ok := runtime.Caller(1); ok {
		e.File = file
		e.Line = line
	}
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Severity, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// PanicError represents a recovered panic.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace (nil if disabled)
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// IsPanicError returns true if the error is a PanicError.
func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// AsPanicError extracts the PanicError from an error if present.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
