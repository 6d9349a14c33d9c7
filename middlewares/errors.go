package middlewares

import (
	"github.com/dmitrymomot/llama/pkg/errorhandler"
)

// PanicError represents a recovered panic.
type PanicError = errorhandler.PanicError

// IsPanicError returns true if the error is a PanicError.
func IsPanicError(err error) bool {
	return errorhandler.IsPanicError(err)
}

// AsPanicError extracts the PanicError from an error if present.
func AsPanicError(err error) (*PanicError, bool) {
	return errorhandler.AsPanicError(err)
}
