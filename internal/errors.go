package internal

import (
	"errors"
	"net/http"
)

// Application errors.
var (
	ErrUnsupportedConfig  = errors.New("llama: unsupported configuration file type")
	ErrNoConfig           = errors.New("llama: no configuration given")
	ErrNoModules          = errors.New("llama: no modules configured")
	ErrModuleNotFound     = errors.New("llama: module not found")
	ErrInvalidRoute       = errors.New("llama: invalid route definition")
	ErrControllerNotFound = errors.New("llama: controller not found")
	ErrActionNotFound     = errors.New("llama: action not found")
	ErrNotInitialised     = errors.New("llama: application is not initialised")
	ErrNoDatabase         = errors.New("llama: no database configured")
)

// HTTPError carries a status code and the user-facing parts of an error
// response. Error handlers inspect it with AsHTTPError.
type HTTPError struct {
	// Err is the underlying error. It is logged but never shown to users.
	Err error

	Message string
	Title   string
	Detail  string

	// ErrorCode is an application-specific code for translations and clients.
	ErrorCode string
	RequestID string

	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Title = title
	}
}

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Detail = detail
	}
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.ErrorCode = code
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// Convenience constructors for common HTTP errors.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, opts...)
}

// IsHTTPError reports whether err or any error it wraps is an HTTPError.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// AsHTTPError extracts the HTTPError from an error chain.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// StatusOf returns the HTTP status code to respond with for err.
func StatusOf(err error) int {
	if httpErr := AsHTTPError(err); httpErr != nil && httpErr.Code > 0 {
		return httpErr.Code
	}
	switch {
	case errors.Is(err, ErrControllerNotFound), errors.Is(err, ErrActionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
