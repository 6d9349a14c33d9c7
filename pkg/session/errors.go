package session

import "errors"

// Session errors.
var (
	// ErrNotConfigured is returned when session functionality is used
	// but WithSession was not configured on the app.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a session has expired.
	ErrExpired = errors.New("session: expired")

	// ErrInvalidToken is returned when a session token is invalid.
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrTypeMismatch is returned by Value when the stored value has another type.
	ErrTypeMismatch = errors.New("session: type mismatch")

	// ErrEncode is returned when a session cannot be serialized for a store.
	ErrEncode = errors.New("session: failed to encode session")

	// ErrDecode is returned when a stored session payload is malformed.
	ErrDecode = errors.New("session: failed to decode session")

	// ErrStore wraps failures of the underlying storage backend.
	ErrStore = errors.New("session: store failure")
)
