package router

import "errors"

// Routing errors.
var (
	// ErrEmptyRule is returned when a route is created without a rule.
	ErrEmptyRule = errors.New("router: rule is empty")

	// ErrInvalidRule is returned when a rule does not compile to a valid pattern.
	ErrInvalidRule = errors.New("router: invalid rule")

	// ErrDuplicateRoute is returned when a route with the same rule is already registered.
	ErrDuplicateRoute = errors.New("router: duplicate route detected")

	// ErrNoURI is returned by Initialise when no URI has been set.
	ErrNoURI = errors.New("router: no URI has been set")

	// ErrNoRoutes is returned by Initialise when the route set is empty.
	ErrNoRoutes = errors.New("router: no routes added")
)

// IsRoutingError reports whether err is one of the package's routing errors.
func IsRoutingError(err error) bool {
	return errors.Is(err, ErrEmptyRule) ||
		errors.Is(err, ErrInvalidRule) ||
		errors.Is(err, ErrDuplicateRoute) ||
		errors.Is(err, ErrNoURI) ||
		errors.Is(err, ErrNoRoutes)
}
