package config

import "errors"

// Configuration errors.
var (
	// ErrReadFile is returned when the configuration file cannot be read.
	ErrReadFile = errors.New("config: unable to load configuration file")

	// ErrParse is returned when the configuration source cannot be parsed.
	ErrParse = errors.New("config: unable to parse configuration")

	// ErrSectionNotFound is returned when a required section is missing.
	ErrSectionNotFound = errors.New("config: section not found")

	// ErrInheritanceCycle is returned when sections extend each other in a loop.
	ErrInheritanceCycle = errors.New("config: section inheritance cycle")

	// ErrDecode is returned when a subtree cannot be decoded into a struct.
	ErrDecode = errors.New("config: unable to decode section")
)

// IsConfigurationError reports whether err originates from configuration loading.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrReadFile) ||
		errors.Is(err, ErrParse) ||
		errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrInheritanceCycle) ||
		errors.Is(err, ErrDecode)
}
