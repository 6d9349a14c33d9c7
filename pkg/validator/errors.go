package validator

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// ErrModeNotSet is returned by Execute when neither SetCreateMode nor
// SetUpdateMode was called.
var ErrModeNotSet = errors.New("validator: validation mode has not been set")

// Errors maps a field name to the messages collected for it.
type Errors map[string][]string

// Error implements the error interface.
// Fields are listed in name order so the text is stable.
func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, field := range slices.Sorted(maps.Keys(e)) {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(field)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(e[field], ", "))
	}
	return sb.String()
}

// Has reports whether at least one message was recorded for field.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first message recorded for field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// IsValidationError reports whether err carries field errors.
func IsValidationError(err error) bool {
	var errs Errors
	return errors.As(err, &errs)
}

// ExtractErrors returns the field errors carried by err.
func ExtractErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
