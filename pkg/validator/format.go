package validator

import (
	"regexp"

	"github.com/spf13/cast"
)

// FormatOf checks a field against a regular expression.
type FormatOf struct {
	Regex *regexp.Regexp
	Field string
	Options
}

const defaultFormatMessage = "%s is invalid"

func (r FormatOf) validate(v *Validator) {
	val, ok := v.prepare(r.Field, r.Options, true)
	if !ok || r.Regex == nil {
		return
	}

	if !r.Regex.MatchString(cast.ToString(val)) {
		v.AddError(r.Field, sprintf(r.message(defaultFormatMessage), v.Label(r.Field)))
	}
}
