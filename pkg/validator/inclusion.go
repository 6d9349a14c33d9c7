package validator

import (
	"slices"

	"github.com/spf13/cast"
)

// InclusionOf checks that a field holds one of a fixed set of values.
// Values are compared by their string form, so "1" matches 1.
type InclusionOf struct {
	Field string
	In    []any
	Options
}

const defaultInclusionMessage = "%s is not included in the list"

func (r InclusionOf) validate(v *Validator) {
	val, ok := v.prepare(r.Field, r.Options, true)
	if !ok {
		return
	}

	s := cast.ToString(val)
	found := slices.ContainsFunc(r.In, func(candidate any) bool {
		return cast.ToString(candidate) == s
	})
	if !found {
		v.AddError(r.Field, sprintf(r.message(defaultInclusionMessage), v.Label(r.Field)))
	}
}

func isBlank(val any) bool {
	return cast.ToString(val) == ""
}
