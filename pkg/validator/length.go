package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// LengthOf checks the length of a field in characters or words.
//
// Bounds are inclusive. When both Minimum and Maximum are set they form a
// single range check reported with BetweenMessage. Options.Message, when
// set, replaces every length message.
type LengthOf struct {
	IsEqualTo *int
	Minimum   *int
	Maximum   *int

	WrongLengthMessage string
	TooShortMessage    string
	TooLongMessage     string
	BetweenMessage     string

	Field string
	Options

	// WordCount counts whitespace-separated words instead of characters.
	WordCount bool
}

// Default length messages.
const (
	DefaultWrongLengthMessage = "%s is the wrong length (should be %d %s)"
	DefaultTooShortMessage    = "%s must be more than %d %s"
	DefaultTooLongMessage     = "%s must be less than %d %s"
	DefaultBetweenMessage     = "%s must be between %d and %d %s"
)

func (r LengthOf) validate(v *Validator) {
	val, ok := v.prepare(r.Field, r.Options, true)
	if !ok {
		return
	}

	s := cast.ToString(val)
	n := utf8.RuneCountInString(s)
	if r.WordCount {
		n = len(strings.Fields(s))
	}
	label := v.Label(r.Field)

	if r.IsEqualTo != nil && n != *r.IsEqualTo {
		v.AddError(r.Field, sprintf(r.pick(r.WrongLengthMessage, DefaultWrongLengthMessage),
			label, *r.IsEqualTo, r.unit(*r.IsEqualTo)))
	}

	switch {
	case r.Minimum != nil && r.Maximum != nil:
		if n < *r.Minimum || n > *r.Maximum {
			v.AddError(r.Field, sprintf(r.pick(r.BetweenMessage, DefaultBetweenMessage),
				label, *r.Minimum, *r.Maximum, r.unit(*r.Maximum)))
		}
	case r.Minimum != nil:
		if n < *r.Minimum {
			v.AddError(r.Field, sprintf(r.pick(r.TooShortMessage, DefaultTooShortMessage),
				label, *r.Minimum, r.unit(*r.Minimum)))
		}
	case r.Maximum != nil:
		if n > *r.Maximum {
			v.AddError(r.Field, sprintf(r.pick(r.TooLongMessage, DefaultTooLongMessage),
				label, *r.Maximum, r.unit(*r.Maximum)))
		}
	}
}

func (r LengthOf) pick(specific, def string) string {
	if r.Message != "" {
		return r.Message
	}
	if specific != "" {
		return specific
	}
	return def
}

func (r LengthOf) unit(bound int) string {
	unit := "character"
	if r.WordCount {
		unit = "word"
	}
	if bound != 1 {
		unit += "s"
	}
	return unit
}
