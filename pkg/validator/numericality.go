package validator

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// NumericalityOf checks that a field is a number and optionally compares it
// against bounds. A non-numeric value produces a single error; the
// remaining checks each report independently.
type NumericalityOf struct {
	GreaterThan          *float64
	GreaterThanOrEqualTo *float64
	EqualTo              *float64
	LessThan             *float64
	LessThanOrEqualTo    *float64

	IntegerMessage              string
	GreaterThanMessage          string
	GreaterThanOrEqualToMessage string
	EqualToMessage              string
	LessThanMessage             string
	LessThanOrEqualToMessage    string

	Field string
	Options

	OnlyInteger bool
}

// Default numericality messages. Options.Message replaces the first one.
const (
	DefaultNotNumberMessage            = "%s is not a number"
	DefaultIntegerMessage              = "%s is not an integer"
	DefaultGreaterThanMessage          = "%s is not greater than %v"
	DefaultGreaterThanOrEqualToMessage = "%s is not greater than or equal to %v"
	DefaultEqualToMessage              = "%s is not equal to %v"
	DefaultLessThanMessage             = "%s is not less than %v"
	DefaultLessThanOrEqualToMessage    = "%s is not less than or equal to %v"
)

func (r NumericalityOf) validate(v *Validator) {
	val, ok := v.prepare(r.Field, r.Options, false)
	if !ok {
		return
	}

	label := v.Label(r.Field)
	num, ok := toNumber(val)
	if !ok {
		v.AddError(r.Field, sprintf(r.message(DefaultNotNumberMessage), label))
		return
	}

	if r.OnlyInteger && !isInteger(val) {
		v.AddError(r.Field, sprintf(or(r.IntegerMessage, DefaultIntegerMessage), label))
	}

	checks := []struct {
		bound *float64
		fails func(n, b float64) bool
		msg   string
		def   string
	}{
		{r.GreaterThan, func(n, b float64) bool { return n <= b }, r.GreaterThanMessage, DefaultGreaterThanMessage},
		{r.GreaterThanOrEqualTo, func(n, b float64) bool { return n < b }, r.GreaterThanOrEqualToMessage, DefaultGreaterThanOrEqualToMessage},
		{r.EqualTo, func(n, b float64) bool { return n != b }, r.EqualToMessage, DefaultEqualToMessage},
		{r.LessThan, func(n, b float64) bool { return n >= b }, r.LessThanMessage, DefaultLessThanMessage},
		{r.LessThanOrEqualTo, func(n, b float64) bool { return n > b }, r.LessThanOrEqualToMessage, DefaultLessThanOrEqualToMessage},
	}
	for _, c := range checks {
		if c.bound != nil && c.fails(num, *c.bound) {
			v.AddError(r.Field, sprintf(or(c.msg, c.def), label, boundArg(*c.bound)))
		}
	}
}

func or(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

// toNumber reports whether val is numeric and returns its value.
// Booleans are not numbers; numeric strings may carry leading whitespace.
func toNumber(val any) (float64, bool) {
	switch t := val.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimLeft(t, " \t\n\r\v\f")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}

	switch reflect.ValueOf(val).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
	default:
		return 0, false
	}

	f, err := cast.ToFloat64E(val)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isInteger(val any) bool {
	switch t := val.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return float64(t) == math.Trunc(float64(t))
	case float64:
		return t == math.Trunc(t)
	case string:
		_, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return err == nil
	default:
		return false
	}
}
