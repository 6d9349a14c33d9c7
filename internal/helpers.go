package internal

import (
	"reflect"
	"strconv"
)

// ParamType lists the types route and query values convert to. Named types
// such as `type PostID int64` convert by their underlying kind.
type ParamType interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the request-scoped value stored under key, or the
// zero value of T when it is missing or of another type.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param returns a route parameter converted to T.
// Values that do not convert yield the zero value.
func Param[T ParamType](c Context, name string) T {
	v, _ := convertParam[T](c.Param(name))
	return v
}

func Query[T ParamType](c Context, name string) T {
	v, _ := convertParam[T](c.Query(name))
	return v
}

// QueryDefault returns defaultValue when the parameter is empty or does not
// convert.
func QueryDefault[T ParamType](c Context, name string, defaultValue T) T {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	if v, ok := convertParam[T](raw); ok {
		return v
	}
	return defaultValue
}

// convertParam parses raw by the kind of T. Integers are always base 10.
func convertParam[T ParamType](raw string) (T, bool) {
	var out T
	v := reflect.ValueOf(&out).Elem()

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return out, false
		}
		v.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, false
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, false
		}
		v.SetBool(b)
	default:
		return out, false
	}
	return out, true
}
