package view

import (
	"iter"
	"maps"
	"reflect"
	"slices"

	"github.com/spf13/cast"
)

// Option is an {id, name} entry, the shape of a record list.
type Option struct {
	ID   any
	Name string
}

// Pair is one entry of an ordered value/label list.
type Pair struct {
	Value any
	Label string
}

// Fielder is anything that exposes named fields, such as a model record.
type Fielder interface {
	Field(name string) any
}

// OptionsOf builds an option list from the "id" and "name" fields of each
// record in seq.
func OptionsOf[F Fielder](seq iter.Seq2[int, F]) []Option {
	var out []Option
	for _, rec := range seq {
		out = append(out, Option{ID: rec.Field("id"), Name: cast.ToString(rec.Field("name"))})
	}
	return out
}

// pairs normalizes the supported option containers to an ordered list.
// Maps are rendered in key order.
func pairs(options any) []Pair {
	switch o := options.(type) {
	case nil:
		return nil
	case []Pair:
		return o
	case []Option:
		out := make([]Pair, len(o))
		for i, opt := range o {
			out[i] = Pair{Value: opt.ID, Label: opt.Name}
		}
		return out
	case map[string]string:
		out := make([]Pair, 0, len(o))
		for _, k := range slices.Sorted(maps.Keys(o)) {
			out = append(out, Pair{Value: k, Label: o[k]})
		}
		return out
	case map[int]string:
		out := make([]Pair, 0, len(o))
		for _, k := range slices.Sorted(maps.Keys(o)) {
			out = append(out, Pair{Value: k, Label: o[k]})
		}
		return out
	case []string:
		out := make([]Pair, len(o))
		for i, s := range o {
			out[i] = Pair{Value: i, Label: s}
		}
		return out
	default:
		return nil
	}
}

// valueString renders an option value the way it appears in HTML.
func valueString(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}

// same compares two values loosely through their string form.
// A nil value matches nothing.
func same(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	return valueString(a) == valueString(b)
}

// list turns a scalar into a one-element list and keeps slices as they are.
func list(v any) []any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
