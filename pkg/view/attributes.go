package view

import (
	"html"
	"maps"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Attrs holds HTML attributes for an element.
type Attrs map[string]string

var labelPolicy = bluemonday.StrictPolicy()

// Attributes renders attrs as ` key="value"` pairs in key order.
// Values are HTML-escaped.
func Attributes(attrs Attrs) string {
	if len(attrs) == 0 {
		return ""
	}

	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attrs[k]))
		b.WriteByte('"')
	}
	return b.String()
}

// Label strips every tag from s and escapes the remaining text.
func Label(s string) string {
	return labelPolicy.Sanitize(s)
}

// entityAttrs sets name="model[field]" and id="model_field" for an
// "model.field" entity path.
func entityAttrs(attrs Attrs, entity string) Attrs {
	out := maps.Clone(attrs)
	if out == nil {
		out = Attrs{}
	}
	if entity == "" {
		return out
	}

	model, field, _ := strings.Cut(entity, ".")
	out["name"] = model + "[" + field + "]"
	out["id"] = model + "_" + field
	return out
}
