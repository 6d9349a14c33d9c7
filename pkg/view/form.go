package view

import (
	"html/template"
	"slices"
	"strings"
)

// FormDropdown renders a <select> element.
//
// options is a []Option, a []Pair, a []string (indexed values) or a
// map[string]string / map[int]string rendered in key order. entity is a
// "model.field" path that sets name="model[field]" and id="model_field".
// The option whose value equals def is selected. When initialLabel is
// given, a leading option with an empty value is rendered and selected
// while def is nil.
func FormDropdown(options any, entity string, def any, attrs Attrs, initialLabel ...string) template.HTML {
	attrs = entityAttrs(attrs, entity)

	var b strings.Builder
	b.WriteString("<select")
	b.WriteString(Attributes(attrs))
	b.WriteString(">")

	if len(initialLabel) > 0 {
		opt := Attrs{"value": ""}
		if def == nil {
			opt["selected"] = "selected"
		}
		writeOption(&b, opt, initialLabel[0])
	}

	for _, p := range pairs(options) {
		opt := Attrs{"value": valueString(p.Value)}
		if same(def, p.Value) {
			opt["selected"] = "selected"
		}
		writeOption(&b, opt, p.Label)
	}

	b.WriteString("</select>")
	return template.HTML(b.String()) //nolint:gosec // attributes and labels are escaped
}

func writeOption(b *strings.Builder, attrs Attrs, label string) {
	b.WriteString("<option")
	b.WriteString(Attributes(attrs))
	b.WriteString(">")
	b.WriteString(Label(label))
	b.WriteString("</option>")
}

// FormRadio renders one labelled radio input per item.
//
// items accepts the same containers as FormDropdown. Each input gets
// type="radio", its value and an id of "<id>_<value>". Inputs whose value
// is in selected are checked; a scalar selected is a list of one.
func FormRadio(items any, entity string, attrs Attrs, selected any) template.HTML {
	attrs = entityAttrs(attrs, entity)
	attrs["type"] = "radio"
	baseID := attrs["id"]
	chosen := list(selected)

	var b strings.Builder
	for _, p := range pairs(items) {
		input := Attrs{}
		for k, v := range attrs {
			input[k] = v
		}
		value := valueString(p.Value)
		input["value"] = value
		input["id"] = baseID + "_" + value
		if slices.ContainsFunc(chosen, func(c any) bool { return same(c, p.Value) }) {
			input["checked"] = "checked"
		}

		b.WriteString("<label class=\"radio\">\n    <input")
		b.WriteString(Attributes(input))
		b.WriteString("> ")
		b.WriteString(Label(p.Label))
		b.WriteString("\n</label>\n")
	}

	return template.HTML(b.String()) //nolint:gosec // attributes and labels are escaped
}
