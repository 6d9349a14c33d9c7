package view

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// Dropdown wraps FormDropdown as a templ component.
func Dropdown(options any, entity string, def any, attrs Attrs, initialLabel ...string) templ.Component {
	return htmlComponent(FormDropdown(options, entity, def, attrs, initialLabel...))
}

// Radio wraps FormRadio as a templ component.
func Radio(items any, entity string, attrs Attrs, selected any) templ.Component {
	return htmlComponent(FormRadio(items, entity, attrs, selected))
}

// MarkdownBlock renders src through Markdown as a templ component.
func MarkdownBlock(src string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out, err := Markdown(src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, string(out))
		return err
	})
}

func htmlComponent(h template.HTML) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, string(h))
		return err
	})
}

// FuncMap exposes the helpers to html/template as formDropdown, formRadio,
// markdown and attrs.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formDropdown": FormDropdown,
		"formRadio":    FormRadio,
		"markdown":     Markdown,
		"attrs": func(kv ...string) Attrs {
			a := Attrs{}
			for i := 0; i+1 < len(kv); i += 2 {
				a[kv[i]] = kv[i+1]
			}
			return a
		},
	}
}
