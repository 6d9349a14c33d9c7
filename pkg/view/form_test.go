package view_test

import (
	"bytes"
	"context"
	"html/template"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/llama/pkg/view"
)

var yesNo = []view.Pair{{Value: 1, Label: "Yes"}, {Value: 0, Label: "No"}}

func assertContainsAll(t *testing.T, out template.HTML, patterns ...string) {
	t.Helper()
	for _, p := range patterns {
		assert.Regexp(t, regexp.MustCompile(p), string(out))
	}
}

func TestFormRadio(t *testing.T) {
	t.Parallel()

	common := []string{
		`onchange="test\(\);"`,
		`type="radio"`,
		`name="test\[field\]"`,
		`id="test_field_1"`,
		`value="1"`,
		`Yes`,
		`id="test_field_0"`,
		`value="0"`,
		`No`,
	}

	t.Run("array of selected items", func(t *testing.T) {
		t.Parallel()

		out := view.FormRadio(yesNo, "test.field", view.Attrs{"onchange": "test();"}, []int{1})
		assertContainsAll(t, out, common...)
		assert.Contains(t, string(out), `id="test_field_1" name="test[field]" onchange="test();" type="radio" value="1"`)
		assert.Regexp(t, `checked="checked" id="test_field_1"`, string(out))
		assert.NotRegexp(t, `checked="checked" id="test_field_0"`, string(out))
	})

	t.Run("single selected item", func(t *testing.T) {
		t.Parallel()

		out := view.FormRadio(yesNo, "test.field", view.Attrs{"onchange": "test();"}, 0)
		assertContainsAll(t, out, common...)
		assert.Regexp(t, `checked="checked" id="test_field_0"`, string(out))
		assert.NotRegexp(t, `checked="checked" id="test_field_1"`, string(out))
	})

	t.Run("no selected items", func(t *testing.T) {
		t.Parallel()

		out := view.FormRadio(yesNo, "test.field", view.Attrs{"onchange": "test();"}, nil)
		assertContainsAll(t, out, common...)
		assert.NotContains(t, string(out), "checked")
	})

	t.Run("exact layout", func(t *testing.T) {
		t.Parallel()

		out := view.FormRadio([]view.Pair{{Value: "a", Label: "A"}}, "m.f", nil, "a")
		want := "<label class=\"radio\">\n" +
			"    <input checked=\"checked\" id=\"m_f_a\" name=\"m[f]\" type=\"radio\" value=\"a\"> A\n" +
			"</label>\n"
		assert.Equal(t, want, string(out))
	})

	t.Run("attrs are not mutated", func(t *testing.T) {
		t.Parallel()

		attrs := view.Attrs{"class": "inline"}
		_ = view.FormRadio(yesNo, "test.field", attrs, nil)
		assert.Equal(t, view.Attrs{"class": "inline"}, attrs)
	})
}

func TestFormDropdown(t *testing.T) {
	t.Parallel()

	t.Run("label map with initial label", func(t *testing.T) {
		t.Parallel()

		out := view.FormDropdown(map[string]string{"b": "Bravo", "a": "Alpha"}, "post.category", nil, nil, "Choose")
		want := `<select id="post_category" name="post[category]">` +
			`<option selected="selected" value="">Choose</option>` +
			`<option value="a">Alpha</option>` +
			`<option value="b">Bravo</option>` +
			`</select>`
		assert.Equal(t, want, string(out))
	})

	t.Run("record list with default", func(t *testing.T) {
		t.Parallel()

		options := []view.Option{{ID: 1, Name: "News"}, {ID: 2, Name: "Tech"}}
		out := view.FormDropdown(options, "post.category_id", "2", view.Attrs{"class": "form"}, "Choose")
		want := `<select class="form" id="post_category_id" name="post[category_id]">` +
			`<option value="">Choose</option>` +
			`<option value="1">News</option>` +
			`<option selected="selected" value="2">Tech</option>` +
			`</select>`
		assert.Equal(t, want, string(out))
	})

	t.Run("no entity and no options", func(t *testing.T) {
		t.Parallel()

		out := view.FormDropdown(nil, "", nil, view.Attrs{"name": "q"})
		assert.Equal(t, `<select name="q"></select>`, string(out))
	})

	t.Run("escapes values and strips label markup", func(t *testing.T) {
		t.Parallel()

		options := []view.Pair{{Value: `"x"`, Label: "<b>Tom & Jerry</b>"}}
		out := view.FormDropdown(options, "", nil, nil)
		assert.Equal(t, `<select><option value="&#34;x&#34;">Tom &amp; Jerry</option></select>`, string(out))
	})

	t.Run("indexed string list", func(t *testing.T) {
		t.Parallel()

		out := view.FormDropdown([]string{"Draft", "Published"}, "", 1, nil)
		assert.Contains(t, string(out), `<option selected="selected" value="1">Published</option>`)
	})
}

type record map[string]any

func (r record) Field(name string) any { return r[name] }

func TestOptionsOf(t *testing.T) {
	t.Parallel()

	records := []record{{"id": 3, "name": "Go"}, {"id": 4, "name": "SQL"}}
	seq := func(yield func(int, record) bool) {
		for i, r := range records {
			if !yield(i, r) {
				return
			}
		}
	}

	assert.Equal(t, []view.Option{{ID: 3, Name: "Go"}, {ID: 4, Name: "SQL"}}, view.OptionsOf(seq))
}

func TestAttributes(t *testing.T) {
	t.Parallel()

	assert.Empty(t, view.Attributes(nil))
	assert.Equal(t, ` a="1" b="&lt;x&gt;"`, view.Attributes(view.Attrs{"b": "<x>", "a": "1"}))
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	out, err := view.Markdown("# Title\n\nSome *text*.\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h1")
	assert.Contains(t, string(out), "Title</h1>")
	assert.Contains(t, string(out), "<em>text</em>")
	assert.NotContains(t, string(out), "<script>")
}

func TestComponents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, view.Radio(yesNo, "test.field", nil, 1).Render(context.Background(), &buf))
	assert.Equal(t, string(view.FormRadio(yesNo, "test.field", nil, 1)), buf.String())

	buf.Reset()
	require.NoError(t, view.Dropdown(yesNo, "test.field", 0, nil).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `<option selected="selected" value="0">No</option>`)

	buf.Reset()
	require.NoError(t, view.MarkdownBlock("**bold**").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "<strong>bold</strong>")
}

func TestFuncMap(t *testing.T) {
	t.Parallel()

	tmpl := template.Must(template.New("form").Funcs(view.FuncMap()).Parse(
		`{{ formDropdown .Options "post.status" .Status (attrs "class" "wide") }}`,
	))

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, map[string]any{
		"Options": []view.Pair{{Value: "draft", Label: "Draft"}},
		"Status":  "draft",
	}))
	assert.Equal(t,
		`<select class="wide" id="post_status" name="post[status]"><option selected="selected" value="draft">Draft</option></select>`,
		buf.String(),
	)
}
