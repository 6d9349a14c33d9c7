package view

import (
	"bytes"
	"errors"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown       = goldmark.New(goldmark.WithExtensions(extension.GFM))
	markdownPolicy = bluemonday.UGCPolicy()
)

// Markdown converts CommonMark (with GitHub extensions) to sanitized HTML.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", errors.Join(ErrMarkdown, err)
	}
	return template.HTML(markdownPolicy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized
}
