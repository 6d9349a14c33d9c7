package view

import "errors"

// ErrMarkdown is returned when a markdown document cannot be rendered.
var ErrMarkdown = errors.New("view: failed to render markdown")
