package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
)

// Inserter stores one row in a table.
type Inserter interface {
	InsertEvent(ctx context.Context, table string, fields map[string]any) error
}

// InserterFunc adapts a function to the Inserter interface.
type InserterFunc func(ctx context.Context, table string, fields map[string]any) error

// InsertEvent calls f.
func (f InserterFunc) InsertEvent(ctx context.Context, table string, fields map[string]any) error {
	return f(ctx, table, fields)
}

// DatabaseOption configures a DatabaseHandler.
type DatabaseOption func(*DatabaseHandler)

// WithMinLevel sets the lowest level written to the table. The default is info.
func WithMinLevel(level slog.Level) DatabaseOption {
	return func(h *DatabaseHandler) {
		h.level = level
	}
}

type appendingKey struct{}

// DatabaseHandler is a slog.Handler that writes one row per record.
// Columns are level, message, code, file, line, attrs (JSON) and created_at.
// Records logged while a row is being written are dropped, so the
// database layer may share the logger.
type DatabaseHandler struct {
	inserter Inserter
	mu       *sync.Mutex
	table    string
	scopes   []scope
	level    slog.Level
}

// NewDatabaseHandler creates a handler writing to table through inserter.
func NewDatabaseHandler(inserter Inserter, table string, opts ...DatabaseOption) *DatabaseHandler {
	h := &DatabaseHandler{
		inserter: inserter,
		mu:       &sync.Mutex{},
		table:    table,
		scopes:   []scope{{}},
		level:    slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *DatabaseHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level && ctx.Value(appendingKey{}) == nil
}

// Handle inserts the record. Inserts are serialised.
func (h *DatabaseHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx.Value(appendingKey{}) != nil {
		return nil
	}

	e := newEvent(rec, h.scopes)

	attrs := "{}"
	if len(e.Attrs) > 0 {
		if b, err := json.Marshal(e.Attrs); err == nil {
			attrs = string(b)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.inserter.InsertEvent(context.WithValue(ctx, appendingKey{}, true), h.table, map[string]any{
		"level":      e.LevelName(),
		"message":    e.Message,
		"code":       e.Code,
		"file":       e.File,
		"line":       e.Line,
		"attrs":      attrs,
		"created_at": e.Time.UTC(),
	})
}

func (h *DatabaseHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := *h
	c.scopes = slices.Clone(h.scopes)
	last := &c.scopes[len(c.scopes)-1]
	last.attrs = slices.Concat(last.attrs, attrs)
	return &c
}

// WithGroup opens a group. Attributes attached earlier stay where they were.
func (h *DatabaseHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.scopes = append(slices.Clone(h.scopes), scope{group: name})
	return &c
}
