package logger

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// Event is a flattened log record, as stored by appenders.
type Event struct {
	Time    time.Time
	Attrs   map[string]any
	Message string
	Code    string
	File    string
	Line    int
	Level   slog.Level
}

// NewEvent builds an Event from a slog record. A top-level "code"
// attribute becomes Event.Code; the call site is resolved from the
// record's program counter. Errors and fmt.Stringer values are stored as
// their text and groups as nested maps, so Attrs always marshals to JSON
// that keeps what was logged.
func NewEvent(rec slog.Record) Event {
	return newEvent(rec, nil)
}

// scope is one level of a handler: the group opened by WithGroup and the
// attributes attached with WithAttrs while that group was innermost.
// The root scope has no group.
type scope struct {
	group string
	attrs []slog.Attr
}

func newEvent(rec slog.Record, scopes []scope) Event {
	e := Event{
		Time:    rec.Time,
		Level:   rec.Level,
		Message: rec.Message,
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	if rec.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{rec.PC})
		f, _ := frames.Next()
		e.File = f.File
		e.Line = f.Line
	}

	attrs := make(map[string]any, rec.NumAttrs())
	last := len(scopes) - 1
	if last >= 0 {
		addAttrs(attrs, scopes[last].attrs...)
	}
	rec.Attrs(func(a slog.Attr) bool {
		addAttrs(attrs, a)
		return true
	})

	for i := last; i > 0; i-- {
		parent := make(map[string]any, len(scopes[i-1].attrs)+1)
		addAttrs(parent, scopes[i-1].attrs...)
		if len(attrs) > 0 {
			parent[scopes[i].group] = attrs
		}
		attrs = parent
	}

	if code, ok := attrs["code"]; ok {
		e.Code = fmt.Sprint(code)
		delete(attrs, "code")
	}
	e.Attrs = attrs
	return e
}

// addAttrs stores attrs in m the way slog's handlers render them: empty
// attributes and empty groups are dropped, groups without a key are
// inlined.
func addAttrs(m map[string]any, attrs ...slog.Attr) {
	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			continue
		}
		if a.Value.Kind() != slog.KindGroup {
			m[a.Key] = plainValue(a.Value)
			continue
		}

		members := a.Value.Group()
		if len(members) == 0 {
			continue
		}
		if a.Key == "" {
			addAttrs(m, members...)
			continue
		}
		sub := make(map[string]any, len(members))
		addAttrs(sub, members...)
		m[a.Key] = sub
	}
}

func plainValue(v slog.Value) any {
	if v.Kind() != slog.KindAny {
		return v.Any()
	}
	switch x := v.Any().(type) {
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return x
	}
}

// LevelName returns the event level's display name.
func (e Event) LevelName() string {
	return LevelName(e.Level)
}
