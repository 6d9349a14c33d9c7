package errorhandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/llama/pkg/errorhandler"
)

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		severity errorhandler.Severity
		level    slog.Level
		fatal    bool
	}{
		{name: "notice", severity: errorhandler.SeverityNotice, level: slog.LevelInfo},
		{name: "deprecated", severity: errorhandler.SeverityDeprecated, level: slog.LevelWarn},
		{name: "warning", severity: errorhandler.SeverityWarning, level: slog.LevelWarn},
		{name: "error", severity: errorhandler.SeverityError, level: slog.LevelError, fatal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.name, tt.severity.String())
			assert.Equal(t, tt.level, tt.severity.Level())
			assert.Equal(t, tt.fatal, tt.severity.Fatal())
		})
	}
}

func TestHandler_Capture(t *testing.T) {
	t.Parallel()

	t.Run("notice continues", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fatal := 0
		h := errorhandler.New(jsonLogger(&buf), func(context.Context, error) { fatal++ })

		assert.True(t, h.Capture(context.Background(), errorhandler.SeverityNotice, errors.New("just so you know")))
		assert.Zero(t, fatal)

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "INFO", entries[0]["level"])
		assert.Equal(t, "just so you know", entries[0]["msg"])
		assert.Equal(t, "notice", entries[0]["severity"])
	})

	t.Run("error is fatal", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var got error
		h := errorhandler.New(jsonLogger(&buf), func(_ context.Context, err error) { got = err })

		errTest := errors.New("this is a test")
		h.Capture(context.Background(), errorhandler.SeverityError, errTest)

		require.ErrorIs(t, got, errTest)
		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "ERROR", entries[0]["level"])
	})

	t.Run("location and extract", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := errorhandler.New(jsonLogger(&buf), nil)

		err := errorhandler.NewError(errorhandler.SeverityWarning, errors.New("careful"))
		h.Capture(context.Background(), err.Severity, err)

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "WARN", entries[0]["level"])
		assert.True(t, strings.HasSuffix(entries[0]["file"].(string), "handler_test.go"))
		assert.Contains(t, entries[0]["extract"], `<span style="color: #C00; font-weight: bold;">`)
		assert.Contains(t, entries[0]["extract"], "errorhandler.NewError")
	})

	t.Run("filtered severity", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := errorhandler.New(jsonLogger(&buf), nil, errorhandler.WithSeverities(errorhandler.SeverityError))

		assert.False(t, h.Capture(context.Background(), errorhandler.SeverityNotice, errors.New("quiet")))
		assert.Empty(t, buf.String())
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()

		h := errorhandler.New(nil, nil)
		assert.False(t, h.Capture(context.Background(), errorhandler.SeverityError, nil))
	})
}

func TestHandler_Recover(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var got error
	h := errorhandler.New(jsonLogger(&buf), func(_ context.Context, err error) { got = err }, errorhandler.WithoutExtract())

	func() {
		defer h.Recover(context.Background())
		panic("boom")
	}()

	pe, ok := errorhandler.AsPanicError(got)
	require.True(t, ok)
	assert.Equal(t, "boom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.True(t, errorhandler.IsPanicError(got))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "panic: boom", entries[0]["msg"])
	assert.Contains(t, entries[0], "stack")
}

// Install mutates process-wide logging state, so this test is not parallel.
func TestInstall(t *testing.T) {
	before := slog.Default()
	beforeOut := log.Writer()

	var buf bytes.Buffer
	h := errorhandler.Install(jsonLogger(&buf), nil)
	assert.Same(t, h.Logger(), slog.Default())

	log.Print("through the standard logger")
	assert.Contains(t, buf.String(), "through the standard logger")

	h.Release()
	h.Release()

	assert.Same(t, before, slog.Default())
	assert.Equal(t, beforeOut, log.Writer())
}
