package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/llama/pkg/logger"
)

type ctxKey struct{}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "trace", want: logger.LevelTrace},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: " fatal ", want: logger.LevelFatal},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := logger.ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, logger.ErrUnknownLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("json with custom levels", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log, err := logger.NewFromConfig(logger.Config{Level: "trace"}, &buf, requestIDExtractor)
		require.NoError(t, err)

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.Log(ctx, logger.LevelTrace, "tracing")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "TRACE", entry["level"])
		assert.Equal(t, "tracing", entry["msg"])
		assert.Equal(t, "req-1", entry["request_id"])
	})

	t.Run("text respects level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log, err := logger.NewFromConfig(logger.Config{Level: "warning", Format: "text"}, &buf)
		require.NoError(t, err)

		log.Info("hidden")
		log.Log(context.Background(), logger.LevelFatal, "shown")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "level=FATAL")
		assert.Contains(t, out, "msg=shown")
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := logger.NewFromConfig(logger.Config{Format: "xml"}, nil)
		require.ErrorIs(t, err, logger.ErrUnknownFormat)
	})

	t.Run("unknown level", func(t *testing.T) {
		t.Parallel()

		_, err := logger.NewFromConfig(logger.Config{Level: "chatty"}, nil)
		require.ErrorIs(t, err, logger.ErrUnknownLevel)
	})
}

type recordingInserter struct {
	rows   []map[string]any
	tables []string
	mu     sync.Mutex
}

func (r *recordingInserter) InsertEvent(_ context.Context, table string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables = append(r.tables, table)
	r.rows = append(r.rows, fields)
	return nil
}

func TestDatabaseHandler(t *testing.T) {
	t.Parallel()

	t.Run("writes rows", func(t *testing.T) {
		t.Parallel()

		ins := &recordingInserter{}
		log := slog.New(logger.NewDatabaseHandler(ins, "log_events"))

		log.With(slog.String("component", "test")).Warn("disk almost full", slog.String("code", "E42"), slog.Int("free", 3))
		log.Debug("ignored")

		require.Len(t, ins.rows, 1)
		assert.Equal(t, []string{"log_events"}, ins.tables)

		row := ins.rows[0]
		assert.Equal(t, "WARN", row["level"])
		assert.Equal(t, "disk almost full", row["message"])
		assert.Equal(t, "E42", row["code"])
		assert.True(t, strings.HasSuffix(row["file"].(string), "logger_test.go"))
		assert.Positive(t, row["line"])

		var attrs map[string]any
		require.NoError(t, json.Unmarshal([]byte(row["attrs"].(string)), &attrs))
		assert.Equal(t, "test", attrs["component"])
		assert.EqualValues(t, 3, attrs["free"])
	})

	t.Run("min level", func(t *testing.T) {
		t.Parallel()

		ins := &recordingInserter{}
		log := slog.New(logger.NewDatabaseHandler(ins, "log_events", logger.WithMinLevel(slog.LevelError)))
		log.Warn("skipped")
		log.Error("kept")

		require.Len(t, ins.rows, 1)
		assert.Equal(t, "kept", ins.rows[0]["message"])
	})

	t.Run("values stored as text", func(t *testing.T) {
		t.Parallel()

		ins := &recordingInserter{}
		log := slog.New(logger.NewDatabaseHandler(ins, "log_events"))
		log.Error("request failed",
			slog.Any("error", errors.New("db: connection refused")),
			slog.Group("request", slog.String("path", "/post/1"), slog.Int("status", 500)),
			slog.Group("empty"),
		)

		require.Len(t, ins.rows, 1)
		var attrs map[string]any
		require.NoError(t, json.Unmarshal([]byte(ins.rows[0]["attrs"].(string)), &attrs))
		assert.Equal(t, "db: connection refused", attrs["error"])
		assert.Equal(t, map[string]any{"path": "/post/1", "status": float64(500)}, attrs["request"])
		assert.NotContains(t, attrs, "empty")
	})

	t.Run("groups keep earlier attrs outside", func(t *testing.T) {
		t.Parallel()

		ins := &recordingInserter{}
		log := slog.New(logger.NewDatabaseHandler(ins, "log_events")).
			With(slog.String("component", "blog"), slog.String("code", "E7")).
			WithGroup("http").
			With(slog.String("method", "POST")).
			WithGroup("form")
		log.Info("rejected", slog.String("field", "title"))

		require.Len(t, ins.rows, 1)
		row := ins.rows[0]
		assert.Equal(t, "E7", row["code"])

		var attrs map[string]any
		require.NoError(t, json.Unmarshal([]byte(row["attrs"].(string)), &attrs))
		assert.Equal(t, map[string]any{
			"component": "blog",
			"http": map[string]any{
				"method": "POST",
				"form":   map[string]any{"field": "title"},
			},
		}, attrs)
	})

	t.Run("empty group is dropped", func(t *testing.T) {
		t.Parallel()

		ins := &recordingInserter{}
		slog.New(logger.NewDatabaseHandler(ins, "log_events")).
			With(slog.String("component", "blog")).
			WithGroup("http").
			Info("no attrs")

		require.Len(t, ins.rows, 1)
		assert.JSONEq(t, `{"component":"blog"}`, ins.rows[0]["attrs"].(string))
	})

	t.Run("re-entrant records dropped", func(t *testing.T) {
		t.Parallel()

		var log *slog.Logger
		calls := 0
		ins := logger.InserterFunc(func(ctx context.Context, _ string, _ map[string]any) error {
			calls++
			log.InfoContext(ctx, "from inside the inserter")
			return nil
		})
		log = slog.New(logger.NewDatabaseHandler(ins, "log_events"))

		log.Info("outer")
		assert.Equal(t, 1, calls)
	})
}

func TestTee(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	ins := &recordingInserter{}

	log := logger.Tee(base, logger.NewDatabaseHandler(ins, "events"))
	log.Info("both")

	assert.Contains(t, buf.String(), "msg=both")
	require.Len(t, ins.rows, 1)

	assert.Same(t, base, logger.Tee(base))
}

func TestTee_FailingAppender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	failing := logger.InserterFunc(func(context.Context, string, map[string]any) error {
		return errors.New("disk full")
	})
	ins := &recordingInserter{}

	log := logger.Tee(slog.New(slog.NewTextHandler(&buf, nil)),
		logger.NewDatabaseHandler(failing, "events"),
		logger.NewDatabaseHandler(ins, "events"),
	)

	err := log.Handler().Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "kept", 0))
	require.ErrorContains(t, err, "disk full")
	assert.Contains(t, buf.String(), "msg=kept")
	assert.Len(t, ins.rows, 1)
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	ins := &recordingInserter{}
	slog.New(logger.NewDatabaseHandler(ins, "events", logger.WithMinLevel(logger.LevelTrace))).
		Log(context.Background(), logger.LevelTrace, "deep")

	require.Len(t, ins.rows, 1)
	assert.Equal(t, "TRACE", ins.rows[0]["level"])
	assert.Equal(t, "{}", ins.rows[0]["attrs"])
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.NotNil(t, log)
	log.Error("discarded")
}
