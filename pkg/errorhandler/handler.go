package errorhandler

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/dmitrymomot/llama/pkg/logger"
)

// FatalFunc is called after an error-class diagnostic has been logged.
type FatalFunc func(ctx context.Context, err error)

// Option configures a Handler.
type Option func(*Handler)

// WithSeverities restricts capturing to the given severities.
func WithSeverities(severities ...Severity) Option {
	return func(h *Handler) {
		h.severities = make(map[Severity]bool, len(severities))
		for _, s := range severities {
			h.severities[s] = true
		}
	}
}

// WithoutExtract disables source extracts in captured records.
func WithoutExtract() Option {
	return func(h *Handler) {
		h.noExtract = true
	}
}

// Handler logs diagnostics and runs the fatal callback for errors.
type Handler struct {
	logger     *slog.Logger
	onFatal    FatalFunc
	severities map[Severity]bool
	noExtract  bool

	mu        sync.Mutex
	installed bool
	prev      *slog.Logger
	logOut    io.Writer
	logFlags  int
	logPrefix string
}

// New creates a handler without touching process-wide state.
func New(l *slog.Logger, onFatal FatalFunc, opts ...Option) *Handler {
	if l == nil {
		l = logger.NewNope()
	}
	h := &Handler{logger: l, onFatal: onFatal}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Install creates a handler and makes its logger the process default until
// Release is called.
func Install(l *slog.Logger, onFatal FatalFunc, opts ...Option) *Handler {
	h := New(l, onFatal, opts...)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.prev = slog.Default()
	h.logOut = log.Writer()
	h.logFlags = log.Flags()
	h.logPrefix = log.Prefix()
	slog.SetDefault(h.logger)
	h.installed = true

	return h
}

// Release restores the default logger and standard log output captured by
// Install. It is safe to call more than once.
func (h *Handler) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.installed {
		return
	}
	slog.SetDefault(h.prev)
	log.SetOutput(h.logOut)
	log.SetFlags(h.logFlags)
	log.SetPrefix(h.logPrefix)
	h.installed = false
}

// Logger returns the handler's logger.
func (h *Handler) Logger() *slog.Logger { return h.logger }

// Captures reports whether severity is handled.
func (h *Handler) Captures(severity Severity) bool {
	return h.severities == nil || h.severities[severity]
}

// Capture logs err with the given severity and calls the fatal callback for
// error-class severities. It reports whether err was handled.
func (h *Handler) Capture(ctx context.Context, severity Severity, err error) bool {
	if err == nil || !h.Captures(severity) {
		return false
	}

	attrs := []slog.Attr{slog.String("severity", severity.String())}

	file, line := location(err)
	if file != "" {
		attrs = append(attrs, slog.String("file", file), slog.Int("line", line))
		if !h.noExtract {
			if extract, xerr := CodeExtract(file, line); xerr == nil {
				attrs = append(attrs, slog.String("extract", extract))
			}
		}
	}

	var pe *PanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		attrs = append(attrs, slog.String("stack", string(pe.Stack)))
	}

	h.logger.LogAttrs(ctx, severity.Level(), err.Error(), attrs...)

	if severity.Fatal() && h.onFatal != nil {
		h.onFatal(ctx, err)
	}
	return true
}

// Recover captures a panic in progress as a SeverityError PanicError.
// It must be called directly by a deferred statement.
func (h *Handler) Recover(ctx context.Context) {
	if r := recover(); r != nil {
		h.Capture(ctx, SeverityError, &PanicError{Value: r, Stack: debug.Stack()})
	}
}

func location(err error) (string, int) {
	var e *Error
	if errors.As(err, &e) && e.File != "" {
		return e.File, e.Line
	}
	return "", 0
}
