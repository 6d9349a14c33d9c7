package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/llama/internal"
	"github.com/dmitrymomot/llama/pkg/errorhandler"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	// Handler captures the panic instead of the request logger.
	Handler           *errorhandler.Handler
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

// WithRecoverDisablePrintStack disables including stack trace in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// WithRecoverHandler reports panics through h at error severity, so its
// fatal callback runs for every recovered panic.
func WithRecoverHandler(h *errorhandler.Handler) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.Handler = h
	}
}

// Recover returns middleware that recovers from panics.
// The panic is logged and returned as a PanicError for the application's
// ErrorHandler, which answers 500 by default.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				var stack []byte
				if !cfg.DisablePrintStack {
					stack = make([]byte, cfg.StackSize)
					n := runtime.Stack(stack, false)
					stack = stack[:n]
				}

				pe := &PanicError{Value: r, Stack: stack}
				err = pe

				if cfg.Handler != nil {
					cfg.Handler.Capture(c, errorhandler.SeverityError, pe)
					return
				}
				if cfg.DisablePrintStack {
					c.LogError("panic recovered", "panic", r)
				} else {
					c.LogError("panic recovered", "panic", r, "stack", string(stack))
				}
			}()

			return next(c)
		}
	}
}
