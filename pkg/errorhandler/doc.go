// Package errorhandler routes runtime diagnostics to a logger and stops the
// request on fatal conditions.
//
// Diagnostics are classified by [Severity]. Notices are logged at info,
// deprecations and warnings at warn, and errors at error level; errors also
// invoke the fatal callback given at construction.
//
// # Scoped installation
//
// Install swaps the process-wide slog default (and with it the output of the
// standard log package) for the handler's logger. Release restores both:
//
//	h := errorhandler.Install(log, func(ctx context.Context, err error) {
//		// stop the request, render a 500
//	})
//	defer h.Release()
//
// Prefer New and pass the handler explicitly when no global state needs to
// change.
//
// # Panics
//
// Recover must be deferred directly:
//
//	defer h.Recover(ctx)
//
// It turns the panic into a [PanicError] captured with SeverityError.
//
// # Code extracts
//
// Captured errors that carry a location get an HTML extract of the
// surrounding source lines, produced by [CodeExtract].
package errorhandler
