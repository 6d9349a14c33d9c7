// Package middlewares provides request middleware for llama applications.
//
// # Request ID
//
// RequestID assigns an ID to each request. An ID sent by an upstream proxy
// in X-Request-ID or X-Correlation-ID is kept; otherwise a UUID is generated.
//
//	app := llama.New(
//	    llama.WithLogger("blog", middlewares.RequestIDExtractor()),
//	    llama.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover turns a panic into a PanicError handed to the application's
// ErrorHandler. With WithRecoverHandler the panic is reported through an
// errorhandler.Handler instead of the request logger:
//
//	h := errorhandler.New(app.Logger(), nil)
//	llama.WithMiddleware(middlewares.Recover(middlewares.WithRecoverHandler(h)))
//
// # Locale
//
// Locale selects the request locale from the bundle built from [locale].
// Register it from a module's Bootstrap so the bundle exists:
//
//	func (m *Module) Bootstrap(b *llama.Bootstrap) error {
//	    b.Use(middlewares.Locale(b.Locales()))
//	    ...
//	}
//
// # Order
//
// Put RequestID first so that every later log entry carries the ID, then
// Recover so panics in other middleware are caught too.
package middlewares
