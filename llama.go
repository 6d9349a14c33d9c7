package llama

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/llama/internal"
	"github.com/dmitrymomot/llama/pkg/config"
	"github.com/dmitrymomot/llama/pkg/db"
	"github.com/dmitrymomot/llama/pkg/health"
	"github.com/dmitrymomot/llama/pkg/logger"
	"github.com/dmitrymomot/llama/pkg/router"
	"github.com/dmitrymomot/llama/pkg/session"
)

// Type aliases - public API
type (
	// App is a configured application: configuration, the bootstrapped
	// module, and the route table.
	App = internal.App

	// Bootstrap is handed to a module during Init to register controllers,
	// routes and middleware.
	Bootstrap = internal.Bootstrap

	// Module bootstraps one application module.
	Module = internal.Module

	// ModuleFunc adapts a function to Module.
	ModuleFunc = internal.ModuleFunc

	// Controller exposes named actions.
	Controller = internal.Controller

	// ControllerFactory builds a controller on first dispatch.
	ControllerFactory = internal.ControllerFactory

	// BeforeFilter runs before every action of a controller.
	BeforeFilter = internal.BeforeFilter

	// AfterFilter runs after every action of a controller.
	AfterFilter = internal.AfterFilter

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// HandlerFunc is the signature for actions.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from actions.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// Component is the interface for renderable templates.
	Component = internal.Component

	// Settings are the runtime values of the [settings] section.
	Settings = internal.Settings

	// RouteInfo describes a registered route.
	RouteInfo = internal.RouteInfo

	// Resolution is the outcome of resolving one URI.
	Resolution = internal.Resolution

	// Target is the controller, action and default params of a route.
	Target = router.Target

	// Constraints maps route tokens to regular expressions.
	Constraints = router.Constraints

	// HTTPError is an error carrying an HTTP status code.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// ResponseWriter wraps http.ResponseWriter with pre-write hooks.
	ResponseWriter = internal.ResponseWriter
)

// DefaultEnvironment is the configuration section loaded without WithEnvironment.
const DefaultEnvironment = internal.DefaultEnvironment

// Constructors

// New creates a new application with the given options.
// Call Init, or let Run and ServeHTTP call it, to load the configuration
// and bootstrap the module.
//
// Example:
//
//	app := llama.New(
//	    llama.WithEnvironment("development"),
//	    llama.WithConfigFile("config/application.ini"),
//	    llama.WithModule("blog", blog.Module()),
//	)
//
//	if err := app.Run(""); err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// Options

// WithEnvironment selects the configuration section. Default: "production".
func WithEnvironment(name string) Option {
	return internal.WithEnvironment(name)
}

// WithConfigFile reads the configuration from an INI file.
func WithConfigFile(path string) Option {
	return internal.WithConfigFile(path)
}

// WithConfig uses an already built configuration tree.
func WithConfig(n *config.Node) Option {
	return internal.WithConfig(n)
}

// WithLocale overrides the default locale tag of the [locale] section.
func WithLocale(tag string) Option {
	return internal.WithLocale(tag)
}

// WithLocaleFS sets the filesystem holding <tag>/<domain>.yaml catalogs.
func WithLocaleFS(fsys fs.FS) Option {
	return internal.WithLocaleFS(fsys)
}

// WithModule registers a module under name. Only the first module listed
// in resources.modules that is registered is bootstrapped.
func WithModule(name string, m Module) Option {
	return internal.WithModule(name, m)
}

// WithMiddleware adds global middleware, applied outside module middleware.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithStaticFiles mounts a static file handler at the given pattern.
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler for action errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets the handler for requests no route matches.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithHealthChecks mounts /health/live and /health/ready.
//
// Example:
//
//	llama.WithHealthChecks(
//	    llama.WithReadinessCheck("db", db.Healthcheck(adapter)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// WithLogger builds the application logger from the [log] section with the
// given component name and context extractors.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger uses l as is and ignores the [log] section.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithLogOutput sets the writer of the logger built from [log].
func WithLogOutput(w io.Writer) Option {
	return internal.WithLogOutput(w)
}

// WithDatabase uses adapter instead of the one built from [database].
// The application does not close an injected adapter.
func WithDatabase(adapter *db.Adapter) Option {
	return internal.WithDatabase(adapter)
}

// WithShutdownHook registers a function run when the server stops, after
// the hooks passed to Run.
func WithShutdownHook(fn func(context.Context) error) Option {
	return internal.WithShutdownHook(fn)
}

// Run options

// ShutdownTimeout overrides the [settings] shutdown timeout.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function run before the server accepts requests.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a function run after the server stops.
//
// Example:
//
//	app.Run("", llama.ShutdownHook(redis.Shutdown(client)))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context. Cancelling it shuts the server down.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Session

// WithSession enables sessions backed by store.
//
// Example:
//
//	llama.WithSession(session.NewMemoryStore(),
//	    llama.WithSessionSecure(true),
//	)
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithSessionCookieName sets the session cookie name. Default: "__sid".
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the session lifetime in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

func WithSessionPath(path string) SessionOption {
	return internal.WithSessionPath(path)
}

func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

func WithSessionHTTPOnly(httpOnly bool) SessionOption {
	return internal.WithSessionHTTPOnly(httpOnly)
}

func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return internal.WithSessionSameSite(sameSite)
}

// SessionValue returns a typed value from the session.
func SessionValue[T any](sess *Session, key string) (T, error) {
	return session.Value[T](sess, key)
}

// SessionValueOr returns a typed value from the session or defaultVal.
func SessionValueOr[T any](sess *Session, key string, defaultVal T) T {
	return session.ValueOr(sess, key, defaultVal)
}

// Request helpers

// ParamType lists the types Param, Query and QueryDefault convert to.
type ParamType = internal.ParamType

// Param returns a route parameter converted to T. Conversion failures
// yield the zero value.
func Param[T ParamType](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns a query parameter converted to T.
func Query[T ParamType](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns a query parameter converted to T, or defaultValue.
func QueryDefault[T ParamType](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}

// ContextValue returns the request-scoped value stored under key.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// HTTP errors

func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func WithTitle(title string) HTTPErrorOption { return internal.WithTitle(title) }

func WithDetail(detail string) HTTPErrorOption { return internal.WithDetail(detail) }

func WithErrorCode(code string) HTTPErrorOption { return internal.WithErrorCode(code) }

func WithRequestID(id string) HTTPErrorOption { return internal.WithRequestID(id) }

func WithError(err error) HTTPErrorOption { return internal.WithError(err) }

func ErrBadRequest(msg string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(msg, opts...)
}

func ErrUnauthorized(msg string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(msg, opts...)
}

func ErrForbidden(msg string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(msg, opts...)
}

func ErrNotFound(msg string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(msg, opts...)
}

func ErrConflict(msg string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrConflict(msg, opts...)
}

func ErrUnprocessable(msg string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(msg, opts...)
}

func ErrInternal(msg string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(msg, opts...)
}

func ErrServiceUnavailable(msg string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrServiceUnavailable(msg, opts...)
}

// IsHTTPError reports whether err is or wraps an HTTPError.
func IsHTTPError(err error) bool { return internal.IsHTTPError(err) }

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError { return internal.AsHTTPError(err) }

// StatusOf maps err to the HTTP status the default error handler answers with.
func StatusOf(err error) int { return internal.StatusOf(err) }

// Errors
var (
	ErrUnsupportedConfig  = internal.ErrUnsupportedConfig
	ErrNoConfig           = internal.ErrNoConfig
	ErrNoModules          = internal.ErrNoModules
	ErrModuleNotFound     = internal.ErrModuleNotFound
	ErrInvalidRoute       = internal.ErrInvalidRoute
	ErrControllerNotFound = internal.ErrControllerNotFound
	ErrActionNotFound     = internal.ErrActionNotFound
	ErrNotInitialised     = internal.ErrNotInitialised
	ErrNoDatabase         = internal.ErrNoDatabase

	ErrSessionNotConfigured = session.ErrNotConfigured
	ErrSessionNotFound      = session.ErrNotFound
	ErrSessionExpired       = session.ErrExpired
)
