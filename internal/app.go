package internal

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/llama/pkg/config"
	"github.com/dmitrymomot/llama/pkg/db"
	"github.com/dmitrymomot/llama/pkg/health"
	"github.com/dmitrymomot/llama/pkg/locale"
	"github.com/dmitrymomot/llama/pkg/logger"
	"github.com/dmitrymomot/llama/pkg/router"
)

// DefaultEnvironment is the configuration section loaded without WithEnvironment.
const DefaultEnvironment = "production"

// App is a configured application: its configuration tree, the bootstrapped
// module with its controllers, and the route table. Configure it with New
// and finish the setup with Init; Run and ServeHTTP call Init themselves.
type App struct {
	optErr  error
	initErr error

	config     *config.Node
	configFile string
	env        string
	settings   Settings

	logger     *slog.Logger
	logOutput  io.Writer
	component  string
	extractors []logger.ContextExtractor

	localeFS  fs.FS
	localeTag string
	locales   *locale.Bundle

	db     *db.Adapter
	ownsDB bool

	modules map[string]Module
	module  string
	boot    *Bootstrap

	errorHandler    ErrorHandler
	notFoundHandler HandlerFunc
	sessionManager  *SessionManager
	healthConfig    *healthConfig

	middlewares   []Middleware
	routes        []routeEntry
	staticRoutes  []staticRoute
	shutdownHooks []func(context.Context) error

	once        sync.Once
	initialised atomic.Bool
	loggerSet   bool
}

// staticRoute represents a static file handler mount point.
type staticRoute struct {
	handler http.Handler
	pattern string
}

// routeEntry is a named route definition.
type routeEntry struct {
	route *router.Route
	name  string
}

// RouteInfo describes a registered route.
type RouteInfo struct {
	Params     map[string]string
	Name       string
	Rule       string
	Controller string
	Action     string
}

// Resolution is the outcome of resolving one URI.
type Resolution struct {
	Params     map[string]string
	URI        string
	Controller string
	Action     string
	Matched    bool
}

// New creates a new application with the given options.
//
// Example:
//
//	app := llama.New(
//	    llama.WithEnvironment("development"),
//	    llama.WithConfigFile("config/application.ini"),
//	    llama.WithModule("blog", blog.Module()),
//	)
func New(opts ...Option) *App {
	a := &App{
		env:      DefaultEnvironment,
		logger:   logger.NewNope(),
		modules:  make(map[string]Module),
		settings: DefaultSettings(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init loads the configuration and bootstraps the application module.
// It runs once; later calls return the result of the first.
func (a *App) Init(ctx context.Context) error {
	a.once.Do(func() {
		a.initErr = a.init(ctx)
		if a.initErr == nil {
			a.initialised.Store(true)
			a.logger.InfoContext(ctx, "application initialised",
				slog.String("environment", a.env),
				slog.String("module", a.module),
				slog.Int("routes", len(a.routes)),
			)
		}
	})
	return a.initErr
}

func (a *App) init(ctx context.Context) error {
	if a.optErr != nil {
		return a.optErr
	}

	if err := a.loadConfig(); err != nil {
		return err
	}

	settings, err := loadSettings(a.config.Child("settings"))
	if err != nil {
		return err
	}
	a.settings = settings

	if err := a.setupLogger(); err != nil {
		return err
	}
	if err := a.setupDatabase(ctx); err != nil {
		return err
	}
	a.setupLogAppender()

	if err := a.buildLocales(a.config.Child("locale")); err != nil {
		return err
	}

	if a.sessionManager != nil {
		a.sessionManager.SetLogger(a.logger)
	}

	module, err := a.resolveModule()
	if err != nil {
		return err
	}

	if err := a.loadRoutes(a.config.Child("routes")); err != nil {
		return err
	}

	a.boot = newBootstrap(a, a.module)
	if err := module.Bootstrap(a.boot); err != nil {
		return fmt.Errorf("bootstrap module %q: %w", a.module, err)
	}

	return nil
}

func (a *App) loadConfig() error {
	if a.config != nil {
		return nil
	}
	if a.configFile == "" {
		return ErrNoConfig
	}
	n, err := config.LoadINI(a.configFile, a.env)
	if err != nil {
		return err
	}
	a.config = n
	return nil
}

func (a *App) setupLogger() error {
	if !a.loggerSet {
		cfg := logger.DefaultConfig()
		if err := config.Decode(a.config.Child("log"), &cfg, logger.DefaultConfig()); err != nil {
			return fmt.Errorf("log: %w", err)
		}
		l, err := logger.NewFromConfig(cfg, a.logOutput, a.extractors...)
		if err != nil {
			return err
		}
		a.logger = l
	}
	if a.component != "" {
		a.logger = a.logger.With(slog.String("component", a.component))
	}
	return nil
}

func (a *App) setupDatabase(ctx context.Context) error {
	if a.db == nil {
		section := a.config.Child("database")
		if section == nil {
			return nil
		}
		var cfg db.Config
		if err := config.Decode(section, &cfg, db.DefaultConfig()); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		adapter, err := db.New(cfg, db.WithLogger(a.logger))
		if err != nil {
			return err
		}
		a.db = adapter
		a.ownsDB = true
	}
	return a.db.Open(ctx)
}

// setupLogAppender adds the database appender when [log] table is set.
func (a *App) setupLogAppender() {
	table := a.config.Child("log").String("table", "")
	if table == "" || a.db == nil || a.loggerSet {
		return
	}

	root := a.db
	insert := logger.InserterFunc(func(ctx context.Context, table string, fields map[string]any) error {
		adapter := db.NewFromDB(root.DB(), root.Dialect())
		defer adapter.Disconnect()
		_, err := adapter.Insert(ctx, table, db.Bind(fields))
		return err
	})
	a.logger = logger.Tee(a.logger, logger.NewDatabaseHandler(insert, table))
}

func (a *App) resolveModule() (Module, error) {
	names := a.config.Child("resources").Strings("modules")
	if len(names) == 0 {
		return nil, ErrNoModules
	}
	for _, name := range names {
		if m, ok := a.modules[name]; ok {
			a.module = name
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, names[0])
}

// loadRoutes reads routes.<name>.rule/controller/action/params/constraints.
func (a *App) loadRoutes(n *config.Node) error {
	for name, v := range n.All() {
		def, ok := v.(*config.Node)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidRoute, name)
		}

		target := router.Target{
			Controller: def.String("controller", ""),
			Action:     def.String("action", ""),
			Params:     stringMap(def.Child("params")),
		}
		route, err := router.NewRoute(def.String("rule", ""), target, router.Constraints(stringMap(def.Child("constraints"))))
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidRoute, name, err)
		}
		if err := a.addRoute(name, route); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) addRoute(name string, route *router.Route) error {
	for _, e := range a.routes {
		if e.route.Rule() == route.Rule() {
			return fmt.Errorf("%w: %q: %w", ErrInvalidRoute, name, router.ErrDuplicateRoute)
		}
	}
	a.routes = append(a.routes, routeEntry{route: route, name: name})
	return nil
}

func stringMap(n *config.Node) map[string]string {
	if n == nil {
		return nil
	}
	out := make(map[string]string, n.Count())
	for _, k := range n.Keys() {
		out[k] = n.String(k, "")
	}
	return out
}

// Routes lists the route definitions in matching order.
func (a *App) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(a.routes))
	for _, e := range a.routes {
		out = append(out, RouteInfo{
			Name:       e.name,
			Rule:       e.route.Rule(),
			Controller: e.route.Controller(),
			Action:     e.route.Action(),
			Params:     e.route.Params(),
		})
	}
	return out
}

// Config returns the configuration tree, or nil before Init.
func (a *App) Config() *config.Node { return a.config }

// Environment returns the configuration section in use.
func (a *App) Environment() string { return a.env }

// Settings returns the runtime settings read from [settings].
func (a *App) Settings() Settings { return a.settings }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Locales returns the locale bundle built from [locale], or nil before Init.
func (a *App) Locales() *locale.Bundle { return a.locales }

// Database returns the application database adapter, or nil when none is
// configured.
func (a *App) Database() *db.Adapter { return a.db }

// Module returns the name of the bootstrapped module.
func (a *App) Module() string { return a.module }

// Close releases the database connection opened from [database].
func (a *App) Close() error {
	if a.db == nil || !a.ownsDB {
		return nil
	}
	return a.db.Disconnect()
}

// Resolve matches uri against the route table without dispatching it.
// Only the path takes part, as for requests: "/search?q=go" resolves
// "/search". A URI that matches no route yields a Resolution with Matched
// false.
// ErrControllerNotFound and ErrActionNotFound report a match that could
// not be dispatched.
func (a *App) Resolve(uri string) (Resolution, error) {
	if !a.initialised.Load() {
		return Resolution{}, ErrNotInitialised
	}

	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		uri = u.EscapedPath()
	}

	res, err := a.resolve(router.New(router.WithURI(uri)))
	if err != nil || !res.Matched {
		return res, err
	}
	if _, _, err := a.boot.action(res.Controller, res.Action); err != nil {
		return res, err
	}
	return res, nil
}

// resolve runs one routing pass over fresh copies of the routes.
func (a *App) resolve(rt *router.Router) (Resolution, error) {
	res := Resolution{URI: rt.URI()}
	if len(a.routes) == 0 {
		return res, nil
	}
	for _, e := range a.routes {
		if err := rt.AddRoute(e.route.Clone()); err != nil {
			return res, err
		}
	}
	if err := rt.Initialise(); err != nil {
		return res, err
	}
	if !rt.IsMatched() {
		return res, nil
	}

	res.Matched = true
	res.Controller = orDefault(rt.Controller())
	res.Action = orDefault(rt.Action())
	res.Params = rt.Params()
	return res, nil
}

func orDefault(name string) string {
	if name == "" {
		return "index"
	}
	return name
}

// ServeHTTP resolves the request URI and dispatches it to a controller
// action. Init is called on first use.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := a.Init(r.Context()); err != nil {
		a.logger.ErrorContext(r.Context(), "application failed to initialise", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	c := newContext(w, r, a)
	defer c.release()

	h := func(Context) error { return a.dispatch(c) }
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		h = a.middlewares[i](h)
	}

	if err := h(c); err != nil {
		a.handleError(c, err)
	}
}

// dispatch routes the request and runs the resolved action.
func (a *App) dispatch(c *requestContext) error {
	res, err := a.resolve(router.New(router.WithRequest(c.Request())))
	if err != nil {
		return err
	}
	if !res.Matched {
		return a.notFound(c)
	}

	c.controller, c.action = res.Controller, res.Action
	if res.Params != nil {
		c.params = res.Params
	}

	ctrl, action, err := a.boot.action(res.Controller, res.Action)
	if err != nil {
		return err
	}

	c.LogDebug("dispatch",
		slog.String("controller", res.Controller),
		slog.String("action", res.Action),
	)
	return runAction(c, ctrl, res.Action, action)
}

func (a *App) notFound(c Context) error {
	if a.notFoundHandler != nil {
		return a.notFoundHandler(c)
	}
	http.NotFound(c.Response(), c.Request())
	return nil
}

// handleError passes err to the configured error handler.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		a.logger.ErrorContext(c.Context(), "error after response was written", slog.Any("error", err))
		return
	}

	h := a.errorHandler
	if h == nil {
		h = a.defaultErrorHandler
	}
	if herr := h(c, err); herr != nil {
		a.logger.ErrorContext(c.Context(), "error handler failed",
			slog.Any("error", herr),
			slog.Any("original_error", err),
		)
		if !c.Written() {
			http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

func (a *App) defaultErrorHandler(c Context, err error) error {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		c.LogError("request failed", slog.Any("error", err))
	} else {
		c.LogDebug("request failed", slog.Any("error", err))
	}

	msg := http.StatusText(status)
	if httpErr := AsHTTPError(err); httpErr != nil && httpErr.Message != "" {
		msg = httpErr.Message
	}
	http.Error(c.Response(), msg, status)
	return nil
}

// Handler returns the full HTTP handler: static mounts and health endpoints
// in front of controller dispatch.
func (a *App) Handler() http.Handler {
	mux := chi.NewRouter()

	for _, sr := range a.staticRoutes {
		mux.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		checks := make(health.Checks, len(a.healthConfig.checks)+1)
		for name, fn := range a.healthConfig.checks {
			checks[name] = fn
		}
		if a.db != nil {
			if _, exists := checks["db"]; !exists {
				checks["db"] = db.Healthcheck(a.db)
			}
		}
		health.Mount(mux, checks, health.WithLogger(a.logger))
	}

	mux.Handle("/*", a)
	return mux
}

// Run initialises the application, serves HTTP and blocks until shutdown.
// An empty addr uses the [settings] address.
//
// Example:
//
//	app := llama.New(
//	    llama.WithConfigFile("config/application.ini"),
//	    llama.WithModule("blog", blog.Module()),
//	)
//	err := app.Run("", llama.ShutdownHook(redis.Shutdown(client)))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	ctx := cfg.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.Init(ctx); err != nil {
		return err
	}

	if addr == "" {
		addr = a.settings.Address
	}
	shutdownTimeout := a.settings.ShutdownTimeout
	if cfg.shutdownTimeout > 0 {
		shutdownTimeout = cfg.shutdownTimeout
	}

	shutdownHooks := append(cfg.shutdownHooks, a.shutdownHooks...)
	if a.ownsDB {
		shutdownHooks = append(shutdownHooks, db.Shutdown(a.db))
	}

	return runServer(runtimeConfig{
		handler:         a.Handler(),
		address:         addr,
		settings:        a.settings,
		logger:          a.logger,
		shutdownTimeout: shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   shutdownHooks,
		baseCtx:         ctx,
	})
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks health.Checks
}

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during the readiness probe.
//
// Example:
//
//	llama.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		c.checks[name] = fn
	}
}
