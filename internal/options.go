package internal

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/llama/pkg/config"
	"github.com/dmitrymomot/llama/pkg/db"
	"github.com/dmitrymomot/llama/pkg/health"
	"github.com/dmitrymomot/llama/pkg/logger"
	"github.com/dmitrymomot/llama/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithEnvironment selects the configuration section to load.
// Defaults to "production".
func WithEnvironment(name string) Option {
	return func(a *App) {
		if name != "" {
			a.env = name
		}
	}
}

// WithConfigFile loads the configuration from an INI file during Init.
// Other file types make Init fail with ErrUnsupportedConfig.
//
// Example:
//
//	llama.New(
//	    llama.WithEnvironment("development"),
//	    llama.WithConfigFile("config/application.ini"),
//	)
func WithConfigFile(path string) Option {
	return func(a *App) {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".ini" {
			a.optErr = fmt.Errorf("%w: %q", ErrUnsupportedConfig, path)
			return
		}
		a.configFile = path
	}
}

// WithConfig uses an already built configuration tree.
// It takes precedence over WithConfigFile.
func WithConfig(n *config.Node) Option {
	return func(a *App) {
		a.config = n
	}
}

// WithLocale overrides the default locale tag from the [locale] section.
func WithLocale(tag string) Option {
	return func(a *App) {
		a.localeTag = tag
	}
}

// WithLocaleFS reads translation catalogs from fsys instead of the
// [locale] path, e.g. an embed.FS.
func WithLocaleFS(fsys fs.FS) Option {
	return func(a *App) {
		a.localeFS = fsys
	}
}

// WithModule registers a module under name. The module listed first in
// resources.modules is bootstrapped during Init.
//
// Example:
//
//	llama.New(
//	    llama.WithModule("blog", blog.Module()),
//	)
func WithModule(name string, m Module) Option {
	return func(a *App) {
		if name == "" || m == nil {
			return
		}
		a.modules[name] = m
	}
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided and wraps route resolution.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	llama.New(
//	    llama.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			a.optErr = err
			return
		}

		fileServer := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(subFS))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Block directory listings
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler, pattern})
	}
}

// WithErrorHandler sets a custom handler for errors returned by actions,
// filters and middleware.
//
// Example:
//
//	llama.WithErrorHandler(func(c llama.Context, err error) error {
//	    return c.JSON(llama.StatusOf(err), map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets the handler used when no route matches.
//
// Example:
//
//	llama.WithNotFoundHandler(func(c llama.Context) error {
//	    return c.String(http.StatusNotFound, "Page not found")
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithHealthChecks enables the liveness and readiness endpoints.
// A configured database is checked automatically.
//
// Example:
//
//	llama.WithHealthChecks(
//	    llama.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{checks: make(health.Checks)}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger names the application component in every log entry and adds
// context extractors. Level and format still come from the [log] section.
//
// Example:
//
//	llama.New(
//	    llama.WithLogger("blog", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.component = component
		a.extractors = append(a.extractors, extractors...)
	}
}

// WithCustomLogger sets a fully custom logger. The [log] section is ignored.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
			a.loggerSet = true
		}
	}
}

// WithLogOutput sets where the configured logger writes. Defaults to stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *App) {
		a.logOutput = w
	}
}

// WithSession enables server-side sessions.
// Sessions are created lazily and saved automatically before the response
// is written.
//
// Example:
//
//	llama.New(
//	    llama.WithSession(session.NewRedisStore(client),
//	        llama.WithSessionCookieName("__sid"),
//	        llama.WithSessionSecure(true),
//	    ),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}

// WithDatabase uses adapter as the application database instead of the
// [database] section. The caller keeps ownership of the adapter.
func WithDatabase(adapter *db.Adapter) Option {
	return func(a *App) {
		a.db = adapter
	}
}

// WithShutdownHook registers a function run after the server stops, after
// the hooks passed to Run. It lets the code that opens a resource also
// arrange for closing it.
//
// Example:
//
//	client, _ := redis.Open(ctx, cfg)
//	llama.New(
//	    llama.WithSession(session.NewRedisStore(client)),
//	    llama.WithShutdownHook(redis.Shutdown(client)),
//	)
func WithShutdownHook(fn func(context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.shutdownHooks = append(a.shutdownHooks, fn)
		}
	}
}
