package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmitrymomot/llama/pkg/config"
	"github.com/dmitrymomot/llama/pkg/db"
	"github.com/dmitrymomot/llama/pkg/locale"
	"github.com/dmitrymomot/llama/pkg/router"
)

// Bootstrap is handed to Module.Bootstrap. It exposes the application
// resources and collects the module's controllers and routes.
// Controllers are created on first dispatch and reused afterwards.
type Bootstrap struct {
	app         *App
	factories   map[string]ControllerFactory
	controllers map[string]Controller
	module      string
	mu          sync.Mutex
}

func newBootstrap(app *App, module string) *Bootstrap {
	return &Bootstrap{
		app:         app,
		module:      module,
		factories:   make(map[string]ControllerFactory),
		controllers: make(map[string]Controller),
	}
}

// Module returns the name of the module being bootstrapped.
func (b *Bootstrap) Module() string { return b.module }

// Config returns the application configuration tree.
func (b *Bootstrap) Config() *config.Node { return b.app.config }

// Logger returns the application logger.
func (b *Bootstrap) Logger() *slog.Logger { return b.app.logger }

// Locale returns the default application locale.
func (b *Bootstrap) Locale() *locale.Locale { return b.app.locales.Default() }

// Locales returns the application locale bundle.
func (b *Bootstrap) Locales() *locale.Bundle { return b.app.locales }

// DB returns the application database adapter, or nil without one.
// Use it to build shared handles only; requests get their own adapter
// through Context.DB.
func (b *Bootstrap) DB() *db.Adapter { return b.app.db }

// AddRoute registers a route after those read from the configuration.
func (b *Bootstrap) AddRoute(rule string, target router.Target, constraints router.Constraints) error {
	route, err := router.NewRoute(rule, target, constraints)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidRoute, rule, err)
	}
	return b.app.addRoute(rule, route)
}

// Use appends middleware to the application chain.
func (b *Bootstrap) Use(mw ...Middleware) {
	b.app.middlewares = append(b.app.middlewares, mw...)
}

// Controller registers the factory for the controller called name.
// Names are case-insensitive.
func (b *Bootstrap) Controller(name string, factory ControllerFactory) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.factories[strings.ToLower(name)] = factory
}

// controller returns the named controller, creating it on first use.
func (b *Bootstrap) controller(name string) (Controller, error) {
	key := strings.ToLower(name)

	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.controllers[key]; ok {
		return c, nil
	}
	factory, ok := b.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrControllerNotFound, name)
	}
	c, err := factory(b)
	if err != nil {
		return nil, fmt.Errorf("create controller %q: %w", name, err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrControllerNotFound, name)
	}
	b.controllers[key] = c
	return c, nil
}

// action looks up the controller and its action. Action names match
// exactly first, then case-insensitively.
func (b *Bootstrap) action(controller, action string) (Controller, HandlerFunc, error) {
	c, err := b.controller(controller)
	if err != nil {
		return nil, nil, err
	}

	actions := c.Actions()
	if h, ok := actions[action]; ok && h != nil {
		return c, h, nil
	}
	for name, h := range actions {
		if h != nil && strings.EqualFold(name, action) {
			return c, h, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %q on controller %q", ErrActionNotFound, action, controller)
}
