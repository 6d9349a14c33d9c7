package router

import (
	"maps"
	"net/http"
)

// Router resolves one URI against an ordered set of routes.
type Router struct {
	index      map[string]*Route
	params     map[string]string
	uri        string
	controller string
	action     string
	routes     []*Route
	matched    bool
}

// Option configures a Router.
type Option func(*Router)

// WithURI sets the URI to resolve.
func WithURI(uri string) Option {
	return func(r *Router) {
		r.SetURI(uri)
	}
}

// WithRequest uses the request path as the URI to resolve.
// The escaped form is used so that captured values are decoded exactly once.
func WithRequest(req *http.Request) Option {
	return func(r *Router) {
		if req != nil && req.URL != nil {
			r.SetURI(req.URL.EscapedPath())
		}
	}
}

// New creates a Router. Without WithURI or WithRequest, a URI must be set
// with SetURI before calling Initialise.
func New(opts ...Option) *Router {
	r := &Router{
		index:  make(map[string]*Route),
		params: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetURI sets the URI to resolve. Empty values are ignored.
func (r *Router) SetURI(uri string) {
	if uri != "" {
		r.uri = uri
	}
}

// URI returns the URI being resolved.
func (r *Router) URI() string {
	return r.uri
}

// AddRoute appends a route. Routes are tried in the order they were added.
// Returns ErrDuplicateRoute if a route with the same rule exists.
func (r *Router) AddRoute(route *Route) error {
	if _, exists := r.index[route.Rule()]; exists {
		return ErrDuplicateRoute
	}
	r.index[route.Rule()] = route
	r.routes = append(r.routes, route)
	return nil
}

// MustAddRoute is like AddRoute but panics on error.
func (r *Router) MustAddRoute(route *Route) {
	if err := r.AddRoute(route); err != nil {
		panic(err)
	}
}

// Routes returns the registered routes in insertion order.
func (r *Router) Routes() []*Route {
	return append([]*Route(nil), r.routes...)
}

// Initialise matches the URI against the routes and records the first match.
// The route set is discarded afterwards, whether or not a route matched,
// so calling Initialise again returns ErrNoRoutes.
func (r *Router) Initialise() error {
	if r.uri == "" {
		return ErrNoURI
	}
	if len(r.routes) == 0 {
		return ErrNoRoutes
	}

	for _, route := range r.routes {
		if route.Match(r.uri) {
			r.setRoute(route)
			break
		}
	}

	r.routes = nil
	r.index = make(map[string]*Route)

	return nil
}

// IsMatched reports whether Initialise found a matching route.
func (r *Router) IsMatched() bool {
	return r.matched
}

// Controller returns the matched controller.
func (r *Router) Controller() string {
	return r.controller
}

// Action returns the matched action.
func (r *Router) Action() string {
	return r.action
}

// Params returns a copy of the matched params.
func (r *Router) Params() map[string]string {
	return maps.Clone(r.params)
}

// Param returns the matched param or def when it is absent.
func (r *Router) Param(name, def string) string {
	if v, ok := r.params[name]; ok {
		return v
	}
	return def
}

func (r *Router) setRoute(route *Route) {
	r.controller = route.Controller()
	r.action = route.Action()
	r.params = route.Params()
	r.matched = true
}
