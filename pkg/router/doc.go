// Package router resolves a request URI to a controller, an action and a set
// of named parameters.
//
// A [Route] is a single rule such as "/:controller/:action/:id". Tokens that
// start with a colon become capturing groups; the "controller" and "action"
// tokens bind to the route's target, everything else lands in the params map.
// Each token may carry its own regex constraint:
//
//	route, err := router.NewRoute("/user/:id",
//	    router.Target{Controller: "user", Action: "view"},
//	    router.Constraints{"id": `[\d]+`},
//	)
//
// Patterns are anchored and accept an optional trailing slash, so both
// "/user/1" and "/user/1/" match the rule above while "/user/abc" does not.
// Captured values are URL-decoded.
//
// A [Router] holds an ordered set of routes and resolves one URI:
//
//	r := router.New(router.WithRequest(req))
//	r.MustAddRoute(route)
//	if err := r.Initialise(); err != nil {
//	    return err
//	}
//	if r.IsMatched() {
//	    id := r.Param("id", "")
//	}
//
// Initialise discards the route set whether or not a route matched, so a
// Router resolves exactly one URI. Build a new Router per request and use
// [Route.Clone] to reuse compiled routes.
package router
