// Package internal provides the core types and implementation of the llama
// framework.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/llama" instead, which re-exports the public API.
//
// # Application lifecycle
//
// An App is created with New and finished with Init, which:
//
//   - loads the INI configuration for the selected environment
//   - decodes [settings], [log], [database] and [locale]
//   - picks the first module listed in resources.modules that was
//     registered with WithModule
//   - reads the routes.<name> definitions
//   - calls the module's Bootstrap
//
// Init runs once. Run and ServeHTTP call it on first use.
//
//	app := internal.New(
//	    internal.WithConfigFile("config/application.ini"),
//	    internal.WithEnvironment("development"),
//	    internal.WithModule("blog", blog.Module()),
//	)
//	if err := app.Run(""); err != nil {
//	    log.Fatal(err)
//	}
//
// # Modules and controllers
//
// A Module registers controller factories and extra routes on the
// Bootstrap it receives. Controllers are created the first time one of
// their routes matches and are reused afterwards:
//
//	func (m *Module) Bootstrap(b *internal.Bootstrap) error {
//	    b.Controller("post", func(b *internal.Bootstrap) (internal.Controller, error) {
//	        return newPostController(b.Config()), nil
//	    })
//	    return b.AddRoute("/archive/:year", router.Target{
//	        Controller: "post",
//	        Action:     "archive",
//	    }, router.Constraints{"year": `\d{4}`})
//	}
//
// Controller and action names are matched case-insensitively. An empty
// controller or action resolves to "index". Controllers may implement
// BeforeFilter and AfterFilter to run code around every action.
//
// # Dispatch
//
// Each request is matched against a fresh copy of the route table, routes
// from the configuration first. A request that matches no route goes to
// the not-found handler. Errors returned by middleware, filters or
// actions go to the error handler, which maps them to a status code with
// StatusOf unless a custom handler is set.
//
// # Context
//
// Context embeds context.Context, so it can be passed to any function
// expecting a standard library context. It also gives access to the
// session, the request locale and a per-request database adapter.
// Session changes are saved right before the response is written.
package internal
