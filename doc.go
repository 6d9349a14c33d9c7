// Package llama is a small MVC framework: an INI configuration with
// per-environment sections, a rule based router, modules that register
// controllers, and a request Context that carries sessions, locale,
// validation and database access.
//
// # Quick Start
//
// An application is a configuration file plus one or more modules:
//
//	[production]
//	resources.modules[] = blog
//	settings.address = :8080
//
//	routes.post.rule = /post/:id
//	routes.post.controller = post
//	routes.post.action = view
//	routes.post.constraints.id = \d+
//
//	[development : production]
//	log.level = debug
//
// The module bootstraps its controllers when the application initialises:
//
//	app := llama.New(
//	    llama.WithEnvironment("development"),
//	    llama.WithConfigFile("config/application.ini"),
//	    llama.WithModule("blog", llama.ModuleFunc(func(b *llama.Bootstrap) error {
//	        b.Controller("post", newPostController)
//	        return b.AddRoute("/", llama.Target{Controller: "post"}, nil)
//	    })),
//	)
//
//	if err := app.Run(""); err != nil {
//	    log.Fatal(err)
//	}
//
// # Dispatch
//
// Every request builds a fresh router over the registered routes. The first
// matching route names the controller and action; ":controller" and
// ":action" tokens in a rule fill them from the URI. Names are matched case
// insensitively. A missing controller or action answers 404, a route miss
// goes to the not-found handler.
//
// # Controllers
//
// A controller lists its actions. Optional BeforeFilter and AfterFilter
// methods run around every action; an error from BeforeFilter stops the
// request:
//
//	type PostController struct{ posts *model.Collection }
//
//	func (p *PostController) Actions() map[string]llama.HandlerFunc {
//	    return map[string]llama.HandlerFunc{
//	        "index": p.index,
//	        "view":  p.view,
//	    }
//	}
//
//	func (p *PostController) view(c llama.Context) error {
//	    id := llama.Param[int](c, "id")
//	    ...
//	}
//
// # Errors
//
// Actions return errors. HTTPError values carry their status code; anything
// else is answered with 500 by the default error handler. Replace it with
// [WithErrorHandler].
package llama
