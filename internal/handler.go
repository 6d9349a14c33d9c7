package internal

// HandlerFunc is the signature for controller actions.
// Returning a non-nil error hands the error to the application's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect the request, short-circuit processing,
// or wrap the response.
//
// Example:
//
//	func Auth(next llama.HandlerFunc) llama.HandlerFunc {
//	    return func(c llama.Context) error {
//	        if !isAuthenticated(c) {
//	            return c.Redirect(302, "/login")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from actions and filters.
type ErrorHandler func(Context, error) error

// Controller groups the actions of one controller name.
//
// Example:
//
//	type PostController struct {
//	    posts *model.Collection[*Post, PostQuery]
//	}
//
//	func (p *PostController) Actions() map[string]llama.HandlerFunc {
//	    return map[string]llama.HandlerFunc{
//	        "index": p.index,
//	        "view":  p.view,
//	    }
//	}
type Controller interface {
	Actions() map[string]HandlerFunc
}

// BeforeFilter is implemented by controllers that run code before every action.
// Returning an error skips the action and the after filter.
type BeforeFilter interface {
	BeforeFilter(c Context, action string) error
}

// AfterFilter is implemented by controllers that run code after every
// successful action.
type AfterFilter interface {
	AfterFilter(c Context, action string) error
}

// ControllerFactory creates a controller. It is called at most once per
// application, the first time one of the controller's routes matches.
type ControllerFactory func(b *Bootstrap) (Controller, error)

// Module is a named part of the application that registers its
// controllers and routes when the application starts.
type Module interface {
	Bootstrap(b *Bootstrap) error
}

// ModuleFunc adapts a plain function to the Module interface.
type ModuleFunc func(b *Bootstrap) error

// Bootstrap calls f(b).
func (f ModuleFunc) Bootstrap(b *Bootstrap) error {
	return f(b)
}

// runAction runs the filters and the action in order:
// before filter, action, after filter.
func runAction(c Context, ctrl Controller, name string, action HandlerFunc) error {
	if f, ok := ctrl.(BeforeFilter); ok {
		if err := f.BeforeFilter(c, name); err != nil {
			return err
		}
	}
	if err := action(c); err != nil {
		return err
	}
	if f, ok := ctrl.(AfterFilter); ok {
		return f.AfterFilter(c, name)
	}
	return nil
}
