package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/llama/internal"
	"github.com/dmitrymomot/llama/pkg/config"
	"github.com/dmitrymomot/llama/pkg/logger"
	"github.com/dmitrymomot/llama/pkg/router"
)

type indexController struct {
	action internal.HandlerFunc
}

func (c indexController) Actions() map[string]internal.HandlerFunc {
	return map[string]internal.HandlerFunc{"index": c.action}
}

// serve runs req through an application whose only route "/" executes
// action behind mws. The middleware chain is built by mwFn during
// bootstrap, so it can use the module's resources.
func serve(
	t *testing.T,
	req *http.Request,
	cfg map[string]any,
	mwFn func(b *internal.Bootstrap) []internal.Middleware,
	action internal.HandlerFunc,
	opts ...internal.Option,
) *httptest.ResponseRecorder {
	t.Helper()

	data := map[string]any{
		"resources": map[string]any{"modules": []string{"test"}},
	}
	for k, v := range cfg {
		data[k] = v
	}

	module := internal.ModuleFunc(func(b *internal.Bootstrap) error {
		if mwFn != nil {
			b.Use(mwFn(b)...)
		}
		b.Controller("index", func(*internal.Bootstrap) (internal.Controller, error) {
			return indexController{action: action}, nil
		})
		return b.AddRoute("/", router.Target{}, nil)
	})

	base := []internal.Option{
		internal.WithConfig(config.New(data)),
		internal.WithCustomLogger(logger.NewNope()),
		internal.WithModule("test", module),
	}
	app := internal.New(append(base, opts...)...)
	require.NoError(t, app.Init(t.Context()))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

// use wraps fixed middleware for serve.
func use(mws ...internal.Middleware) func(*internal.Bootstrap) []internal.Middleware {
	return func(*internal.Bootstrap) []internal.Middleware { return mws }
}
