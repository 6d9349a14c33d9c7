package internal_test

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

// testConfig returns a minimal configuration bootstrapping the "test" module.
func testConfig(extra map[string]any) *config.Node {
	data := map[string]any{
		"resources": map[string]any{"modules": []string{"test"}},
	}
	for k, v := range extra {
		data[k] = v
	}
	return config.New(data)
}

// actionController exposes a fixed action table.
type actionController map[string]internal.HandlerFunc

func (c actionController) Actions() map[string]internal.HandlerFunc { return c }

// requestVia creates an App whose only route, "/" plus the "/items/:id"
// variant, runs fn, then sends req through it. This exercises the real
// request context without reaching into unexported symbols.
func requestVia(t *testing.T, req *http.Request, opts []internal.Option, fn func(c internal.Context)) *httptest.ResponseRecorder {
	t.Helper()

	module := internal.ModuleFunc(func(b *internal.Bootstrap) error {
		b.Controller("capture", func(*internal.Bootstrap) (internal.Controller, error) {
			return actionController{"run": func(c internal.Context) error {
				fn(c)
				return nil
			}}, nil
		})
		if err := b.AddRoute("/", router.Target{Controller: "capture", Action: "run"}, nil); err != nil {
			return err
		}
		return b.AddRoute("/items/:id", router.Target{Controller: "capture", Action: "run"}, nil)
	})

	base := []internal.Option{
		internal.WithConfig(testConfig(nil)),
		internal.WithCustomLogger(logger.NewNope()),
		internal.WithModule("test", module),
	}
	app := internal.New(append(base, opts...)...)
	require.NoError(t, app.Init(t.Context()))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}
