package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/llama"
	"github.com/dmitrymomot/llama/cli"
	"github.com/dmitrymomot/llama/pkg/db"
)

const siteINI = `
[production]
resources.modules[] = site
site.title = Llama
settings.address = :8080

routes.post.rule = /post/:id
routes.post.controller = post
routes.post.action = view
routes.post.constraints.id = \d+

routes.feed.rule = /feed
routes.feed.controller = post
routes.feed.action = feed
routes.feed.params.format = rss

[development : production]
settings.address = :3000
`

func writeINI(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "application.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type postController struct{}

func (postController) Actions() map[string]llama.HandlerFunc {
	noop := func(llama.Context) error { return nil }
	return map[string]llama.HandlerFunc{"view": noop, "feed": noop, "index": noop}
}

// siteFactory wires a module that registers the post controller and one
// extra route.
func siteFactory(o cli.Options) (*llama.App, error) {
	return llama.New(
		llama.WithEnvironment(o.Environment),
		llama.WithConfigFile(o.ConfigFile),
		llama.WithModule("site", llama.ModuleFunc(func(b *llama.Bootstrap) error {
			b.Controller("post", func(*llama.Bootstrap) (llama.Controller, error) {
				return postController{}, nil
			})
			return b.AddRoute("/", llama.Target{Controller: "post"}, nil)
		})),
	), nil
}

func execute(t *testing.T, factory cli.Factory, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := cli.New(factory)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	path := writeINI(t, siteINI)

	t.Run("table from configuration only", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, cli.ConfigOnly, "routes", "-c", path, "-e", "production")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "NAME"))
		assert.Contains(t, lines[1], "/post/:id")
		assert.Contains(t, lines[2], "/feed")
		assert.Contains(t, lines[2], "format=rss")
	})

	t.Run("json includes module routes", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, siteFactory, "routes", "-c", path, "-o", "json")
		require.NoError(t, err)

		var routes []struct {
			Name       string `json:"name"`
			Rule       string `json:"rule"`
			Controller string `json:"controller"`
			Action     string `json:"action"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &routes))
		require.Len(t, routes, 3)
		assert.Equal(t, "post", routes[0].Name)
		assert.Equal(t, "feed", routes[1].Name)
		assert.Equal(t, "/", routes[2].Rule)
		assert.Equal(t, "post", routes[2].Controller)
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, cli.ConfigOnly, "routes", "-c", path, "-o", "xml")
		require.ErrorIs(t, err, cli.ErrUnknownFormat)
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	path := writeINI(t, siteINI)

	t.Run("dispatchable route", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, siteFactory, "resolve", "/post/12", "-c", path)
		require.NoError(t, err)
		assert.Contains(t, out, "controller: post")
		assert.Contains(t, out, "action:     view")
		assert.Contains(t, out, "params:     id=12")
		assert.NotContains(t, out, "dispatch:")
	})

	t.Run("default params", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, siteFactory, "resolve", "/feed", "-c", path, "-o", "yaml")
		require.NoError(t, err)

		var res map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &res))
		assert.Equal(t, "feed", res["action"])
		assert.Equal(t, map[string]any{"format": "rss"}, res["params"])
	})

	t.Run("query string ignored", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, siteFactory, "resolve", "/post/12?preview=1", "-c", path, "-o", "json")
		require.NoError(t, err)

		var res map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, "/post/12", res["uri"])
		assert.Equal(t, "view", res["action"])
	})

	t.Run("configuration only reports dispatch failure", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, cli.ConfigOnly, "resolve", "/post/7", "-c", path)
		require.NoError(t, err)
		assert.Contains(t, out, "controller: post")
		assert.Contains(t, out, "dispatch:   "+llama.ErrControllerNotFound.Error())
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, siteFactory, "resolve", "/post/abc", "-c", path)
		require.ErrorIs(t, err, cli.ErrNoMatch)
	})

	t.Run("requires an argument", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, siteFactory, "resolve", "-c", path)
		require.Error(t, err)
	})
}

func TestConfig(t *testing.T) {
	t.Parallel()

	path := writeINI(t, siteINI)

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "inherited section",
			args:     []string{"config", "-c", path, "-e", "development"},
			contains: []string{"resources.modules[] = site", "settings.address = :3000", "routes.post.constraints.id = \\d+"},
			excludes: []string{"settings.address = :8080"},
		},
		{
			name:     "single value",
			args:     []string{"config", "site.title", "-c", path},
			contains: []string{"site.title = Llama"},
		},
		{
			name:     "subtree",
			args:     []string{"config", "routes.feed", "-c", path},
			contains: []string{"routes.feed.rule = /feed", "routes.feed.params.format = rss"},
			excludes: []string{"routes.post"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, nil, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, nil, "config", "settings", "-c", path, "-o", "json")
		require.NoError(t, err)

		var settings map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &settings))
		assert.Equal(t, ":8080", settings["address"])
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, nil, "config", "database.dsn", "-c", path)
		require.ErrorIs(t, err, cli.ErrKeyNotFound)
	})
}

func TestCommandsNeedFactory(t *testing.T) {
	t.Parallel()

	path := writeINI(t, siteINI)
	for _, cmd := range []string{"routes", "migrate", "serve"} {
		t.Run(cmd, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, nil, cmd, "-c", path)
			require.ErrorIs(t, err, cli.ErrNoFactory)
		})
	}
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	migrations := filepath.Join(dir, "migrations")
	require.NoError(t, os.Mkdir(migrations, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(migrations, "00001_posts.sql"), []byte(`-- +goose Up
CREATE TABLE posts (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT);

-- +goose Down
DROP TABLE posts;
`), 0o600))

	dsn := filepath.Join(dir, "site.db")
	path := writeINI(t, `
[production]
resources.modules[] = site
database.driver = sqlite
database.dsn = `+dsn+`
database.migrations_path = `+migrations+`
`)

	out, err := execute(t, cli.ConfigOnly, "migrate", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "migrations in "+migrations+" applied")

	cfg := db.DefaultConfig()
	cfg.Driver = db.DriverSQLite
	cfg.DSN = dsn
	adapter, err := db.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Disconnect() })

	_, err = adapter.Insert(t.Context(), "posts", db.Bind{"title": "hello"})
	require.NoError(t, err)

	t.Run("without database", func(t *testing.T) {
		_, err := execute(t, cli.ConfigOnly, "migrate", "-c", writeINI(t, siteINI))
		require.ErrorIs(t, err, llama.ErrNoDatabase)
	})
}
