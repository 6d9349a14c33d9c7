package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/llama/pkg/config"
)

const appINI = `
debug = off

[production]
db.host = prod.example.com
db.port = 5432
modules[] = blog
modules[] = admin

[development : production]
db.host = localhost
modules[] = debug
`

func TestParseINI(t *testing.T) {
	t.Parallel()

	t.Run("plain section", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.ParseINI([]byte(appINI), "production")
		require.NoError(t, err)

		assert.Equal(t, "prod.example.com", cfg.Lookup("db.host", nil))
		assert.Equal(t, 5432, cfg.Child("db").Int("port", 0))
		assert.Equal(t, []string{"blog", "admin"}, cfg.Strings("modules"))
		assert.False(t, cfg.Bool("debug", true))
	})

	t.Run("inherited section", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.ParseINI([]byte(appINI), "development")
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.Lookup("db.host", nil))
		assert.Equal(t, "5432", cfg.Lookup("db.port", nil))
		assert.Equal(t, []string{"debug"}, cfg.Strings("modules"))
		assert.Equal(t, []string{"debug", "db", "modules"}, cfg.Keys())
	})

	t.Run("base section", func(t *testing.T) {
		t.Parallel()

		data := `
[app]
name = llama
mode = base

[testing]
mode = test
`
		cfg, err := config.ParseINI([]byte(data), "testing", config.WithBaseSection("app"))
		require.NoError(t, err)

		assert.Equal(t, "llama", cfg.String("name", ""))
		assert.Equal(t, "test", cfg.String("mode", ""))
	})

	t.Run("missing base section", func(t *testing.T) {
		t.Parallel()

		_, err := config.ParseINI([]byte("[testing]\na = 1\n"), "testing", config.WithBaseSection("app"))
		require.ErrorIs(t, err, config.ErrSectionNotFound)
	})

	t.Run("missing section", func(t *testing.T) {
		t.Parallel()

		_, err := config.ParseINI([]byte(appINI), "staging")
		require.ErrorIs(t, err, config.ErrSectionNotFound)
		assert.True(t, config.IsConfigurationError(err))
	})

	t.Run("missing parent", func(t *testing.T) {
		t.Parallel()

		_, err := config.ParseINI([]byte("[a : ghost]\nx = 1\n"), "a")
		require.ErrorIs(t, err, config.ErrSectionNotFound)
	})

	t.Run("inheritance cycle", func(t *testing.T) {
		t.Parallel()

		data := "[a : b]\nx = 1\n\n[b : a]\ny = 2\n"
		_, err := config.ParseINI([]byte(data), "a")
		require.ErrorIs(t, err, config.ErrInheritanceCycle)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		_, err := config.ParseINI([]byte("[broken\nx = 1\n"), "broken")
		require.ErrorIs(t, err, config.ErrParse)
	})
}

func TestLoadINI(t *testing.T) {
	t.Parallel()

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "app.ini")
		require.NoError(t, os.WriteFile(path, []byte(appINI), 0o600))

		cfg, err := config.LoadINI(path, "production")
		require.NoError(t, err)
		assert.Equal(t, "prod.example.com", cfg.Lookup("db.host", nil))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.LoadINI(filepath.Join(t.TempDir(), "nope.ini"), "production")
		require.ErrorIs(t, err, config.ErrReadFile)
	})
}
