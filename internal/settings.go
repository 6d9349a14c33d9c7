package internal

import (
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/dmitrymomot/llama/pkg/config"
	"github.com/dmitrymomot/llama/pkg/locale"
)

// Default server timeouts.
const (
	defaultAddress           = ":8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Settings are the runtime values read from the [settings] section.
type Settings struct {
	Address           string        `mapstructure:"address"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes    int           `mapstructure:"max_header_bytes"`
}

// DefaultSettings returns the values used for keys missing from [settings].
func DefaultSettings() Settings {
	return Settings{
		Address:           defaultAddress,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		ShutdownTimeout:   defaultShutdownTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}
}

func loadSettings(n *config.Node) (Settings, error) {
	var s Settings
	if err := config.Decode(n, &s, DefaultSettings()); err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}
	return s, nil
}

// LocaleConfig is read from the [locale] section.
type LocaleConfig struct {
	// Default is the tag used when negotiation fails.
	Default   string   `mapstructure:"default"`
	Supported []string `mapstructure:"supported"`
	// Path is a directory holding <tag>/<domain>.yaml catalogs.
	Path     string `mapstructure:"path"`
	Charset  string `mapstructure:"charset"`
	Fallback string `mapstructure:"fallback"`
}

// tags returns the supported tags with the default one first.
func (lc LocaleConfig) tags() []string {
	tags := make([]string, 0, len(lc.Supported)+1)
	if lc.Default != "" {
		tags = append(tags, lc.Default)
	}
	for _, t := range lc.Supported {
		if t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags
}

func (a *App) buildLocales(n *config.Node) error {
	var lc LocaleConfig
	if err := config.Decode(n, &lc, LocaleConfig{Default: "en", Charset: "UTF-8"}); err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	if a.localeTag != "" {
		lc.Default = a.localeTag
	}

	var fsys fs.FS = a.localeFS
	if fsys == nil && lc.Path != "" {
		fsys = os.DirFS(lc.Path)
	}

	opts := []locale.Option{
		locale.WithCharset(lc.Charset),
		locale.WithLogger(a.logger),
	}
	if fsys != nil {
		opts = append(opts, locale.WithPath(fsys))
	}
	if lc.Fallback != "" {
		opts = append(opts, locale.WithFallback(lc.Fallback))
	}

	a.locales = locale.NewBundle(lc.tags(), opts...)
	return nil
}
