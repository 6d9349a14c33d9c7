package locale

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/llama/pkg/logger"
)

// DefaultCharset is the charset reported when none is configured.
const DefaultCharset = "UTF-8"

// Locale translates messages for one language tag.
// Catalogs are bound per domain on first use and cached.
// A Locale is safe for concurrent use.
type Locale struct {
	fsys     fs.FS
	logger   *slog.Logger
	catalogs map[string]map[string]string
	group    singleflight.Group
	tag      string
	charset  string
	fallback string
	mu       sync.RWMutex
}

// Option configures a Locale.
type Option func(*Locale)

// WithPath sets the file system holding the "<tag>/<domain>.yaml" catalogs.
func WithPath(fsys fs.FS) Option {
	return func(l *Locale) {
		l.fsys = fsys
	}
}

// WithCharset sets the charset reported by Charset.
// Default: UTF-8
func WithCharset(charset string) Option {
	return func(l *Locale) {
		if charset != "" {
			l.charset = charset
		}
	}
}

// WithFallback sets the tag whose catalogs are used when the locale's own
// catalog for a domain does not exist.
func WithFallback(tag string) Option {
	return func(l *Locale) {
		l.fallback = tag
	}
}

// WithLogger sets the logger used to report catalog problems.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Locale) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// New creates a locale for tag, such as "en_US" or "de".
func New(tag string, opts ...Option) *Locale {
	l := &Locale{
		tag:      tag,
		charset:  DefaultCharset,
		logger:   logger.NewNope(),
		catalogs: make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tag returns the language tag.
func (l *Locale) Tag() string {
	return l.tag
}

// Charset returns the configured charset.
func (l *Locale) Charset() string {
	return l.charset
}

// String implements fmt.Stringer.
func (l *Locale) String() string {
	return l.tag
}

// Domains returns the bound domains in sorted order.
func (l *Locale) Domains() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	domains := make([]string, 0, len(l.catalogs))
	for d := range l.catalogs {
		domains = append(domains, d)
	}
	slices.Sort(domains)
	return domains
}

// BindDomain loads the catalog for domain. Binding an already bound domain
// is a no-op. Concurrent binds of the same domain share a single load.
//
// When neither the locale's tag, its base language nor the fallback has a
// catalog, the domain is bound empty and ErrCatalogNotFound is returned;
// translations in that domain return the message unchanged.
func (l *Locale) BindDomain(domain string) error {
	if domain == "" {
		return ErrEmptyDomain
	}
	if l.bound(domain) {
		return nil
	}

	_, err, _ := l.group.Do(domain, func() (any, error) {
		if l.bound(domain) {
			return nil, nil
		}

		catalog, err := l.load(domain)
		if err != nil && !errors.Is(err, ErrCatalogNotFound) {
			return nil, err
		}

		l.mu.Lock()
		l.catalogs[domain] = catalog
		l.mu.Unlock()

		return nil, err
	})
	return err
}

// Translate returns the translation of message in domain, or message itself
// when the catalog has none. With args the text is used as a fmt format.
// The domain is bound on first use.
func (l *Locale) Translate(domain, message string, args ...any) string {
	if err := l.BindDomain(domain); err != nil {
		l.logger.Debug("locale: bind domain",
			slog.String("locale", l.tag),
			slog.String("domain", domain),
			slog.Any("error", err),
		)
	}

	text := message
	l.mu.RLock()
	if t, ok := l.catalogs[domain][message]; ok && t != "" {
		text = t
	}
	l.mu.RUnlock()

	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

func (l *Locale) bound(domain string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.catalogs[domain]
	return ok
}

func (l *Locale) load(domain string) (map[string]string, error) {
	if l.fsys == nil {
		return map[string]string{}, nil
	}

	var lastErr error
	for _, tag := range l.candidates() {
		catalog, err := readCatalog(l.fsys, tag, domain)
		if err == nil {
			return catalog, nil
		}
		if !errors.Is(err, ErrCatalogNotFound) {
			return nil, err
		}
		lastErr = err
	}
	return map[string]string{}, lastErr
}

// candidates lists the catalog directories to try, most specific first.
func (l *Locale) candidates() []string {
	out := []string{l.tag}
	if base, _, ok := strings.Cut(strings.ReplaceAll(l.tag, "-", "_"), "_"); ok && base != "" {
		out = append(out, base)
	}
	if l.fallback != "" && !slices.Contains(out, l.fallback) {
		out = append(out, l.fallback)
	}
	return out
}
