package locale

import (
	"slices"
	"sync"
)

// Bundle hands out one shared Locale per tag, built with the same options.
type Bundle struct {
	locales   map[string]*Locale
	opts      []Option
	supported []string
	fallback  string
	mu        sync.Mutex
}

// NewBundle creates a bundle for the supported tags. The first supported tag
// is used when negotiation fails.
func NewBundle(supported []string, opts ...Option) *Bundle {
	b := &Bundle{
		locales:   make(map[string]*Locale),
		opts:      opts,
		supported: slices.Clone(supported),
	}
	if len(supported) > 0 {
		b.fallback = supported[0]
	}
	return b
}

// Supported returns the configured tags.
func (b *Bundle) Supported() []string {
	return slices.Clone(b.supported)
}

// Default returns the locale for the first supported tag.
func (b *Bundle) Default() *Locale {
	return b.Locale(b.fallback)
}

// Locale returns the locale for tag, creating it on first use.
func (b *Bundle) Locale(tag string) *Locale {
	b.mu.Lock()
	defer b.mu.Unlock()

	if l, ok := b.locales[tag]; ok {
		return l
	}
	l := New(tag, b.opts...)
	b.locales[tag] = l
	return l
}

// Negotiate returns the locale matching an Accept-Language header.
func (b *Bundle) Negotiate(acceptLanguage string) *Locale {
	return b.Locale(Negotiate(acceptLanguage, b.supported, b.fallback))
}
