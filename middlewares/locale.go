package middlewares

import (
	"slices"

	"github.com/dmitrymomot/llama/internal"
	"github.com/dmitrymomot/llama/pkg/locale"
)

// DefaultLocaleKey is the query parameter and cookie read by the default
// locale extractor.
const DefaultLocaleKey = "lang"

// LocaleConfig configures the Locale middleware.
type LocaleConfig struct {
	Extractor    internal.Extractor
	extractorSet bool
	// ContentLanguage sets the Content-Language response header.
	ContentLanguage bool
}

// LocaleOption configures LocaleConfig.
type LocaleOption func(*LocaleConfig)

// WithLocaleExtractor replaces the chain that reads an explicit locale
// choice. Accept-Language negotiation still runs when it finds nothing.
func WithLocaleExtractor(ext internal.Extractor) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// WithoutContentLanguage stops the middleware from setting the
// Content-Language response header.
func WithoutContentLanguage() LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.ContentLanguage = false
	}
}

// FromAcceptLanguage returns an ExtractorSource that negotiates the
// Accept-Language header against the bundle's supported tags.
func FromAcceptLanguage(bundle *locale.Bundle) internal.ExtractorSource {
	return func(c internal.Context) (string, bool) {
		header := c.Header("Accept-Language")
		if header == "" {
			return "", false
		}
		return bundle.Negotiate(header).Tag(), true
	}
}

// Locale returns middleware that selects the request locale from bundle
// and stores it in the context, where Context.Locale and Context.T find it.
//
// By default an explicit choice is read from the "lang" query parameter,
// then the "lang" cookie. Unsupported values are ignored. Without a
// choice the Accept-Language header is negotiated, and the bundle's
// default locale is the last resort.
//
// Register it from a module so the bundle built from [locale] is used:
//
//	b.Use(middlewares.Locale(b.Locales()))
func Locale(bundle *locale.Bundle, opts ...LocaleOption) internal.Middleware {
	cfg := &LocaleConfig{ContentLanguage: true}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(
			internal.FromQuery(DefaultLocaleKey),
			internal.FromCookie(DefaultLocaleKey),
		)
	}

	supported := bundle.Supported()
	negotiate := FromAcceptLanguage(bundle)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			tag, ok := cfg.Extractor.Extract(c)
			if !ok || !slices.Contains(supported, tag) {
				tag, ok = negotiate(c)
			}

			l := bundle.Default()
			if ok {
				l = bundle.Locale(tag)
			}

			c.Set(internal.LocaleKey{}, l)
			if cfg.ContentLanguage {
				c.SetHeader("Content-Language", l.Tag())
			}

			return next(c)
		}
	}
}
