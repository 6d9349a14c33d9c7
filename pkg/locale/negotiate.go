package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength bounds the header size handed to the parser.
const maxAcceptLanguageLength = 4096

// Negotiate picks the supported tag that best matches an Accept-Language
// header. It returns fallback when the header is empty or malformed, or when
// nothing in supported is a reasonable match.
//
// Supported tags are returned exactly as given, so "en_US" style names work.
func Negotiate(acceptLanguage string, supported []string, fallback string) string {
	if acceptLanguage == "" || len(supported) == 0 || len(acceptLanguage) > maxAcceptLanguageLength {
		return fallback
	}

	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return fallback
	}

	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		t, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
		if err != nil {
			continue
		}
		tags = append(tags, t)
		names = append(names, s)
	}
	if len(tags) == 0 {
		return fallback
	}

	_, idx, conf := language.NewMatcher(tags).Match(desired...)
	if conf == language.No {
		return fallback
	}
	return names[idx]
}
