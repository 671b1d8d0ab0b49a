package seo

import (
	"fmt"
	"strings"

	"github.com/tieubaoca/aquaevents/types"
	"golang.org/x/text/language"
)

// XDefault is the hreflang value for the language-neutral fallback URL.
const XDefault = "x-default"

// Localizer maps site-relative paths to their per-locale URLs. The default
// locale is served without a prefix, every other locale under /<locale>.
type Localizer struct {
	origin        string
	defaultLocale string
	locales       []string
	matcher       language.Matcher
}

func NewLocalizer(origin, defaultLocale string, locales []string) (*Localizer, error) {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", defaultLocale, err)
	}
	tags := []language.Tag{def}
	codes := []string{def.String()}
	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", l, err)
		}
		if tag == def {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, tag.String())
	}
	return &Localizer{
		origin:        strings.TrimRight(origin, "/"),
		defaultLocale: def.String(),
		locales:       codes,
		matcher:       language.NewMatcher(tags),
	}, nil
}

func (l *Localizer) Origin() string {
	return l.origin
}

func (l *Localizer) Default() string {
	return l.defaultLocale
}

// Locales returns the supported locales, default first.
func (l *Localizer) Locales() []string {
	return append([]string(nil), l.locales...)
}

func (l *Localizer) Supported(locale string) bool {
	for _, c := range l.locales {
		if c == locale {
			return true
		}
	}
	return false
}

// Match returns override when it is supported, otherwise the best match for
// an Accept-Language header, otherwise the default locale.
func (l *Localizer) Match(acceptLanguage, override string) string {
	if override != "" && l.Supported(override) {
		return override
	}
	if acceptLanguage == "" {
		return l.defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.defaultLocale
	}
	_, idx, conf := l.matcher.Match(tags...)
	if conf == language.No {
		return l.defaultLocale
	}
	return l.locales[idx]
}

func (l *Localizer) Path(locale, path string) string {
	if path == "" {
		path = "/"
	}
	if locale == l.defaultLocale || !l.Supported(locale) {
		return path
	}
	if path == "/" {
		return "/" + locale
	}
	return "/" + locale + path
}

func (l *Localizer) URL(locale, path string) string {
	return AbsoluteURL(l.origin, l.Path(locale, path))
}

// Alternates lists one hreflang link per locale plus x-default.
func (l *Localizer) Alternates(path string) []types.Alternate {
	out := make([]types.Alternate, 0, len(l.locales)+1)
	for _, c := range l.locales {
		out = append(out, types.Alternate{Hreflang: c, Href: l.URL(c, path)})
	}
	out = append(out, types.Alternate{Hreflang: XDefault, Href: l.URL(l.defaultLocale, path)})
	return out
}

// Split separates a locale prefix from a request path.
func (l *Localizer) Split(path string) (string, string) {
	trimmed := strings.TrimPrefix(path, "/")
	first, rest, _ := strings.Cut(trimmed, "/")
	if first != "" && first != l.defaultLocale && l.Supported(first) {
		return first, "/" + rest
	}
	if path == "" {
		return l.defaultLocale, "/"
	}
	return l.defaultLocale, path
}
