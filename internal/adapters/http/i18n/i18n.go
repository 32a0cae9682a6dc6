// Package i18n resolves the dashboard locale and prints localized labels.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "presale_lang"
)

// Locale is the URL form of a supported language, e.g. "zh-hans".
type Locale string

// Supported locales, in the order offered by the language switcher.
const (
	English            Locale = "en"
	Vietnamese         Locale = "vi"
	SimplifiedChinese  Locale = "zh-hans"
	TraditionalChinese Locale = "zh-hant"
)

var locales = []struct {
	code  Locale
	tag   language.Tag
	label string
}{
	{English, language.English, "English"},
	{Vietnamese, language.Vietnamese, "Tiếng Việt"},
	{SimplifiedChinese, language.SimplifiedChinese, "简体中文"},
	{TraditionalChinese, language.TraditionalChinese, "繁體中文"},
}

// Locales returns every supported locale.
func Locales() []Locale {
	out := make([]Locale, len(locales))
	for i, l := range locales {
		out[i] = l.code
	}
	return out
}

// Parse maps a URL segment to a supported locale.
func Parse(s string) (Locale, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range locales {
		if string(l.code) == s {
			return l.code, true
		}
	}
	return "", false
}

// Tag returns the BCP 47 tag of l, English for unknown values.
func (l Locale) Tag() language.Tag {
	for _, c := range locales {
		if c.code == l {
			return c.tag
		}
	}
	return language.English
}

// Label returns the native name of l.
func (l Locale) Label() string {
	for _, c := range locales {
		if c.code == l {
			return c.label
		}
	}
	return string(l)
}

// Printer returns a message printer for l.
func (l Locale) Printer() *message.Printer {
	return message.NewPrinter(l.Tag())
}

// Resolver negotiates the locale of a request.
type Resolver struct {
	matcher language.Matcher
	def     Locale
}

// NewResolver creates a resolver falling back to def. An unsupported def
// falls back to English.
func NewResolver(def string) *Resolver {
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = l.tag
	}
	d, ok := Parse(def)
	if !ok {
		d = English
	}
	return &Resolver{matcher: language.NewMatcher(tags), def: d}
}

// Default returns the fallback locale.
func (r *Resolver) Default() Locale {
	return r.def
}

// Resolve picks the locale of r from the lang query parameter, the
// language cookie, then Accept-Language.
func (r *Resolver) Resolve(req *http.Request) Locale {
	if req == nil {
		return r.def
	}
	if l, ok := Parse(req.URL.Query().Get(LangParam)); ok {
		return l
	}
	if c, err := req.Cookie(LangCookieName); err == nil {
		if l, ok := Parse(c.Value); ok {
			return l
		}
	}
	if accept := strings.TrimSpace(req.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := r.matcher.Match(tags...)
			if conf != language.No && idx >= 0 && idx < len(locales) {
				return locales[idx].code
			}
		}
	}
	return r.def
}

// Split separates a leading locale segment from path. ok is false when
// path does not start with a supported locale.
func Split(path string) (l Locale, rest string, ok bool) {
	trimmed := strings.TrimPrefix(path, "/")
	head, tail, _ := strings.Cut(trimmed, "/")
	l, ok = Parse(head)
	if !ok {
		return "", path, false
	}
	return l, "/" + tail, true
}

// Redirect sends requests whose path lacks a locale prefix to
// /{locale}{path}, keeping the query string.
func (r *Resolver) Redirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if _, _, ok := Split(req.URL.Path); ok {
			next.ServeHTTP(w, req)
			return
		}
		target := "/" + string(r.Resolve(req)) + req.URL.Path
		if req.URL.RawQuery != "" {
			target += "?" + req.URL.RawQuery
		}
		http.Redirect(w, req, target, http.StatusTemporaryRedirect)
	})
}

// SetCookie persists the selected locale on the response.
func SetCookie(w http.ResponseWriter, l Locale) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    string(l),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
