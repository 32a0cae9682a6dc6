// Package site serves the localized, server-rendered admin dashboard and
// its sign-in page.
package site

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/okian/presale/internal/adapters/http/auth"
	"github.com/okian/presale/internal/adapters/http/i18n"
	"github.com/okian/presale/pkg/logger"
)

// Error constants
var (
	ErrTemplate = errors.New("dashboard template failed")
	ErrForm     = errors.New("invalid form input")
)

// Page paths below the locale prefix.
const (
	PathSignIn    = "/sign-in"
	PathSignOut   = "/sign-out"
	PathDashboard = "/admin/dashboard"
)

// publicPages are reachable without a session; signed-in users are sent on
// to the dashboard.
var publicPages = map[string]bool{
	PathSignIn: true,
}

// Handler renders the dashboard pages.
type Handler struct {
	deps     Dependencies
	auth     *auth.Authenticator
	resolver *i18n.Resolver
	logger   logger.Logger
	pages    map[string]*template.Template
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithAuthenticator guards the admin pages with the session cookie.
func WithAuthenticator(a *auth.Authenticator) Option {
	return func(h *Handler) {
		if a != nil {
			h.auth = a
		}
	}
}

// WithResolver sets the locale negotiation used for unprefixed paths.
func WithResolver(r *i18n.Resolver) Option {
	return func(h *Handler) {
		if r != nil {
			h.resolver = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// New parses the embedded templates and returns a Handler.
func New(deps Dependencies, opts ...Option) (*Handler, error) {
	h := &Handler{
		deps:     deps,
		auth:     auth.Disabled(),
		resolver: i18n.NewResolver(string(i18n.English)),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get()
	}

	h.pages = make(map[string]*template.Template, 2)
	for _, page := range []string{"sign_in.html", "dashboard.html"} {
		t, err := template.New(page).Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, page, err)
		}
		h.pages[page] = t
	}
	return h, nil
}

// Register attaches the page routes to r. Page paths without a locale
// prefix redirect to the negotiated locale.
func (h *Handler) Register(r chi.Router) {
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS()))))

	redirect := h.resolver.Redirect(http.NotFoundHandler())
	r.Method(http.MethodGet, "/", redirect)
	r.Method(http.MethodGet, PathSignIn, redirect)
	r.Method(http.MethodGet, "/admin/*", redirect)

	r.Route("/{lang:"+localePattern()+"}", func(r chi.Router) {
		r.Use(h.guard)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, pagePath(locale(req), PathDashboard), http.StatusSeeOther)
		})
		r.Get(PathSignIn, h.handleSignInPage)
		r.Post(PathSignIn, h.handleSignIn)
		r.Post(PathSignOut, h.handleSignOut)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", h.handleDashboard)
			r.Post("/token-price", h.handleTokenPrice)
			r.Post("/tables/{category}", h.handleCells)
			r.Post("/tables/{category}/packages", h.handleAddPackage)
			r.Post("/tables/{category}/packages/remove", h.handleRemovePackage)
			r.Post("/events/{id}", h.handleBonus)
			r.Post("/presale-events", h.handleAddPresaleEvent)
			r.Post("/presale-events/{id}", h.handleUpdatePresaleEvent)
			r.Post("/presale-events/{id}/delete", h.handleDeletePresaleEvent)
		})
	})
}

// guard sends visitors without a session to the sign-in page and signed-in
// users away from the public pages.
func (h *Handler) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l, rest, _ := i18n.Split(r.URL.Path)
		rest = "/" + strings.Trim(rest, "/")
		signedIn := h.auth.Authenticated(r)

		switch {
		case publicPages[rest] && signedIn:
			http.Redirect(w, r, pagePath(l, PathDashboard), http.StatusSeeOther)
			return
		case !publicPages[rest] && !signedIn:
			http.Redirect(w, r, pagePath(l, PathSignIn), http.StatusSeeOther)
			return
		}
		i18n.SetCookie(w, l)
		next.ServeHTTP(w, r)
	})
}

func localePattern() string {
	codes := make([]string, 0, len(i18n.Locales()))
	for _, l := range i18n.Locales() {
		codes = append(codes, string(l))
	}
	return "(" + strings.Join(codes, "|") + ")"
}

func locale(r *http.Request) i18n.Locale {
	l, ok := i18n.Parse(chi.URLParam(r, "lang"))
	if !ok {
		return i18n.English
	}
	return l
}

func pagePath(l i18n.Locale, path string) string {
	return "/" + string(l) + path
}
