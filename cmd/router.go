package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/okian/presale/internal/adapters/http/api"
	"github.com/okian/presale/internal/adapters/http/auth"
	"github.com/okian/presale/internal/adapters/http/i18n"
	"github.com/okian/presale/internal/adapters/http/site"
	"github.com/okian/presale/internal/adapters/http/swagger"
	app "github.com/okian/presale/internal/app"
	"github.com/okian/presale/internal/config"
	"github.com/okian/presale/pkg/logger"
)

// newRouter mounts the API, the docs and the dashboard on one chi router.
func newRouter(cfg *config.Config, svc *app.Service, a *auth.Authenticator, l logger.Logger) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)

	api.NewServer(svc,
		api.WithAuthenticator(a),
		api.WithCORSOrigins(cfg.CORSOrigins...),
		api.WithLogger(l.Named("api")),
	).Register(r)

	swagger.Register(r)

	pages, err := site.New(svc,
		site.WithAuthenticator(a),
		site.WithResolver(i18n.NewResolver(cfg.DefaultLocale)),
		site.WithLogger(l.Named("site")),
	)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	pages.Register(r)
	return r, nil
}
