package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/quaint/analyzer/backend"
	"github.com/quaint/analyzer/config"
	"github.com/quaint/analyzer/logging"
	"github.com/quaint/analyzer/static"
	"github.com/riandyrn/otelchi"
	"github.com/rs/zerolog/log"
)

const (
	applicationJSON = "application/json"
	Version         = "2.1.2"
)

type Routing struct {
	ServerName   string
	ParentRouter chi.Router

	AppConfig config.ApplicationConfiguration

	// FrontendConfig Builds the `/api/config` snapshot; called once per request
	FrontendConfig func() any

	// Proxying Enables `/api/ml/*` and the `ml_api_status` health field. Backend may still be nil, meaning not configured.
	Proxying bool
	Backend  backend.Backend

	Static *static.Server

	Now func() time.Time
}

func (rtr *Routing) SetupFunctionalRoutes(r chi.Router) error {
	if rtr.FrontendConfig == nil {
		return errors.New("no frontend configuration provided")
	}
	if rtr.Now == nil {
		rtr.Now = time.Now
	}

	if e := rtr.enableOTelForRouter(r); e != nil {
		return e
	}
	rtr.enableMiddleware(r)

	r.Get("/api/config", rtr.configHandler())
	r.Get("/api/health", rtr.healthHandler())

	if rtr.Proxying {
		for _, res := range Resources {
			r.Get("/api/ml"+res.Route, rtr.proxyHandler(res))
		}
	}

	if rtr.Static != nil {
		rtr.Static.Routes(r)
	}

	return nil
}

func (rtr *Routing) enableMiddleware(r chi.Router) {
	origins := rtr.AppConfig.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	if rtr.AppConfig.Logging.DisableRequests {
		r.Use(middleware.Recoverer)
	} else {
		r.Use(logging.RequestLogger(rtr.ServerName))
	}
}

func (rtr *Routing) enableOTelForRouter(r chi.Router) error {
	if !rtr.AppConfig.Tracing.Enabled {
		return nil
	}

	if rtr.ServerName == "" || rtr.ParentRouter == nil {
		return errors.New("OTel not configured")
	}

	r.Use(otelchi.Middleware(rtr.ServerName, otelchi.WithChiRoutes(rtr.ParentRouter)))

	log.Info().Msgf("OpenTelemetry trace is enabled")
	return nil
}
