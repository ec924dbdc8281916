// Package http assembles the API surface: public reads, the authenticated
// user-scoped routes, and the operational endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"confhub/internal/platform/middleware"
)

// Registrar registers a handler's routes on a router subtree.
type Registrar interface {
	Register(r chi.Router)
}

// InternalRegistrar registers operational routes not exposed to end users.
type InternalRegistrar interface {
	RegisterInternal(r chi.Router)
}

// Deps carries everything the router mounts.
type Deps struct {
	Validator middleware.TokenValidator
	Logger    *slog.Logger

	Public        []Registrar // no auth: featured speaker, announcement reads
	Authenticated []Registrar // require a verified caller identity
	Internal      []InternalRegistrar
}

// NewRouter builds the chi router with the standard middleware stack.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		for _, reg := range d.Public {
			reg.Register(r)
		}
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Validator, d.Logger))
			for _, reg := range d.Authenticated {
				reg.Register(r)
			}
		})
	})

	r.Route("/internal", func(r chi.Router) {
		for _, reg := range d.Internal {
			reg.RegisterInternal(r)
		}
	})

	return r
}
