// Package api serves the dashboard backend: the company collection, its
// upsert and reset operations, and the market charts.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/lead-tracker/internal/leads"
	"github.com/sells-group/lead-tracker/internal/market"
)

// MarketSource provides the chart series.
type MarketSource interface {
	PriceSeries(ctx context.Context) ([]market.PricePoint, error)
	Scatter(ctx context.Context) ([]market.ScatterPoint, error)
	Dashboard(ctx context.Context) market.Dashboard
}

// Option configures the router.
type Option func(*options)

type options struct {
	allowedOrigins []string
}

// WithAllowedOrigins sets the CORS origins (default "*").
func WithAllowedOrigins(origins []string) Option {
	return func(o *options) {
		if len(origins) > 0 {
			o.allowedOrigins = origins
		}
	}
}

type handler struct {
	leads  *leads.Service
	market MarketSource
}

// NewRouter builds the HTTP handler.
func NewRouter(svc *leads.Service, mkt MarketSource, opts ...Option) http.Handler {
	o := options{allowedOrigins: []string{"*"}}
	for _, opt := range opts {
		opt(&o)
	}

	h := &handler{leads: svc, market: mkt}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: o.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.listCompanies)
			r.Post("/", h.submitCompany)
			r.Post("/reset", h.resetCompanies)
		})
		r.Route("/market", func(r chi.Router) {
			r.Get("/", h.dashboard)
			r.Get("/price", h.price)
			r.Get("/scatter", h.scatter)
		})
	})

	return r
}
