/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack and route definitions. This
  is the wiring layer connecting URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the portal frontend

SECURITY NOTE:
  Authentication and subscription gating live in the surrounding portal,
  upstream of this service; no auth middleware is configured here.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/dossiers", func(r chi.Router) {
			r.Get("/", h.ListDossiers)
			r.Post("/", h.CreateDossier)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetDossier)
				r.Put("/", h.UpdateDossier)
				r.Delete("/", h.DeleteDossier)
				r.Put("/terms", h.UpdateTerms)

				r.Post("/events", h.AddEvent)
				r.Put("/events/{eventID}", h.UpdateEvent)
				r.Delete("/events/{eventID}", h.RemoveEvent)

				r.Get("/settlement", h.GetSettlement)
				r.Get("/report", h.GetReport)
				r.Post("/extract", h.Extract)
			})
		})

		r.Route("/calendars", func(r chi.Router) {
			r.Get("/", h.ListCalendars)
			r.Get("/{port}", h.GetCalendar)
		})
	})

	// Prometheus metrics
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Liveness
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
