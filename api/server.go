/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. Auth:       Bearer-token resolution (everything under /api)

ROUTE GROUPS:
  /api/user/*   Per-user calculations and registrations
  /api/RedDays  Shared calendar lookups
  /healthz      Liveness, unauthenticated

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: The authentication middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, auth *Authenticator) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Healthz)

	// API routes, all behind auth
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Route("/user", func(r chi.Router) {
			r.Get("/AbsenceOverview", h.GetAbsenceOverview)
			r.Get("/VacationOverview", h.GetVacationOverview)
			r.Get("/InvoiceRate", h.GetInvoiceRate)
			r.Get("/InvoiceStatistics", h.GetInvoiceStatistics)
			r.Get("/TimeEntries", h.GetTimeEntries)
			r.Post("/TimeEntries", h.PostTimeEntries)
			r.Get("/EarnedOvertime", h.GetEarnedOvertime)
			r.Get("/Profile", h.GetProfile)
			r.Post("/AccessToken", h.PostAccessToken)
			r.Delete("/AccessToken", h.DeleteAccessToken)
		})

		r.Get("/RedDays", h.GetRedDays)
	})

	return r
}
