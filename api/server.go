/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the desk frontend
  5. RateLimit:  Per-IP token bucket (front desk shares one terminal,
                 but the endpoint is reachable from the guest network)

SECURITY NOTE:
  No authentication. The tool runs on the reception LAN, same trust
  model as the paper forms it replaces.
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/frontdesk/config"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg config.ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	if cfg.RateLimitPerSec > 0 {
		r.Use(RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst, cfg.RequestIPHeader))
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.GetDashboard)

		r.Route("/rooms/{room}", func(r chi.Router) {
			r.Get("/", h.GetRoom)
			r.Post("/charges", h.AddRoomCharge)
			r.Delete("/charges/{position}", h.DeleteRoomCharge)
			r.Get("/checkout", h.GetCheckout)
			r.Post("/checkout", h.ConfirmCheckout)
		})

		r.Route("/charges", func(r chi.Router) {
			r.Get("/", h.ListCharges)
			r.Post("/", h.RegisterCharge)
			r.Delete("/{index}", h.DeleteCharge)
		})

		r.Post("/season/reset", h.ResetSeason)

		r.Route("/registry", func(r chi.Router) {
			r.Get("/", h.GetRegistryInfo)
			r.Post("/", h.UploadRegistry)
		})

		r.Route("/exports", func(r chi.Router) {
			r.Get("/day-close", h.ExportDayClose)
			r.Get("/cash-handover", h.ExportCashHandover)
			r.Get("/checkouts", h.ExportCheckouts)
		})
	})

	return r
}
