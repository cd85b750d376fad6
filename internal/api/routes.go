package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/gaia-api/internal/config"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, corsCfg config.CORSConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS - the signup form lives on external landing pages. Preflights
	// pass through so the route's own OPTIONS handler answers with 204.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     corsCfg.AllowedOrigins,
		AllowedMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Content-Type"},
		MaxAge:             300,
		OptionsPassthrough: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/join", h.HandleJoin)
		r.Options("/join", h.HandleJoinPreflight)
		r.Get("/pulse", h.HandlePulse)
		r.Get("/health", h.HandleHealth)
	})

	return r
}
