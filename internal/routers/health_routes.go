package routers

import (
	handlers "mudskip/leaderboard/internal/handlers"
	"mudskip/leaderboard/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// HealthRoutes exposes the probe endpoints and /metrics.
func HealthRoutes(r *chi.Mux, healthHandler *handlers.HealthHandler) {
	r.Get("/healthz", healthHandler.HealthzHandler)
	r.Get("/readyz", healthHandler.ReadyzHandler)
	r.Method("GET", "/metrics", metrics.Handler())
}
