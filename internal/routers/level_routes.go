package routers

import (
	"net/http"

	handlers "mudskip/leaderboard/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func LevelRoutes(r *chi.Mux, levelHandler *handlers.LevelHandler, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/level", func(r chi.Router) {
		r.Get("/", levelHandler.ListLevelsHandler)
		r.Get("/{id}", levelHandler.GetLevelHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", levelHandler.CreateLevelHandler)
			r.Put("/{id}", levelHandler.UpdateLevelHandler)
			r.Delete("/{id}", levelHandler.DeleteLevelHandler)
		})
	})
}

func LevelStatsRoutes(r *chi.Mux, statsHandler *handlers.LevelStatsHandler, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/levelstats", func(r chi.Router) {
		r.Get("/", statsHandler.ListStatsHandler)
		r.With(requireAdmin).Put("/{levelId}", statsHandler.SetCompletionCountHandler)
		r.With(requireAdmin).Delete("/{levelId}", statsHandler.DeleteStatsHandler)
	})
}
