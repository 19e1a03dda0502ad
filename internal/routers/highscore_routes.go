package routers

import (
	"net/http"

	handlers "mudskip/leaderboard/internal/handlers"
	"mudskip/leaderboard/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func HighscoreRoutes(r *chi.Mux, highscoreHandler *handlers.HighscoreHandler, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/highscore", func(r chi.Router) {
		r.With(middleware.RequireUser("You must be logged in to view your highscores.")).
			Get("/my-highscores", highscoreHandler.MyHighscoresHandler)
		r.Get("/{dotLevel}", highscoreHandler.LevelHighscoresHandler)
		r.With(middleware.RequireUser("You must be logged in to post a highscore.")).
			Post("/", highscoreHandler.SubmitHighscoreHandler)
		r.With(requireAdmin).Delete("/{id}", highscoreHandler.DeleteHighscoreHandler)
	})
}
