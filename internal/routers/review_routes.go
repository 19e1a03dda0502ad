package routers

import (
	"net/http"

	handlers "mudskip/leaderboard/internal/handlers"
	"mudskip/leaderboard/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func ReviewRoutes(r *chi.Mux, reviewHandler *handlers.ReviewHandler, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/review", func(r chi.Router) {
		r.With(middleware.RequireUser("You must be logged in to post a review.")).
			Post("/", reviewHandler.PostReviewHandler)
		r.Get("/all", reviewHandler.ListReviewsHandler)
		r.With(requireAdmin).Delete("/{reviewId}", reviewHandler.DeleteReviewHandler)
	})
}
