package routers

import (
	"net/http"

	handlers "mudskip/leaderboard/internal/handlers"
	"mudskip/leaderboard/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func UserRoutes(r *chi.Mux, userHandler *handlers.UserHandler, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", userHandler.RegisterHandler)
		r.Post("/login", userHandler.LoginHandler)
		r.Post("/logout", userHandler.LogoutHandler)
		r.With(middleware.RequireUser("You must be logged in to update your profile.")).
			Put("/update", userHandler.UpdateUserHandler)
		r.With(requireAdmin).Delete("/delete/{id}", userHandler.DeleteUserHandler) // Delete user by ID
	})
}
