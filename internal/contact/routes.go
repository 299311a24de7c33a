package contact

import (
	"net/http"

	"github.com/devfolio/portfolio-backend/internal/middleware"
	"github.com/devfolio/portfolio-backend/internal/user"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	// Public route
	r.Post("/create", h.Create)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.Tokens))
		r.Use(middleware.Admin(user.RoleInfo{}))

		r.Get("/getAll", h.GetAll)
		r.Get("/getById/{id}", h.GetByID)
		r.Put("/update/{id}", h.Update)
		r.Delete("/delete/{id}", h.Delete)
	})

	return r
}
