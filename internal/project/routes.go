package project

import (
	"net/http"

	"github.com/devfolio/portfolio-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/get-by-id/{id}", h.GetByID)
	r.Get("/public", h.ListPublic)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.Tokens))

		r.Get("/get-all", h.List)
		r.Post("/create", h.Create)
		r.Patch("/update/{id}", h.Update)
		r.Delete("/delete/{id}", h.Delete)
	})

	return r
}
