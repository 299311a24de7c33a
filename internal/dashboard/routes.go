package dashboard

import (
	"net/http"

	"github.com/devfolio/portfolio-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.Tokens))

		r.Get("/analytics", h.Analytics)
	})

	return r
}
