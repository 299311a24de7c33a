package user

import (
	"net/http"

	"github.com/devfolio/portfolio-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password/{token}", h.ResetPassword)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.Tokens))

		r.Get("/getProfile", h.GetProfile)
		r.Put("/me", h.UpdateProfile)
		r.Put("/password", h.ChangePassword)

		// Account management over other users requires the admin role.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Admin(RoleInfo{}))

			r.Post("/create", h.Create)
			r.Patch("/update/{id}", h.Update)
			r.Delete("/delete/{id}", h.Delete)
			r.Get("/get-all", h.GetAll)
		})
	})

	return r
}
