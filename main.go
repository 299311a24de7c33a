package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/devfolio/portfolio-backend/internal/blog"
	"github.com/devfolio/portfolio-backend/internal/config"
	"github.com/devfolio/portfolio-backend/internal/contact"
	"github.com/devfolio/portfolio-backend/internal/dashboard"
	"github.com/devfolio/portfolio-backend/internal/db"
	"github.com/devfolio/portfolio-backend/internal/experience"
	"github.com/devfolio/portfolio-backend/internal/middleware"
	"github.com/devfolio/portfolio-backend/internal/project"
	"github.com/devfolio/portfolio-backend/internal/qa"
	"github.com/devfolio/portfolio-backend/internal/skill"
	"github.com/devfolio/portfolio-backend/internal/storage"
	"github.com/devfolio/portfolio-backend/internal/testimonial"
	"github.com/devfolio/portfolio-backend/internal/token"
	"github.com/devfolio/portfolio-backend/internal/user"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	db.Connect(cfg.DatabaseURL)

	user.Init()
	blog.Init()
	project.Init()
	skill.Init()
	experience.Init()
	testimonial.Init()
	qa.Init()
	contact.Init()

	tokens := token.NewService(cfg.JWTSecret, token.DefaultLifetime)
	files, err := storage.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize file storage: ", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/user", user.SetupRoutes(&user.Handler{Tokens: tokens, Files: files}))
	r.Mount("/blogs", blog.SetupRoutes(&blog.Handler{Tokens: tokens}))
	r.Mount("/project", project.SetupRoutes(&project.Handler{Tokens: tokens, Files: files}))
	r.Mount("/skill", skill.SetupRoutes(&skill.Handler{Tokens: tokens, Files: files}))
	r.Mount("/experiences", experience.SetupRoutes(&experience.Handler{Tokens: tokens}))
	r.Mount("/testimonials", testimonial.SetupRoutes(&testimonial.Handler{Tokens: tokens, Files: files}))
	r.Mount("/qa", qa.SetupRoutes(&qa.Handler{Tokens: tokens, Files: files}))
	r.Mount("/contact", contact.SetupRoutes(&contact.Handler{Tokens: tokens}))
	r.Mount("/dashboard", dashboard.SetupRoutes(&dashboard.Handler{Tokens: tokens}))

	// Locally stored uploads are served straight off disk; S3-backed
	// deployments return absolute URLs and never hit this route.
	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", uploads.ServeHTTP)

	fmt.Println("Server listening on port :" + cfg.Port + "...")

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
