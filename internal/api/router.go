package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arnavdeep/vidtube-be/internal/api/handlers"
	"github.com/arnavdeep/vidtube-be/internal/auth"
	"github.com/arnavdeep/vidtube-be/internal/config"
	"github.com/arnavdeep/vidtube-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, issuer *auth.TokenIssuer, userService services.UserServiceProvider, authService services.AuthServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg)

	requireAuth := auth.Middleware(issuer)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh-token", authHandler.Refresh)

			// Authenticated routes
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.Logout)
				r.Post("/change-password", authHandler.ChangePassword)
				r.Get("/me", userHandler.GetMe)
				r.Patch("/me", userHandler.UpdateAccount)
				r.Patch("/me/avatar", userHandler.UpdateAvatar)
				r.Patch("/me/cover", userHandler.UpdateCoverImage)
			})
		})
	})

	return r
}
