package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ykuchin/skillmarket/internal/api"
	apiMiddleware "github.com/ykuchin/skillmarket/internal/api/middleware"
	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/platform/metrics"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(metrics.Middleware)

	authHandler := api.NewAuthHandler(app.authService)
	categoryHandler := api.NewCategoryHandler(app.categoryService)
	listingHandler := api.NewListingHandler(app.listingService)
	providerHandler := api.NewProviderHandler(app.providerService)
	skillHandler := api.NewSkillHandler(app.skillService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Get("/auth/activate", authHandler.Activate)
		r.Post("/auth/activate", authHandler.Activate)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Public reads
		r.Get("/categories", categoryHandler.List)
		r.Get("/services", listingHandler.List)
		r.Get("/services/{id}", listingHandler.Get)
		r.Get("/executers", providerHandler.List)
		r.Get("/skills", skillHandler.List)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/services", listingHandler.Create)
			r.Put("/services/{id}", listingHandler.Update)
			r.Delete("/services/{id}", listingHandler.Delete)
			r.Post("/executers", providerHandler.Create)

			r.With(authMiddleware.RequireRole(domain.RoleAdmin)).
				Post("/categories", categoryHandler.Create)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
