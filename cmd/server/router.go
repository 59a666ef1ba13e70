package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/passgate/internal/api"
	apiMiddleware "github.com/phrazzld/passgate/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.accountService)
	userHandler := api.NewUserHandler(app.accountService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	r.With(authMiddleware.OptionalAuth).Get("/", api.Root)
	r.Get("/items/{item_id}", api.GetItem)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)

		if app.loginLimiter != nil {
			r.With(apiMiddleware.RateLimit(app.loginLimiter, app.metrics)).Post("/login", authHandler.Login)
		} else {
			r.Post("/login", authHandler.Login)
		}

		r.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.With(apiMiddleware.RequireActiveUser(app.userStore)).Get("/protected", userHandler.Profile)
		r.With(apiMiddleware.RequireAdmin(app.config.Auth.AdminUsers)).Get("/admin", userHandler.AdminStats)
	})

	r.Get("/health", api.Health)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
