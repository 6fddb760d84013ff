package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/bloodbound-service/internal/api/http/handlers"
	"github.com/spec-kit/bloodbound-service/internal/auth"
	"github.com/spec-kit/bloodbound-service/internal/domain"
	"github.com/spec-kit/bloodbound-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/signup", cfg.Auth.Signup)

	app.Post("/profile/update", cfg.AuthMiddleware.Handle, cfg.Profile.Update)
	app.Get("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(string(domain.RoleAdmin)), cfg.Users.List)
}
