package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-report/internal/api/http/handlers"
	"github.com/spec-kit/civic-report/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Issues         *handlers.IssuesHandler
	Verify         *handlers.VerifyHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Listing and the PATCH override carry no
// authentication, matching the reference surface; only issue creation
// requires a bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Health)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)

	app.Post("/verify", cfg.Verify.Verify)

	app.Get("/issues", cfg.Issues.List)
	app.Post("/issues", cfg.AuthMiddleware.Handle, cfg.Issues.Create)
	app.Patch("/issues/:id", cfg.Issues.Update)
}
