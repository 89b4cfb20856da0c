package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/api/http/handlers"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/v1/auth", cfg.AuthMiddleware.Handle)
	authGroup.Post("/switch-role", cfg.Auth.SwitchRole)
	authGroup.Get("/session", cfg.Auth.CurrentSession)
}
