package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-hub/lostfound-service/internal/api/http/handlers"
	"github.com/campus-hub/lostfound-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	FoundItems     *handlers.FoundItemsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.SignUp)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Require)
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Patch("/profile", cfg.Auth.UpdateProfile)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	found := app.Group("/found")
	found.Get("/", cfg.AuthMiddleware.Optional, cfg.FoundItems.List)
	found.Post("/", cfg.AuthMiddleware.Require, cfg.FoundItems.Create)

	// Registered before /:id so the literal segment wins.
	found.Get("/my-items", cfg.AuthMiddleware.Require, cfg.FoundItems.MyItems)

	found.Get("/:id", cfg.AuthMiddleware.Optional, cfg.FoundItems.GetByID)
	found.Patch("/:id", cfg.AuthMiddleware.Require, cfg.FoundItems.Update)
	found.Delete("/:id", cfg.AuthMiddleware.Require, cfg.FoundItems.Delete)
	found.Post("/:id/claim", cfg.AuthMiddleware.Require, cfg.FoundItems.Claim)
	found.Post("/:id/unclaim", cfg.AuthMiddleware.Require, cfg.FoundItems.Unclaim)
	found.Patch("/:id/status", cfg.AuthMiddleware.Require, cfg.FoundItems.UpdateStatus)
}
