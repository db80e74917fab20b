package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-hub/lostfound-service/internal/config"
	"github.com/campus-hub/lostfound-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	app   config.AppConfig
	pg    *persistence.Postgres
	redis *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(app config.AppConfig, pg *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{app: app, pg: pg, redis: redis}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"status":  "ok",
			"service": h.app.Name,
			"version": h.app.Version,
		},
	})
}

// Ready GET /health/ready. Postgres is mandatory; Redis is reported but
// does not fail readiness because the item cache degrades gracefully.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{"postgres": "ok", "redis": "ok"}
	status := fiber.StatusOK
	ready := true

	if err := h.pg.Ping(c.Context()); err != nil {
		checks["postgres"] = err.Error()
		status = fiber.StatusServiceUnavailable
		ready = false
	}
	if err := h.redis.Ping(c.Context()); err != nil {
		checks["redis"] = err.Error()
	}

	return c.Status(status).JSON(fiber.Map{
		"success": ready,
		"data": fiber.Map{
			"status": checks,
		},
	})
}
