package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything whose liveness can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	database Pinger
	cache    Pinger
}

// NewHealthHandler builds the health endpoint. cache may be nil when Redis is disabled.
func NewHealthHandler(database, cache Pinger) *HealthHandler {
	return &HealthHandler{database: database, cache: cache}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := fiber.StatusOK
	services := fiber.Map{"database": "connected", "redis": "disabled"}

	if err := h.database.Ping(ctx); err != nil {
		services["database"] = "unavailable"
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		services["redis"] = "connected"
		if err := h.cache.Ping(ctx); err != nil {
			services["redis"] = "unavailable"
			status = "degraded"
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  "1.0.0",
		"services": services,
	})
}
