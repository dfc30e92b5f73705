package api

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Pinger reports backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	redis Pinger
	db    Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(redis, db Pinger) *HealthHandler {
	return &HealthHandler{redis: redis, db: db}
}

// Check verifies that both backends respond.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	if err := h.redis.Ping(c.Context()); err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "redis unavailable")
	}
	if err := h.db.Ping(c.Context()); err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "database unavailable")
	}
	return jsonSuccess(c, fiber.Map{"healthy": true})
}
