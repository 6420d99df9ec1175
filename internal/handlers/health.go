package handlers

import (
	"cultivate/internal/database"
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports process and dependency health
type HealthHandler struct {
	mongodb *database.MongoDB
	redis   *services.RedisService
}

// NewHealthHandler creates a new health handler. redis may be nil.
func NewHealthHandler(mongodb *database.MongoDB, redis *services.RedisService) *HealthHandler {
	return &HealthHandler{mongodb: mongodb, redis: redis}
}

// Health handles GET /health. Mongo must answer; Redis is optional and
// only degrades the report.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	status := fiber.Map{"status": "ok"}
	code := fiber.StatusOK

	if err := h.mongodb.Ping(ctx); err != nil {
		status["status"] = "unhealthy"
		status["mongodb"] = "unreachable"
		code = fiber.StatusServiceUnavailable
	} else {
		status["mongodb"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			status["redis"] = "unreachable"
			if status["status"] == "ok" {
				status["status"] = "degraded"
			}
		} else {
			status["redis"] = "ok"
		}
	}

	return c.Status(code).JSON(status)
}
