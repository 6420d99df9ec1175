package middleware

import (
	"log"
	"strings"
	"time"

	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	// mcpRateLimit caps MCP calls per key per window
	mcpRateLimit  = 60
	mcpRateWindow = time.Minute
)

// APIKeyMiddleware authenticates MCP requests with a bearer API key
// and throttles per key through Redis. A nil redis service disables
// throttling; a Redis error fails open so a cache outage cannot take
// the MCP surface down with it.
func APIKeyMiddleware(apiKeyService *services.APIKeyService, redis *services.RedisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		key := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || key == header {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing API key. Use Authorization: Bearer <key>.",
			})
		}

		user, err := apiKeyService.Validate(c.Context(), key)
		if err != nil {
			log.Printf("❌ [APIKEY-AUTH] Invalid key attempt: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or revoked API key",
			})
		}

		if redis != nil {
			allowed, err := redis.Allow(c.Context(), "mcp:rate:"+user.APIKeyPrefix, mcpRateLimit, mcpRateWindow)
			if err != nil {
				log.Printf("⚠️ [APIKEY-AUTH] Rate limit check failed, allowing request: %v", err)
			} else if !allowed {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Rate limit exceeded. Try again later.",
				})
			}
		}

		c.Locals("user_id", user.ID.Hex())
		c.Locals("user_email", user.Email)
		c.Locals("auth_type", "api_key")

		log.Printf("🔑 [APIKEY-AUTH] Authenticated via API key %s (user: %s)", user.APIKeyPrefix, user.ID.Hex())
		return c.Next()
	}
}
