package middleware

import (
	"log"

	"cultivate/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

// JWTAuthMiddleware verifies the access token and stores the caller's
// identity in the request context.
func JWTAuthMiddleware(jwtAuth *auth.JWTAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := auth.ExtractToken(c.Get("Authorization"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid authorization token",
			})
		}

		identity, err := jwtAuth.VerifyToken(token)
		if err != nil {
			log.Printf("❌ Auth failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", identity.ID)
		c.Locals("user_email", identity.Email)
		return c.Next()
	}
}
