package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"cultivate/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// handlerTimeout bounds every database-touching request
const handlerTimeout = 10 * time.Second

// requireUser pulls the authenticated user id out of the request
// context. A missing id means the middleware never ran.
func requireUser(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}

// unauthorized writes the standard 401 body
func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Authentication required",
	})
}

// requestContext derives a bounded context for service calls
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}

// parseID parses a hex ObjectID route parameter
func parseID(c *fiber.Ctx, param string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(c.Params(param))
	if err != nil {
		return primitive.NilObjectID, errors.Join(models.ErrValidation, err)
	}
	return oid, nil
}

// serviceError maps a service error to an HTTP response. Sentinel
// errors carry the status; anything else is a 500 with the wrapped
// detail kept out of the response body.
func serviceError(c *fiber.Ctx, err error, logTag string) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, models.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, models.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	case errors.Is(err, models.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("❌ [%s] %v", logTag, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// badRequest rejects an unparseable body
func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}
