package handlers

import (
	"log"

	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// APIKeyHandler manages the caller's MCP API key
type APIKeyHandler struct {
	apiKeyService *services.APIKeyService
}

// NewAPIKeyHandler creates a new API key handler
func NewAPIKeyHandler(apiKeyService *services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService: apiKeyService}
}

// Generate handles POST /api/v1/apikey. The plaintext key appears in
// this response and nowhere else. Any existing key is replaced.
func (h *APIKeyHandler) Generate(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	key, err := h.apiKeyService.Generate(ctx, userID)
	if err != nil {
		return serviceError(c, err, "APIKEY")
	}

	log.Printf("🔑 [APIKEY] Generated key %s for user %s", key.KeyPrefix, userID)
	return c.Status(fiber.StatusCreated).JSON(key)
}

// Status handles GET /api/v1/apikey
func (h *APIKeyHandler) Status(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	status, err := h.apiKeyService.Status(ctx, userID)
	if err != nil {
		return serviceError(c, err, "APIKEY")
	}
	return c.JSON(status)
}

// Revoke handles DELETE /api/v1/apikey
func (h *APIKeyHandler) Revoke(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.apiKeyService.Revoke(ctx, userID); err != nil {
		return serviceError(c, err, "APIKEY")
	}
	return c.JSON(fiber.Map{"success": true})
}
