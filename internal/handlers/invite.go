package handlers

import (
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// InviteHandler handles invite code endpoints
type InviteHandler struct {
	inviteService *services.InviteService
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(inviteService *services.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// Generate handles POST /api/v1/invites
func (h *InviteHandler) Generate(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	invite, err := h.inviteService.Generate(ctx, userID)
	if err != nil {
		return serviceError(c, err, "INVITE")
	}
	return c.Status(fiber.StatusCreated).JSON(invite)
}

// ListMine handles GET /api/v1/invites
func (h *InviteHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	codes, err := h.inviteService.ListMine(ctx, userID)
	if err != nil {
		return serviceError(c, err, "INVITE")
	}
	return c.JSON(fiber.Map{"invites": codes})
}
