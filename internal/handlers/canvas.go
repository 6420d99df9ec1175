package handlers

import (
	"cultivate/internal/models"
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CanvasHandler handles canvas API endpoints
type CanvasHandler struct {
	canvasService *services.CanvasService
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(canvasService *services.CanvasService) *CanvasHandler {
	return &CanvasHandler{canvasService: canvasService}
}

// Create handles POST /api/v1/canvases
func (h *CanvasHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.SaveCanvasRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	canvas, err := h.canvasService.Create(ctx, userID, &req)
	if err != nil {
		return serviceError(c, err, "CANVAS")
	}
	return c.Status(fiber.StatusCreated).JSON(canvas)
}

// List handles GET /api/v1/canvases
func (h *CanvasHandler) List(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	canvases, err := h.canvasService.List(ctx, userID)
	if err != nil {
		return serviceError(c, err, "CANVAS")
	}
	return c.JSON(fiber.Map{"canvases": canvases})
}

// Get handles GET /api/v1/canvases/:id
func (h *CanvasHandler) Get(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	canvasID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid canvas id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	canvas, err := h.canvasService.GetByID(ctx, userID, canvasID)
	if err != nil {
		return serviceError(c, err, "CANVAS")
	}
	return c.JSON(canvas)
}

// Save handles PUT /api/v1/canvases/:id
func (h *CanvasHandler) Save(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	canvasID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid canvas id")
	}

	var req models.SaveCanvasRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	canvas, err := h.canvasService.Save(ctx, userID, canvasID, &req)
	if err != nil {
		return serviceError(c, err, "CANVAS")
	}
	return c.JSON(canvas)
}

// Delete handles DELETE /api/v1/canvases/:id
func (h *CanvasHandler) Delete(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	canvasID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid canvas id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.canvasService.Delete(ctx, userID, canvasID); err != nil {
		return serviceError(c, err, "CANVAS")
	}
	return c.JSON(fiber.Map{"success": true})
}
