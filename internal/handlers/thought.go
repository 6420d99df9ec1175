package handlers

import (
	"cultivate/internal/models"
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ThoughtHandler handles thought API endpoints
type ThoughtHandler struct {
	thoughtService *services.ThoughtService
}

// NewThoughtHandler creates a new thought handler
func NewThoughtHandler(thoughtService *services.ThoughtService) *ThoughtHandler {
	return &ThoughtHandler{thoughtService: thoughtService}
}

// Create handles POST /api/v1/thoughts
func (h *ThoughtHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.CreateThoughtRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	thought, err := h.thoughtService.Create(ctx, userID, &req)
	if err != nil {
		return serviceError(c, err, "THOUGHT")
	}
	return c.Status(fiber.StatusCreated).JSON(thought)
}

// ListInbox handles GET /api/v1/thoughts
func (h *ThoughtHandler) ListInbox(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	thoughts, err := h.thoughtService.ListInbox(ctx, userID)
	if err != nil {
		return serviceError(c, err, "THOUGHT")
	}
	return c.JSON(fiber.Map{"thoughts": thoughts})
}

// ListByProject handles GET /api/v1/projects/:id/thoughts
func (h *ThoughtHandler) ListByProject(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	projectID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid project id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	thoughts, err := h.thoughtService.ListByProject(ctx, userID, projectID)
	if err != nil {
		return serviceError(c, err, "THOUGHT")
	}
	return c.JSON(fiber.Map{"thoughts": thoughts})
}

// Get handles GET /api/v1/thoughts/:id
func (h *ThoughtHandler) Get(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	thoughtID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid thought id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	thought, err := h.thoughtService.GetByID(ctx, userID, thoughtID)
	if err != nil {
		return serviceError(c, err, "THOUGHT")
	}
	return c.JSON(thought)
}

// Update handles PATCH /api/v1/thoughts/:id
func (h *ThoughtHandler) Update(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	thoughtID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid thought id")
	}

	var req models.UpdateThoughtRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	thought, err := h.thoughtService.Update(ctx, userID, thoughtID, &req)
	if err != nil {
		return serviceError(c, err, "THOUGHT")
	}
	return c.JSON(thought)
}

// Move handles POST /api/v1/thoughts/:id/move
func (h *ThoughtHandler) Move(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	thoughtID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid thought id")
	}

	var req models.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	projectID := primitive.NilObjectID
	if req.ProjectID != "" {
		projectID, err = primitive.ObjectIDFromHex(req.ProjectID)
		if err != nil {
			return badRequest(c, "Invalid project id")
		}
	}

	ctx, cancel := requestContext()
	defer cancel()

	thought, err := h.thoughtService.MoveToProject(ctx, userID, thoughtID, projectID)
	if err != nil {
		return serviceError(c, err, "THOUGHT")
	}
	return c.JSON(thought)
}

// SendAway handles POST /api/v1/thoughts/:id/away
func (h *ThoughtHandler) SendAway(c *fiber.Ctx) error {
	return h.setAway(c, true)
}

// ReturnFromAway handles POST /api/v1/thoughts/:id/return
func (h *ThoughtHandler) ReturnFromAway(c *fiber.Ctx) error {
	return h.setAway(c, false)
}

func (h *ThoughtHandler) setAway(c *fiber.Ctx, away bool) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	thoughtID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid thought id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	var thought *models.Thought
	if away {
		thought, err = h.thoughtService.SendAway(ctx, userID, thoughtID)
	} else {
		thought, err = h.thoughtService.ReturnFromAway(ctx, userID, thoughtID)
	}
	if err != nil {
		return serviceError(c, err, "THOUGHT")
	}
	return c.JSON(thought)
}

// Delete handles DELETE /api/v1/thoughts/:id
func (h *ThoughtHandler) Delete(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	thoughtID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid thought id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.thoughtService.Delete(ctx, userID, thoughtID); err != nil {
		return serviceError(c, err, "THOUGHT")
	}
	return c.JSON(fiber.Map{"success": true})
}
