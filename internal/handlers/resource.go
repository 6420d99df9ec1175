package handlers

import (
	"cultivate/internal/models"
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceHandler handles resource API endpoints
type ResourceHandler struct {
	resourceService *services.ResourceService
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resourceService *services.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// Create handles POST /api/v1/resources
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.CreateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	resource, err := h.resourceService.Create(ctx, userID, &req)
	if err != nil {
		return serviceError(c, err, "RESOURCE")
	}
	return c.Status(fiber.StatusCreated).JSON(resource)
}

// ListInbox handles GET /api/v1/resources
func (h *ResourceHandler) ListInbox(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	resources, err := h.resourceService.ListInbox(ctx, userID)
	if err != nil {
		return serviceError(c, err, "RESOURCE")
	}
	return c.JSON(fiber.Map{"resources": resources})
}

// ListByProject handles GET /api/v1/projects/:id/resources
func (h *ResourceHandler) ListByProject(c *fiber.Ctx) error {
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

	resources, err := h.resourceService.ListByProject(ctx, userID, projectID)
	if err != nil {
		return serviceError(c, err, "RESOURCE")
	}
	return c.JSON(fiber.Map{"resources": resources})
}

// Get handles GET /api/v1/resources/:id
func (h *ResourceHandler) Get(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	resourceID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid resource id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	resource, err := h.resourceService.GetByID(ctx, userID, resourceID)
	if err != nil {
		return serviceError(c, err, "RESOURCE")
	}
	return c.JSON(resource)
}

// Update handles PATCH /api/v1/resources/:id
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	resourceID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid resource id")
	}

	var req models.UpdateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	resource, err := h.resourceService.Update(ctx, userID, resourceID, &req)
	if err != nil {
		return serviceError(c, err, "RESOURCE")
	}
	return c.JSON(resource)
}

// Move handles POST /api/v1/resources/:id/move
func (h *ResourceHandler) Move(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	resourceID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid resource id")
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

	resource, err := h.resourceService.MoveToProject(ctx, userID, resourceID, projectID)
	if err != nil {
		return serviceError(c, err, "RESOURCE")
	}
	return c.JSON(resource)
}

// SendAway handles POST /api/v1/resources/:id/away
func (h *ResourceHandler) SendAway(c *fiber.Ctx) error {
	return h.setAway(c, true)
}

// ReturnFromAway handles POST /api/v1/resources/:id/return
func (h *ResourceHandler) ReturnFromAway(c *fiber.Ctx) error {
	return h.setAway(c, false)
}

func (h *ResourceHandler) setAway(c *fiber.Ctx, away bool) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	resourceID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid resource id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	var resource *models.Resource
	if away {
		resource, err = h.resourceService.SendAway(ctx, userID, resourceID)
	} else {
		resource, err = h.resourceService.ReturnFromAway(ctx, userID, resourceID)
	}
	if err != nil {
		return serviceError(c, err, "RESOURCE")
	}
	return c.JSON(resource)
}

// Delete handles DELETE /api/v1/resources/:id
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	resourceID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid resource id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.resourceService.Delete(ctx, userID, resourceID); err != nil {
		return serviceError(c, err, "RESOURCE")
	}
	return c.JSON(fiber.Map{"success": true})
}
