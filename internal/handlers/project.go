package handlers

import (
	"cultivate/internal/models"
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProjectHandler handles project API endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles POST /api/v1/projects
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	project, err := h.projectService.Create(ctx, userID, &req)
	if err != nil {
		return serviceError(c, err, "PROJECT")
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	projects, err := h.projectService.List(ctx, userID)
	if err != nil {
		return serviceError(c, err, "PROJECT")
	}
	return c.JSON(fiber.Map{"projects": projects})
}

// Get handles GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
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

	project, err := h.projectService.GetByID(ctx, userID, projectID)
	if err != nil {
		return serviceError(c, err, "PROJECT")
	}
	return c.JSON(project)
}

// Update handles PATCH /api/v1/projects/:id
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	projectID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid project id")
	}

	var req models.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	project, err := h.projectService.Update(ctx, userID, projectID, &req)
	if err != nil {
		return serviceError(c, err, "PROJECT")
	}
	return c.JSON(project)
}

// Delete handles DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
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

	if err := h.projectService.Delete(ctx, userID, projectID); err != nil {
		return serviceError(c, err, "PROJECT")
	}
	return c.JSON(fiber.Map{"success": true})
}

// UpdateTaskOrder handles PUT /api/v1/projects/:id/task-order
func (h *ProjectHandler) UpdateTaskOrder(c *fiber.Ctx) error {
	return h.updateOrder(c, h.projectService.UpdateTaskOrder)
}

// UpdateResourceOrder handles PUT /api/v1/projects/:id/resource-order
func (h *ProjectHandler) UpdateResourceOrder(c *fiber.Ctx) error {
	return h.updateOrder(c, h.projectService.UpdateResourceOrder)
}

func (h *ProjectHandler) updateOrder(c *fiber.Ctx, apply services.OrderUpdateFunc) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	projectID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid project id")
	}

	var req models.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Order == nil {
		return badRequest(c, "order array is required")
	}

	ctx, cancel := requestContext()
	defer cancel()

	project, err := apply(ctx, userID, projectID, req.Order)
	if err != nil {
		return serviceError(c, err, "PROJECT")
	}
	return c.JSON(project)
}
