package handlers

import (
	"cultivate/internal/models"
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MCPHandler is the REST shim consumed by MCP tool wrappers. It
// reuses the same services as the web API; only the auth path differs
// (API key instead of a session token).
type MCPHandler struct {
	taskService     *services.TaskService
	thoughtService  *services.ThoughtService
	resourceService *services.ResourceService
	searchService   *services.SearchService
}

// NewMCPHandler creates a new MCP handler
func NewMCPHandler(
	taskService *services.TaskService,
	thoughtService *services.ThoughtService,
	resourceService *services.ResourceService,
	searchService *services.SearchService,
) *MCPHandler {
	return &MCPHandler{
		taskService:     taskService,
		thoughtService:  thoughtService,
		resourceService: resourceService,
		searchService:   searchService,
	}
}

// CreateTask handles POST /mcp/v1/tasks
func (h *MCPHandler) CreateTask(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	services.RecordMCPRequest("create_task")

	var req models.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	task, err := h.taskService.Create(ctx, userID, &req)
	if err != nil {
		return serviceError(c, err, "MCP")
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// CreateNote handles POST /mcp/v1/notes. Notes are thoughts; the MCP
// surface keeps the tool vocabulary.
func (h *MCPHandler) CreateNote(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	services.RecordMCPRequest("create_note")

	var req models.CreateThoughtRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	thought, err := h.thoughtService.Create(ctx, userID, &req)
	if err != nil {
		return serviceError(c, err, "MCP")
	}
	return c.Status(fiber.StatusCreated).JSON(thought)
}

// CreateResource handles POST /mcp/v1/resources
func (h *MCPHandler) CreateResource(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	services.RecordMCPRequest("create_resource")

	var req models.CreateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	resource, err := h.resourceService.Create(ctx, userID, &req)
	if err != nil {
		return serviceError(c, err, "MCP")
	}
	return c.Status(fiber.StatusCreated).JSON(resource)
}

// SearchAll handles GET /mcp/v1/search?q=
func (h *MCPHandler) SearchAll(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	services.RecordMCPRequest("search_all")

	ctx, cancel := requestContext()
	defer cancel()

	results, err := h.searchService.SearchAll(ctx, userID, c.Query("q"))
	if err != nil {
		return serviceError(c, err, "MCP")
	}
	return c.JSON(fiber.Map{"results": results})
}

// SearchProject handles GET /mcp/v1/search/project/:id?q=
func (h *MCPHandler) SearchProject(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	services.RecordMCPRequest("search_project")

	projectID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid project id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	results, err := h.searchService.SearchProject(ctx, userID, projectID, c.Query("q"))
	if err != nil {
		return serviceError(c, err, "MCP")
	}
	return c.JSON(fiber.Map{"results": results})
}

// SearchByType handles GET /mcp/v1/search/type/:type?q=
func (h *MCPHandler) SearchByType(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	services.RecordMCPRequest("search_by_type")

	ctx, cancel := requestContext()
	defer cancel()

	results, err := h.searchService.SearchByType(ctx, userID, models.ItemType(c.Params("type")), c.Query("q"))
	if err != nil {
		return serviceError(c, err, "MCP")
	}
	return c.JSON(fiber.Map{"results": results})
}
