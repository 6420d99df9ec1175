package handlers

import (
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SearchHandler handles search API endpoints
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchAll handles GET /api/v1/search?q=
func (h *SearchHandler) SearchAll(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	results, err := h.searchService.SearchAll(ctx, userID, c.Query("q"))
	if err != nil {
		return serviceError(c, err, "SEARCH")
	}
	return c.JSON(fiber.Map{"results": results})
}

// SearchProject handles GET /api/v1/projects/:id/search?q=
func (h *SearchHandler) SearchProject(c *fiber.Ctx) error {
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

	results, err := h.searchService.SearchProject(ctx, userID, projectID, c.Query("q"))
	if err != nil {
		return serviceError(c, err, "SEARCH")
	}
	return c.JSON(fiber.Map{"results": results})
}
