package handlers

import (
	"cultivate/internal/models"
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DocumentHandler handles document API endpoints
type DocumentHandler struct {
	documentService *services.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Create handles POST /api/v1/documents
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	doc, err := h.documentService.Create(ctx, userID, &req)
	if err != nil {
		return serviceError(c, err, "DOCUMENT")
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	docs, err := h.documentService.List(ctx, userID)
	if err != nil {
		return serviceError(c, err, "DOCUMENT")
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// Get handles GET /api/v1/documents/:id
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	docID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid document id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	doc, err := h.documentService.GetByID(ctx, userID, docID)
	if err != nil {
		return serviceError(c, err, "DOCUMENT")
	}
	return c.JSON(doc)
}

// GetPublished handles GET /api/v1/public/documents/:id with no auth.
// Only documents explicitly marked published resolve.
func (h *DocumentHandler) GetPublished(c *fiber.Ctx) error {
	docID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid document id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	doc, err := h.documentService.GetPublished(ctx, docID)
	if err != nil {
		return serviceError(c, err, "DOCUMENT")
	}
	return c.JSON(doc)
}

// Update handles PATCH /api/v1/documents/:id
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	docID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid document id")
	}

	var req models.UpdateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	doc, err := h.documentService.Update(ctx, userID, docID, &req)
	if err != nil {
		return serviceError(c, err, "DOCUMENT")
	}
	return c.JSON(doc)
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	docID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid document id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.documentService.Delete(ctx, userID, docID); err != nil {
		return serviceError(c, err, "DOCUMENT")
	}
	return c.JSON(fiber.Map{"success": true})
}
