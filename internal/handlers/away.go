package handlers

import (
	"strconv"

	"cultivate/internal/models"
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AwayHandler serves the archived-item views
type AwayHandler struct {
	awayService *services.AwayService
}

// NewAwayHandler creates a new away handler
func NewAwayHandler(awayService *services.AwayService) *AwayHandler {
	return &AwayHandler{awayService: awayService}
}

// ListDays handles GET /api/v1/away?until=YYYY-MM-DD
// Returns the merged per-day feed from today back to `until` (clamped
// to the oldest archived item).
func (h *AwayHandler) ListDays(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	feed, err := h.awayService.ListDays(ctx, userID, c.Query("until"))
	if err != nil {
		return serviceError(c, err, "AWAY")
	}
	return c.JSON(feed)
}

// ListByDate handles GET /api/v1/away/:type/:date?cursor=&limit=
// Returns one keyset page of a single item type within one day.
func (h *AwayHandler) ListByDate(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	itemType := models.ItemType(c.Params("type"))
	limit, _ := strconv.Atoi(c.Query("limit", "0"))
	if limit < 0 || limit > 100 {
		limit = 0
	}

	ctx, cancel := requestContext()
	defer cancel()

	page, err := h.awayService.GetItemsByDate(ctx, userID, itemType, c.Params("date"), c.Query("cursor"), limit)
	if err != nil {
		return serviceError(c, err, "AWAY")
	}
	return c.JSON(page)
}

// OldestDate handles GET /api/v1/away/oldest
func (h *AwayHandler) OldestDate(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	oldest, err := h.awayService.GetOldestAwayDate(ctx, userID)
	if err != nil {
		return serviceError(c, err, "AWAY")
	}
	if oldest == nil {
		return c.JSON(fiber.Map{"oldest_date": nil})
	}
	return c.JSON(fiber.Map{"oldest_date": oldest.Format(services.DateLayout)})
}
