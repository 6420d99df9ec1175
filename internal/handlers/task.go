package handlers

import (
	"cultivate/internal/models"
	"cultivate/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskHandler handles task API endpoints
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /api/v1/tasks
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	task, err := h.taskService.Create(ctx, userID, &req)
	if err != nil {
		return serviceError(c, err, "TASK")
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// ListInbox handles GET /api/v1/tasks
func (h *TaskHandler) ListInbox(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	tasks, err := h.taskService.ListInbox(ctx, userID)
	if err != nil {
		return serviceError(c, err, "TASK")
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

// ListByProject handles GET /api/v1/projects/:id/tasks
func (h *TaskHandler) ListByProject(c *fiber.Ctx) error {
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

	tasks, err := h.taskService.ListByProject(ctx, userID, projectID)
	if err != nil {
		return serviceError(c, err, "TASK")
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

// Get handles GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	taskID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	task, err := h.taskService.GetByID(ctx, userID, taskID)
	if err != nil {
		return serviceError(c, err, "TASK")
	}
	return c.JSON(task)
}

// Update handles PATCH /api/v1/tasks/:id
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	taskID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	var req models.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := requestContext()
	defer cancel()

	task, err := h.taskService.Update(ctx, userID, taskID, &req)
	if err != nil {
		return serviceError(c, err, "TASK")
	}
	return c.JSON(task)
}

// Move handles POST /api/v1/tasks/:id/move. An empty project_id moves
// the task back to the inbox.
func (h *TaskHandler) Move(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	taskID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid task id")
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

	task, err := h.taskService.MoveToProject(ctx, userID, taskID, projectID)
	if err != nil {
		return serviceError(c, err, "TASK")
	}
	return c.JSON(task)
}

// SendAway handles POST /api/v1/tasks/:id/away
func (h *TaskHandler) SendAway(c *fiber.Ctx) error {
	return h.setAway(c, true)
}

// ReturnFromAway handles POST /api/v1/tasks/:id/return
func (h *TaskHandler) ReturnFromAway(c *fiber.Ctx) error {
	return h.setAway(c, false)
}

func (h *TaskHandler) setAway(c *fiber.Ctx, away bool) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	taskID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	var task *models.Task
	if away {
		task, err = h.taskService.SendAway(ctx, userID, taskID)
	} else {
		task, err = h.taskService.ReturnFromAway(ctx, userID, taskID)
	}
	if err != nil {
		return serviceError(c, err, "TASK")
	}
	return c.JSON(task)
}

// Delete handles DELETE /api/v1/tasks/:id
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return unauthorized(c)
	}
	taskID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid task id")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.taskService.Delete(ctx, userID, taskID); err != nil {
		return serviceError(c, err, "TASK")
	}
	return c.JSON(fiber.Map{"success": true})
}
