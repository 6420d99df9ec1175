package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cultivate/internal/database"
	"cultivate/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskService handles CRUD for tasks. Tasks live in the inbox (no
// projectId), under a project, or in the Away archive (isAway).
type TaskService struct {
	collection     *mongo.Collection
	projectService *ProjectService
}

// NewTaskService creates a new task service
func NewTaskService(mongodb *database.MongoDB, projectService *ProjectService) *TaskService {
	return &TaskService{
		collection:     mongodb.Collection(database.CollectionTasks),
		projectService: projectService,
	}
}

// Create inserts a new task. When the task targets a project, the
// caller must own that project and the new id is appended to the
// project's task order.
func (s *TaskService) Create(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("title is required: %w", err)
	}

	var projectID *primitive.ObjectID
	if req.ProjectID != "" {
		oid, err := primitive.ObjectIDFromHex(req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid project id: %w", models.ErrValidation)
		}
		// Ownership check doubles as existence check.
		if _, err := s.projectService.GetByID(ctx, userID, oid); err != nil {
			return nil, err
		}
		projectID = &oid
	}

	now := time.Now()
	task := &models.Task{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ProjectID:   projectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.collection.InsertOne(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	if projectID != nil {
		if err := s.projectService.AppendToTaskOrder(ctx, userID, *projectID, task.ID.Hex()); err != nil {
			// The task exists either way; a failed append just leaves it
			// sorting to the front of the project view.
			log.Printf("⚠️ [TASK] Failed to append task %s to project order: %v", task.ID.Hex(), err)
		}
	}

	return task, nil
}

// GetByID retrieves a task by ID, scoped to user
func (s *TaskService) GetByID(ctx context.Context, userID string, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.collection.FindOne(ctx, bson.M{
		"_id":    taskID,
		"userId": userID,
	}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// ListInbox returns the user's non-archived tasks with no project
func (s *TaskService) ListInbox(ctx context.Context, userID string) ([]models.Task, error) {
	return s.list(ctx, bson.M{
		"userId":    userID,
		"projectId": bson.M{"$exists": false},
		"isAway":    false,
	})
}

// ListByProject returns the project's non-archived tasks sorted by the
// project's stored task order.
func (s *TaskService) ListByProject(ctx context.Context, userID string, projectID primitive.ObjectID) ([]models.Task, error) {
	project, err := s.projectService.GetByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.list(ctx, bson.M{
		"userId":    userID,
		"projectId": projectID,
		"isAway":    false,
	})
	if err != nil {
		return nil, err
	}
	return SortTasksByOrder(tasks, project.TaskOrder), nil
}

func (s *TaskService) list(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cursor, err := s.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// Update partially updates a task
func (s *TaskService) Update(ctx context.Context, userID string, taskID primitive.ObjectID, req *models.UpdateTaskRequest) (*models.Task, error) {
	updates := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("title cannot be empty: %w", models.ErrValidation)
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	return s.findOneAndUpdate(ctx, userID, taskID, bson.M{"$set": updates})
}

// MoveToProject attaches an inbox task to a project (field mutation,
// not a structural change) and appends it to the project's task order.
// A zero projectID moves the task back to the inbox.
func (s *TaskService) MoveToProject(ctx context.Context, userID string, taskID, projectID primitive.ObjectID) (*models.Task, error) {
	if projectID.IsZero() {
		return s.findOneAndUpdate(ctx, userID, taskID, bson.M{
			"$unset": bson.M{"projectId": ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		})
	}

	if _, err := s.projectService.GetByID(ctx, userID, projectID); err != nil {
		return nil, err
	}

	task, err := s.findOneAndUpdate(ctx, userID, taskID, bson.M{"$set": bson.M{
		"projectId": projectID,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return nil, err
	}

	if err := s.projectService.AppendToTaskOrder(ctx, userID, projectID, taskID.Hex()); err != nil {
		log.Printf("⚠️ [TASK] Failed to append moved task %s to project order: %v", taskID.Hex(), err)
	}
	return task, nil
}

// SendAway archives a task
func (s *TaskService) SendAway(ctx context.Context, userID string, taskID primitive.ObjectID) (*models.Task, error) {
	return s.findOneAndUpdate(ctx, userID, taskID, bson.M{"$set": bson.M{
		"isAway":    true,
		"updatedAt": time.Now(),
	}})
}

// ReturnFromAway restores a task from the archive
func (s *TaskService) ReturnFromAway(ctx context.Context, userID string, taskID primitive.ObjectID) (*models.Task, error) {
	return s.findOneAndUpdate(ctx, userID, taskID, bson.M{"$set": bson.M{
		"isAway":    false,
		"updatedAt": time.Now(),
	}})
}

// Delete hard-deletes a task. The id is deliberately left in any
// project order array; readers ignore stale ids.
func (s *TaskService) Delete(ctx context.Context, userID string, taskID primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{
		"_id":    taskID,
		"userId": userID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("task: %w", models.ErrNotFound)
	}
	return nil
}

func (s *TaskService) findOneAndUpdate(ctx context.Context, userID string, taskID primitive.ObjectID, update bson.M) (*models.Task, error) {
	var task models.Task
	err := s.collection.FindOneAndUpdate(ctx, bson.M{
		"_id":    taskID,
		"userId": userID,
	}, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &task, nil
}
