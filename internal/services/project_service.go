package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cultivate/internal/database"
	"cultivate/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectService handles CRUD for projects and keeps the denormalized
// task/resource order arrays in sync with item creation and
// drag-and-drop reordering.
type ProjectService struct {
	collection *mongo.Collection
}

// NewProjectService creates a new project service
func NewProjectService(mongodb *database.MongoDB) *ProjectService {
	return &ProjectService{
		collection: mongodb.Collection(database.CollectionProjects),
	}
}

// Create inserts a new project
func (s *ProjectService) Create(ctx context.Context, userID string, req *models.CreateProjectRequest) (*models.Project, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrValidation)
	}

	now := time.Now()
	project := &models.Project{
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		TaskOrder:     []string{},
		ResourceOrder: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result, err := s.collection.InsertOne(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return project, nil
}

// GetByID returns a project by ID, scoped to user. An id owned by a
// different user is indistinguishable from a missing one.
func (s *ProjectService) GetByID(ctx context.Context, userID string, projectID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := s.collection.FindOne(ctx, bson.M{
		"_id":    projectID,
		"userId": userID,
	}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("project: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// List returns the user's projects, pinned first, then most recently
// updated.
func (s *ProjectService) List(ctx context.Context, userID string) ([]models.Project, error) {
	cursor, err := s.collection.Find(ctx, bson.M{
		"userId": userID,
	}, options.Find().SetSort(bson.D{
		{Key: "pinned", Value: -1},
		{Key: "updatedAt", Value: -1},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// Update partially updates a project
func (s *ProjectService) Update(ctx context.Context, userID string, projectID primitive.ObjectID, req *models.UpdateProjectRequest) (*models.Project, error) {
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
	if req.Pinned != nil {
		updates["pinned"] = *req.Pinned
	}

	return s.findOneAndUpdate(ctx, userID, projectID, bson.M{"$set": updates})
}

// Delete removes a project. Items under it are not deleted; they keep
// their projectId and simply stop resolving to a live project.
func (s *ProjectService) Delete(ctx context.Context, userID string, projectID primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{
		"_id":    projectID,
		"userId": userID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("project: %w", models.ErrNotFound)
	}
	return nil
}

// OrderUpdateFunc is the shared shape of the two order-replacement
// operations, so handlers can treat them uniformly.
type OrderUpdateFunc func(ctx context.Context, userID string, projectID primitive.ObjectID, orderedIDs []string) (*models.Project, error)

// UpdateTaskOrder replaces the stored task order with orderedIDs
// verbatim: no validation that all current tasks are present and no
// de-duplication. The client owns the permutation.
func (s *ProjectService) UpdateTaskOrder(ctx context.Context, userID string, projectID primitive.ObjectID, orderedIDs []string) (*models.Project, error) {
	return s.findOneAndUpdate(ctx, userID, projectID, bson.M{"$set": bson.M{
		"taskOrder": orderedIDs,
		"updatedAt": time.Now(),
	}})
}

// UpdateResourceOrder replaces the stored resource order verbatim
func (s *ProjectService) UpdateResourceOrder(ctx context.Context, userID string, projectID primitive.ObjectID, orderedIDs []string) (*models.Project, error) {
	return s.findOneAndUpdate(ctx, userID, projectID, bson.M{"$set": bson.M{
		"resourceOrder": orderedIDs,
		"updatedAt": time.Now(),
	}})
}

// AppendToTaskOrder appends a newly created task's id to the end of the
// project's task order. Read-modify-write: a concurrent create under
// the same project can lose one append. That race is accepted; readers
// tolerate ids missing from the order array.
func (s *ProjectService) AppendToTaskOrder(ctx context.Context, userID string, projectID primitive.ObjectID, taskID string) error {
	project, err := s.GetByID(ctx, userID, projectID)
	if err != nil {
		return err
	}
	_, err = s.UpdateTaskOrder(ctx, userID, projectID, append(project.TaskOrder, taskID))
	return err
}

// AppendToResourceOrder appends a new resource id to the resource order
func (s *ProjectService) AppendToResourceOrder(ctx context.Context, userID string, projectID primitive.ObjectID, resourceID string) error {
	project, err := s.GetByID(ctx, userID, projectID)
	if err != nil {
		return err
	}
	_, err = s.UpdateResourceOrder(ctx, userID, projectID, append(project.ResourceOrder, resourceID))
	return err
}

func (s *ProjectService) findOneAndUpdate(ctx context.Context, userID string, projectID primitive.ObjectID, update bson.M) (*models.Project, error) {
	var project models.Project
	err := s.collection.FindOneAndUpdate(ctx, bson.M{
		"_id":    projectID,
		"userId": userID,
	}, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("project: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &project, nil
}

// SortTasksByOrder sorts live tasks by their index in the stored order
// array. Ids absent from the array sort as index 0 and float to the
// front; stale ids in the array are ignored because only fetched items
// are walked. The sort is stable, so ties keep fetch order.
func SortTasksByOrder(tasks []models.Task, order []string) []models.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		return models.OrderIndex(order, tasks[i].ID.Hex()) < models.OrderIndex(order, tasks[j].ID.Hex())
	})
	return tasks
}

// SortResourcesByOrder sorts live resources by their stored order index
func SortResourcesByOrder(resources []models.Resource, order []string) []models.Resource {
	sort.SliceStable(resources, func(i, j int) bool {
		return models.OrderIndex(order, resources[i].ID.Hex()) < models.OrderIndex(order, resources[j].ID.Hex())
	})
	return resources
}
