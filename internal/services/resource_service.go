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

// ResourceService handles CRUD for saved links. Creation runs a
// best-effort page title fetch; any fetch failure falls back to the
// raw URL and never fails the create.
type ResourceService struct {
	collection     *mongo.Collection
	projectService *ProjectService
	metadata       *MetadataService // nil disables enrichment
}

// NewResourceService creates a new resource service
func NewResourceService(mongodb *database.MongoDB, projectService *ProjectService, metadata *MetadataService) *ResourceService {
	return &ResourceService{
		collection:     mongodb.Collection(database.CollectionResources),
		projectService: projectService,
		metadata:       metadata,
	}
}

// Create inserts a new resource, enriching the title from the page
// when the caller did not supply one.
func (s *ResourceService) Create(ctx context.Context, userID string, req *models.CreateResourceRequest) (*models.Resource, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("url is required: %w", err)
	}

	var projectID *primitive.ObjectID
	if req.ProjectID != "" {
		oid, err := primitive.ObjectIDFromHex(req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid project id: %w", models.ErrValidation)
		}
		if _, err := s.projectService.GetByID(ctx, userID, oid); err != nil {
			return nil, err
		}
		projectID = &oid
	}

	url := strings.TrimSpace(req.URL)
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = s.fetchTitle(ctx, url)
	}

	now := time.Now()
	resource := &models.Resource{
		UserID:      userID,
		URL:         url,
		Title:       title,
		Description: req.Description,
		ProjectID:   projectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.collection.InsertOne(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	resource.ID = result.InsertedID.(primitive.ObjectID)

	if projectID != nil {
		if err := s.projectService.AppendToResourceOrder(ctx, userID, *projectID, resource.ID.Hex()); err != nil {
			log.Printf("⚠️ [RESOURCE] Failed to append resource %s to project order: %v", resource.ID.Hex(), err)
		}
	}

	return resource, nil
}

// fetchTitle asks the metadata service for the page title. Failures
// are non-fatal: the raw URL stands in.
func (s *ResourceService) fetchTitle(ctx context.Context, url string) string {
	if s.metadata == nil {
		return url
	}
	title, err := s.metadata.FetchTitle(ctx, url)
	if err != nil || strings.TrimSpace(title) == "" {
		if err != nil {
			log.Printf("⚠️ [RESOURCE] Metadata fetch failed for %s: %v", url, err)
		}
		return url
	}
	return title
}

// GetByID retrieves a resource by ID, scoped to user
func (s *ResourceService) GetByID(ctx context.Context, userID string, resourceID primitive.ObjectID) (*models.Resource, error) {
	var resource models.Resource
	err := s.collection.FindOne(ctx, bson.M{
		"_id":    resourceID,
		"userId": userID,
	}).Decode(&resource)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("resource: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return &resource, nil
}

// ListInbox returns the user's non-archived resources with no project
func (s *ResourceService) ListInbox(ctx context.Context, userID string) ([]models.Resource, error) {
	return s.list(ctx, bson.M{
		"userId":    userID,
		"projectId": bson.M{"$exists": false},
		"isAway":    false,
	})
}

// ListByProject returns the project's non-archived resources sorted by
// the project's stored resource order.
func (s *ResourceService) ListByProject(ctx context.Context, userID string, projectID primitive.ObjectID) ([]models.Resource, error) {
	project, err := s.projectService.GetByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	resources, err := s.list(ctx, bson.M{
		"userId":    userID,
		"projectId": projectID,
		"isAway":    false,
	})
	if err != nil {
		return nil, err
	}
	return SortResourcesByOrder(resources, project.ResourceOrder), nil
}

func (s *ResourceService) list(ctx context.Context, filter bson.M) ([]models.Resource, error) {
	cursor, err := s.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, nil
}

// Update partially updates a resource
func (s *ResourceService) Update(ctx context.Context, userID string, resourceID primitive.ObjectID, req *models.UpdateResourceRequest) (*models.Resource, error) {
	updates := bson.M{"updatedAt": time.Now()}
	if req.URL != nil {
		if strings.TrimSpace(*req.URL) == "" {
			return nil, fmt.Errorf("url cannot be empty: %w", models.ErrValidation)
		}
		updates["url"] = *req.URL
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	return s.findOneAndUpdate(ctx, userID, resourceID, bson.M{"$set": updates})
}

// MoveToProject attaches a resource to a project and appends it to the
// project's resource order. A zero projectID moves it to the inbox.
func (s *ResourceService) MoveToProject(ctx context.Context, userID string, resourceID, projectID primitive.ObjectID) (*models.Resource, error) {
	if projectID.IsZero() {
		return s.findOneAndUpdate(ctx, userID, resourceID, bson.M{
			"$unset": bson.M{"projectId": ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		})
	}

	if _, err := s.projectService.GetByID(ctx, userID, projectID); err != nil {
		return nil, err
	}

	resource, err := s.findOneAndUpdate(ctx, userID, resourceID, bson.M{"$set": bson.M{
		"projectId": projectID,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return nil, err
	}

	if err := s.projectService.AppendToResourceOrder(ctx, userID, projectID, resourceID.Hex()); err != nil {
		log.Printf("⚠️ [RESOURCE] Failed to append moved resource %s to project order: %v", resourceID.Hex(), err)
	}
	return resource, nil
}

// SendAway archives a resource
func (s *ResourceService) SendAway(ctx context.Context, userID string, resourceID primitive.ObjectID) (*models.Resource, error) {
	return s.findOneAndUpdate(ctx, userID, resourceID, bson.M{"$set": bson.M{
		"isAway":    true,
		"updatedAt": time.Now(),
	}})
}

// ReturnFromAway restores a resource from the archive
func (s *ResourceService) ReturnFromAway(ctx context.Context, userID string, resourceID primitive.ObjectID) (*models.Resource, error) {
	return s.findOneAndUpdate(ctx, userID, resourceID, bson.M{"$set": bson.M{
		"isAway":    false,
		"updatedAt": time.Now(),
	}})
}

// Delete hard-deletes a resource, leaving any order-array entry stale
func (s *ResourceService) Delete(ctx context.Context, userID string, resourceID primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{
		"_id":    resourceID,
		"userId": userID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("resource: %w", models.ErrNotFound)
	}
	return nil
}

func (s *ResourceService) findOneAndUpdate(ctx context.Context, userID string, resourceID primitive.ObjectID, update bson.M) (*models.Resource, error) {
	var resource models.Resource
	err := s.collection.FindOneAndUpdate(ctx, bson.M{
		"_id":    resourceID,
		"userId": userID,
	}, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&resource)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("resource: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}
	return &resource, nil
}
