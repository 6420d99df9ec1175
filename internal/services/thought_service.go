package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cultivate/internal/database"
	"cultivate/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ThoughtService handles CRUD for freeform notes. Thoughts are not
// part of any project ordering.
type ThoughtService struct {
	collection     *mongo.Collection
	projectService *ProjectService
}

// NewThoughtService creates a new thought service
func NewThoughtService(mongodb *database.MongoDB, projectService *ProjectService) *ThoughtService {
	return &ThoughtService{
		collection:     mongodb.Collection(database.CollectionThoughts),
		projectService: projectService,
	}
}

// Create inserts a new thought
func (s *ThoughtService) Create(ctx context.Context, userID string, req *models.CreateThoughtRequest) (*models.Thought, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("content is required: %w", err)
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

	now := time.Now()
	thought := &models.Thought{
		UserID:    userID,
		Content:   strings.TrimSpace(req.Content),
		ProjectID: projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.collection.InsertOne(ctx, thought)
	if err != nil {
		return nil, fmt.Errorf("failed to create thought: %w", err)
	}
	thought.ID = result.InsertedID.(primitive.ObjectID)
	return thought, nil
}

// GetByID retrieves a thought by ID, scoped to user
func (s *ThoughtService) GetByID(ctx context.Context, userID string, thoughtID primitive.ObjectID) (*models.Thought, error) {
	var thought models.Thought
	err := s.collection.FindOne(ctx, bson.M{
		"_id":    thoughtID,
		"userId": userID,
	}).Decode(&thought)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("thought: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}
	return &thought, nil
}

// ListInbox returns the user's non-archived thoughts with no project
func (s *ThoughtService) ListInbox(ctx context.Context, userID string) ([]models.Thought, error) {
	return s.list(ctx, bson.M{
		"userId":    userID,
		"projectId": bson.M{"$exists": false},
		"isAway":    false,
	})
}

// ListByProject returns the project's non-archived thoughts
func (s *ThoughtService) ListByProject(ctx context.Context, userID string, projectID primitive.ObjectID) ([]models.Thought, error) {
	if _, err := s.projectService.GetByID(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.list(ctx, bson.M{
		"userId":    userID,
		"projectId": projectID,
		"isAway":    false,
	})
}

func (s *ThoughtService) list(ctx context.Context, filter bson.M) ([]models.Thought, error) {
	cursor, err := s.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list thoughts: %w", err)
	}
	defer cursor.Close(ctx)

	var thoughts []models.Thought
	if err := cursor.All(ctx, &thoughts); err != nil {
		return nil, fmt.Errorf("failed to decode thoughts: %w", err)
	}
	return thoughts, nil
}

// Update updates a thought's content
func (s *ThoughtService) Update(ctx context.Context, userID string, thoughtID primitive.ObjectID, req *models.UpdateThoughtRequest) (*models.Thought, error) {
	updates := bson.M{"updatedAt": time.Now()}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, fmt.Errorf("content cannot be empty: %w", models.ErrValidation)
		}
		updates["content"] = *req.Content
	}
	return s.findOneAndUpdate(ctx, userID, thoughtID, bson.M{"$set": updates})
}

// MoveToProject attaches a thought to a project the caller owns. A
// zero projectID moves it back to the inbox. Thoughts take no part in
// project ordering.
func (s *ThoughtService) MoveToProject(ctx context.Context, userID string, thoughtID, projectID primitive.ObjectID) (*models.Thought, error) {
	if projectID.IsZero() {
		return s.findOneAndUpdate(ctx, userID, thoughtID, bson.M{
			"$unset": bson.M{"projectId": ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		})
	}

	if _, err := s.projectService.GetByID(ctx, userID, projectID); err != nil {
		return nil, err
	}

	return s.findOneAndUpdate(ctx, userID, thoughtID, bson.M{"$set": bson.M{
		"projectId": projectID,
		"updatedAt": time.Now(),
	}})
}

// SendAway archives a thought
func (s *ThoughtService) SendAway(ctx context.Context, userID string, thoughtID primitive.ObjectID) (*models.Thought, error) {
	return s.findOneAndUpdate(ctx, userID, thoughtID, bson.M{"$set": bson.M{
		"isAway":    true,
		"updatedAt": time.Now(),
	}})
}

// ReturnFromAway restores a thought from the archive
func (s *ThoughtService) ReturnFromAway(ctx context.Context, userID string, thoughtID primitive.ObjectID) (*models.Thought, error) {
	return s.findOneAndUpdate(ctx, userID, thoughtID, bson.M{"$set": bson.M{
		"isAway":    false,
		"updatedAt": time.Now(),
	}})
}

// Delete hard-deletes a thought
func (s *ThoughtService) Delete(ctx context.Context, userID string, thoughtID primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{
		"_id":    thoughtID,
		"userId": userID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete thought: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("thought: %w", models.ErrNotFound)
	}
	return nil
}

func (s *ThoughtService) findOneAndUpdate(ctx context.Context, userID string, thoughtID primitive.ObjectID, update bson.M) (*models.Thought, error) {
	var thought models.Thought
	err := s.collection.FindOneAndUpdate(ctx, bson.M{
		"_id":    thoughtID,
		"userId": userID,
	}, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&thought)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("thought: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update thought: %w", err)
	}
	return &thought, nil
}
