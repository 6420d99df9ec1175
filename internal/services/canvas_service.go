package services

import (
	"context"
	"fmt"
	"time"

	"cultivate/internal/database"
	"cultivate/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CanvasService persists drawing snapshots. Snapshots are opaque JSON
// from the drawing widget; saves replace the whole blob.
type CanvasService struct {
	collection *mongo.Collection
}

// NewCanvasService creates a new canvas service
func NewCanvasService(mongodb *database.MongoDB) *CanvasService {
	return &CanvasService{
		collection: mongodb.Collection(database.CollectionCanvases),
	}
}

// Create inserts a new canvas
func (s *CanvasService) Create(ctx context.Context, userID string, req *models.SaveCanvasRequest) (*models.Canvas, error) {
	now := time.Now()
	canvas := &models.Canvas{
		UserID:    userID,
		Title:     req.Title,
		Snapshot:  req.Snapshot,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.collection.InsertOne(ctx, canvas)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}
	canvas.ID = result.InsertedID.(primitive.ObjectID)
	return canvas, nil
}

// GetByID retrieves a canvas by ID, scoped to user
func (s *CanvasService) GetByID(ctx context.Context, userID string, canvasID primitive.ObjectID) (*models.Canvas, error) {
	var canvas models.Canvas
	err := s.collection.FindOne(ctx, bson.M{
		"_id":    canvasID,
		"userId": userID,
	}).Decode(&canvas)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("canvas: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get canvas: %w", err)
	}
	return &canvas, nil
}

// List returns the user's canvases, most recently updated first, with
// snapshots projected out.
func (s *CanvasService) List(ctx context.Context, userID string) ([]models.Canvas, error) {
	cursor, err := s.collection.Find(ctx, bson.M{
		"userId": userID,
	}, options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetProjection(bson.M{"snapshot": 0}))
	if err != nil {
		return nil, fmt.Errorf("failed to list canvases: %w", err)
	}
	defer cursor.Close(ctx)

	var canvases []models.Canvas
	if err := cursor.All(ctx, &canvases); err != nil {
		return nil, fmt.Errorf("failed to decode canvases: %w", err)
	}
	return canvases, nil
}

// Save replaces a canvas's snapshot (and title, when given)
func (s *CanvasService) Save(ctx context.Context, userID string, canvasID primitive.ObjectID, req *models.SaveCanvasRequest) (*models.Canvas, error) {
	updates := bson.M{
		"snapshot":  req.Snapshot,
		"updatedAt": time.Now(),
	}
	if req.Title != "" {
		updates["title"] = req.Title
	}

	var canvas models.Canvas
	err := s.collection.FindOneAndUpdate(ctx, bson.M{
		"_id":    canvasID,
		"userId": userID,
	}, bson.M{"$set": updates}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&canvas)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("canvas: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to save canvas: %w", err)
	}
	return &canvas, nil
}

// Delete hard-deletes a canvas
func (s *CanvasService) Delete(ctx context.Context, userID string, canvasID primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{
		"_id":    canvasID,
		"userId": userID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete canvas: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("canvas: %w", models.ErrNotFound)
	}
	return nil
}
