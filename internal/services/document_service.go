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

// DocumentService handles rich-text documents. Content is an opaque
// serialized blob: the server never parses it.
type DocumentService struct {
	collection *mongo.Collection
}

// NewDocumentService creates a new document service
func NewDocumentService(mongodb *database.MongoDB) *DocumentService {
	return &DocumentService{
		collection: mongodb.Collection(database.CollectionDocuments),
	}
}

// Create inserts a new document
func (s *DocumentService) Create(ctx context.Context, userID string, req *models.CreateDocumentRequest) (*models.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("title is required: %w", err)
	}

	now := time.Now()
	doc := &models.Document{
		UserID:    userID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	doc.ID = result.InsertedID.(primitive.ObjectID)
	return doc, nil
}

// GetByID retrieves a document by ID, scoped to user
func (s *DocumentService) GetByID(ctx context.Context, userID string, docID primitive.ObjectID) (*models.Document, error) {
	var doc models.Document
	err := s.collection.FindOne(ctx, bson.M{
		"_id":    docID,
		"userId": userID,
	}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("document: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// GetPublished retrieves a published document by id alone, for the
// unauthenticated share link. Unpublished documents stay invisible.
func (s *DocumentService) GetPublished(ctx context.Context, docID primitive.ObjectID) (*models.Document, error) {
	var doc models.Document
	err := s.collection.FindOne(ctx, bson.M{
		"_id":         docID,
		"isPublished": true,
	}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("document: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// List returns the user's documents, most recently updated first.
// Content is projected out: listings only need metadata.
func (s *DocumentService) List(ctx context.Context, userID string) ([]models.Document, error) {
	cursor, err := s.collection.Find(ctx, bson.M{
		"userId": userID,
	}, options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetProjection(bson.M{"content": 0}))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return docs, nil
}

// Update partially updates a document
func (s *DocumentService) Update(ctx context.Context, userID string, docID primitive.ObjectID, req *models.UpdateDocumentRequest) (*models.Document, error) {
	updates := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("title cannot be empty: %w", models.ErrValidation)
		}
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.IsPublished != nil {
		updates["isPublished"] = *req.IsPublished
	}

	var doc models.Document
	err := s.collection.FindOneAndUpdate(ctx, bson.M{
		"_id":    docID,
		"userId": userID,
	}, bson.M{"$set": updates}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("document: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return &doc, nil
}

// Delete hard-deletes a document
func (s *DocumentService) Delete(ctx context.Context, userID string, docID primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{
		"_id":    docID,
		"userId": userID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("document: %w", models.ErrNotFound)
	}
	return nil
}
