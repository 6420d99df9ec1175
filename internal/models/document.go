package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document stores whatever serialized rich text the editor widget hands
// back; the server persists and returns the blob unchanged.
type Document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"` // serialized rich text (HTML)
	IsPublished bool               `bson:"isPublished" json:"is_published"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updated_at"`
}

// CreateDocumentRequest is the request body for creating a document
type CreateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks required fields
func (r *CreateDocumentRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrValidation
	}
	return nil
}

// UpdateDocumentRequest is the request body for partial document updates
type UpdateDocumentRequest struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}
