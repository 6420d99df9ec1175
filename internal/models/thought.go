package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thought is a freeform note.
type Thought struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    string              `bson:"userId" json:"user_id"`
	Content   string              `bson:"content" json:"content"`
	IsAway    bool                `bson:"isAway" json:"is_away"`
	ProjectID *primitive.ObjectID `bson:"projectId,omitempty" json:"project_id,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updated_at"`
}

// CreateThoughtRequest is the request body for creating a thought
type CreateThoughtRequest struct {
	Content   string `json:"content"`
	ProjectID string `json:"project_id,omitempty"`
}

// Validate checks required fields
func (r *CreateThoughtRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return ErrValidation
	}
	return nil
}

// UpdateThoughtRequest is the request body for updating a thought
type UpdateThoughtRequest struct {
	Content *string `json:"content,omitempty"`
}
