package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is a saved bookmark. Title defaults to the raw URL when the
// metadata fetch fails or is skipped.
type Resource struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      string              `bson:"userId" json:"user_id"`
	URL         string              `bson:"url" json:"url"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	IsAway      bool                `bson:"isAway" json:"is_away"`
	ProjectID   *primitive.ObjectID `bson:"projectId,omitempty" json:"project_id,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updated_at"`
}

// CreateResourceRequest is the request body for creating a resource
type CreateResourceRequest struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"` // optional; fetched from the page when empty
	Description string `json:"description,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
}

// Validate checks required fields
func (r *CreateResourceRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return ErrValidation
	}
	return nil
}

// UpdateResourceRequest is the request body for partial resource updates
type UpdateResourceRequest struct {
	URL         *string `json:"url,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}
