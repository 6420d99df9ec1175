package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a single to-do item. A task with no ProjectID lives in the
// inbox; IsAway marks it archived (not deleted).
type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      string              `bson:"userId" json:"user_id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Completed   bool                `bson:"completed" json:"completed"`
	Status      string              `bson:"status,omitempty" json:"status,omitempty"`
	IsAway      bool                `bson:"isAway" json:"is_away"`
	ProjectID   *primitive.ObjectID `bson:"projectId,omitempty" json:"project_id,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updated_at"`
}

// CreateTaskRequest is the request body for creating a task
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   string `json:"project_id,omitempty"` // empty = inbox
}

// Validate checks required fields
func (r *CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrValidation
	}
	return nil
}

// MoveRequest targets an item at a project. An empty ProjectID moves
// the item back to the inbox.
type MoveRequest struct {
	ProjectID string `json:"project_id"`
}

// UpdateTaskRequest is the request body for partial task updates
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Status      *string `json:"status,omitempty"`
}
