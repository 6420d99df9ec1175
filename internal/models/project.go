package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project groups tasks and resources and carries the drag-and-drop
// ordering for both as explicit id arrays.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	// TaskOrder and ResourceOrder hold hex item ids in display order.
	// They may contain stale ids (deleted items are never pruned) and
	// may miss ids (append-on-create can lose a write under concurrent
	// creates). Readers tolerate both.
	TaskOrder     []string `bson:"taskOrder" json:"task_order"`
	ResourceOrder []string `bson:"resourceOrder" json:"resource_order"`

	Pinned    bool      `bson:"pinned" json:"pinned"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// CreateProjectRequest is the request body for creating a project
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateProjectRequest is the request body for partial project updates
type UpdateProjectRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Pinned      *bool   `json:"pinned,omitempty"`
}

// UpdateOrderRequest carries a verbatim replacement order array
type UpdateOrderRequest struct {
	Order []string `json:"order"`
}

// OrderIndex returns the position of id within order, or 0 when the id
// is absent. The missing-id default of 0 floats orphaned items to the
// front of the list instead of erroring.
func OrderIndex(order []string, id string) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return 0
}
