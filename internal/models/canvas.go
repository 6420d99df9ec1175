package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Canvas stores one serialized drawing snapshot (JSON from the drawing
// widget), persisted opaquely.
type Canvas struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"user_id"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Snapshot  string             `bson:"snapshot" json:"snapshot"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}

// SaveCanvasRequest is the request body for creating or updating a canvas
type SaveCanvasRequest struct {
	Title    string `json:"title,omitempty"`
	Snapshot string `json:"snapshot"`
}
