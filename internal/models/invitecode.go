package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InviteCode gates registration. A code is single-use: claiming sets
// Claimed and records the claiming user.
type InviteCode struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code            string             `bson:"code" json:"code"`
	Claimed         bool               `bson:"claimed" json:"claimed"`
	GeneratedByID   string             `bson:"generatedById" json:"generated_by_id"`
	ClaimedByID     string             `bson:"claimedById,omitempty" json:"claimed_by_id,omitempty"`
	ClaimedAt       *time.Time         `bson:"claimedAt,omitempty" json:"claimed_at,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"created_at"`
}
