package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account. The active MCP API key lives on the user
// record itself: one key per user, prefix for lookup plus a bcrypt hash
// for verification. Regenerating overwrites both fields; revoking
// clears them.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	PasswordHash string             `bson:"passwordHash" json:"-"` // Argon2id, never exposed

	APIKeyPrefix    string     `bson:"apiKeyPrefix,omitempty" json:"-"`
	APIKeyHash      string     `bson:"apiKeyHash,omitempty" json:"-"`
	APIKeyCreatedAt *time.Time `bson:"apiKeyCreatedAt,omitempty" json:"api_key_created_at,omitempty"`

	InviteCodeUsed string    `bson:"inviteCodeUsed,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"created_at"`
	LastLoginAt    time.Time `bson:"lastLoginAt" json:"last_login_at"`
}

// RegisterRequest is the request body for account creation
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name,omitempty"`
	InviteCode string `json:"invite_code"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries tokens plus the public user view
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// APIKeyResponse is returned when a key is generated. The full key is
// only ever returned here, once.
type APIKeyResponse struct {
	Key       string    `json:"key"`
	KeyPrefix string    `json:"key_prefix"`
	CreatedAt time.Time `json:"created_at"`
}

// APIKeyStatus describes the current key without revealing it
type APIKeyStatus struct {
	HasKey    bool       `json:"has_key"`
	KeyPrefix string     `json:"key_prefix,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
