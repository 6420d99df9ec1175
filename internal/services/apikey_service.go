package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"cultivate/internal/database"
	"cultivate/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyPrefixLabel marks every MCP key so leaked keys are recognizable
// in scanners and logs.
const APIKeyPrefixLabel = "clt_"

// apiKeyRandomBytes is the entropy behind each key (hex-encoded)
const apiKeyRandomBytes = 24

// apiKeyLookupLen is how many characters of the key are stored in
// clear for indexed lookup. The rest is only ever compared against the
// bcrypt hash.
const apiKeyLookupLen = 12

// APIKeyService manages per-user MCP keys. One active key per user,
// stored on the user record as a lookup prefix plus bcrypt hash. The
// plaintext key is shown exactly once, at generation.
type APIKeyService struct {
	users *mongo.Collection
}

// NewAPIKeyService creates a new API key service
func NewAPIKeyService(mongodb *database.MongoDB) *APIKeyService {
	return &APIKeyService{
		users: mongodb.Collection(database.CollectionUsers),
	}
}

// GenerateKey builds a fresh key and its lookup prefix
func GenerateKey() (key, prefix string, err error) {
	buf := make([]byte, apiKeyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate api key: %w", err)
	}
	key = APIKeyPrefixLabel + hex.EncodeToString(buf)
	return key, key[:apiKeyLookupLen], nil
}

// Generate creates (or replaces) the user's MCP key. Any previous key
// stops working immediately.
func (s *APIKeyService) Generate(ctx context.Context, userID string) (*models.APIKeyResponse, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", models.ErrValidation)
	}

	key, prefix, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash api key: %w", err)
	}

	now := time.Now()
	result, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"apiKeyPrefix":    prefix,
		"apiKeyHash":      string(hash),
		"apiKeyCreatedAt": now,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to store api key: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}

	return &models.APIKeyResponse{Key: key, KeyPrefix: prefix, CreatedAt: now}, nil
}

// Revoke clears the user's key. Idempotent.
func (s *APIKeyService) Revoke(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", models.ErrValidation)
	}

	result, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$unset": bson.M{
		"apiKeyPrefix":    "",
		"apiKeyHash":      "",
		"apiKeyCreatedAt": "",
	}})
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user: %w", models.ErrNotFound)
	}
	return nil
}

// Status reports whether the user holds a key, without revealing it
func (s *APIKeyService) Status(ctx context.Context, userID string) (*models.APIKeyStatus, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", models.ErrValidation)
	}

	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	status := &models.APIKeyStatus{HasKey: user.APIKeyHash != ""}
	if status.HasKey {
		status.KeyPrefix = user.APIKeyPrefix
		status.CreatedAt = user.APIKeyCreatedAt
	}
	return status, nil
}

// Validate resolves a presented key to its owner. Lookup goes through
// the indexed prefix; the full key is then checked against the bcrypt
// hash. Any failure is reported as ErrUnauthorized without detail.
func (s *APIKeyService) Validate(ctx context.Context, key string) (*models.User, error) {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, APIKeyPrefixLabel) || len(key) < apiKeyLookupLen {
		return nil, fmt.Errorf("malformed api key: %w", models.ErrUnauthorized)
	}

	var user models.User
	err := s.users.FindOne(ctx, bson.M{
		"apiKeyPrefix": key[:apiKeyLookupLen],
	}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("unknown api key: %w", models.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up api key: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.APIKeyHash), []byte(key)) != nil {
		return nil, fmt.Errorf("invalid api key: %w", models.ErrUnauthorized)
	}
	return &user, nil
}
