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
)

// UserService handles account records. Credential hashing lives in
// pkg/auth; this layer only stores and retrieves.
type UserService struct {
	collection *mongo.Collection
}

// NewUserService creates a new user service
func NewUserService(mongodb *database.MongoDB) *UserService {
	return &UserService{
		collection: mongodb.Collection(database.CollectionUsers),
	}
}

// Create inserts a new account. Emails are stored lowercased; the
// unique index makes duplicate registration race-safe.
func (s *UserService) Create(ctx context.Context, email, passwordHash, name, inviteCode string) (*models.User, error) {
	now := time.Now()
	user := &models.User{
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Name:           strings.TrimSpace(name),
		PasswordHash:   passwordHash,
		InviteCodeUsed: inviteCode,
		CreatedAt:      now,
		LastLoginAt:    now,
	}

	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("email already registered: %w", models.ErrValidation)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

// GetByEmail retrieves a user by email (case-insensitive)
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{
		"email": strings.ToLower(strings.TrimSpace(email)),
	}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by hex id
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", models.ErrValidation)
	}

	var user models.User
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// TouchLastLogin records a successful login. Failures are non-fatal
// for the login flow, so only the error is returned for logging.
func (s *UserService) TouchLastLogin(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$set": bson.M{"lastLoginAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
