package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cultivate/internal/database"
	"cultivate/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultInviteWeeklyQuota caps codes generated per user per rolling week
const DefaultInviteWeeklyQuota = 5

// inviteCodeLength is the length of the human-shareable code
const inviteCodeLength = 8

// InviteService manages registration invite codes. Registration is
// invite-gated: every new account must claim an unclaimed code.
type InviteService struct {
	collection  *mongo.Collection
	weeklyQuota int
}

// NewInviteService creates a new invite service. weeklyQuota <= 0 falls
// back to DefaultInviteWeeklyQuota.
func NewInviteService(mongodb *database.MongoDB, weeklyQuota int) *InviteService {
	if weeklyQuota <= 0 {
		weeklyQuota = DefaultInviteWeeklyQuota
	}
	return &InviteService{
		collection:  mongodb.Collection(database.CollectionInviteCodes),
		weeklyQuota: weeklyQuota,
	}
}

// NewCode derives a short shareable code from a random UUID: the first
// 8 hex characters, uppercased.
func NewCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:inviteCodeLength])
}

// Generate creates a new unclaimed invite code for the user. At most
// weeklyQuota codes may be generated in any rolling 7-day window.
func (s *InviteService) Generate(ctx context.Context, userID string) (*models.InviteCode, error) {
	weekAgo := time.Now().AddDate(0, 0, -7)
	count, err := s.collection.CountDocuments(ctx, bson.M{
		"generatedById": userID,
		"createdAt":     bson.M{"$gte": weekAgo},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count recent invite codes: %w", err)
	}
	if count >= int64(s.weeklyQuota) {
		return nil, fmt.Errorf("invite quota of %d per week reached: %w", s.weeklyQuota, models.ErrRateLimited)
	}

	// The code column is unique-indexed; on the rare collision we just
	// draw again.
	for attempt := 0; attempt < 5; attempt++ {
		invite := &models.InviteCode{
			Code:          NewCode(),
			GeneratedByID: userID,
			CreatedAt:     time.Now(),
		}
		result, err := s.collection.InsertOne(ctx, invite)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return nil, fmt.Errorf("failed to create invite code: %w", err)
		}
		invite.ID = result.InsertedID.(primitive.ObjectID)
		inviteCodesGenerated.Inc()
		return invite, nil
	}
	return nil, fmt.Errorf("failed to create invite code: exhausted retries")
}

// ListMine returns the codes the user generated, newest first
func (s *InviteService) ListMine(ctx context.Context, userID string) ([]models.InviteCode, error) {
	cursor, err := s.collection.Find(ctx, bson.M{
		"generatedById": userID,
	}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list invite codes: %w", err)
	}
	defer cursor.Close(ctx)

	var codes []models.InviteCode
	if err := cursor.All(ctx, &codes); err != nil {
		return nil, fmt.Errorf("failed to decode invite codes: %w", err)
	}
	return codes, nil
}

// Claim atomically marks an unclaimed code as claimed by the new user.
// An unknown or already-claimed code reports not found; the caller
// cannot tell the two apart.
func (s *InviteService) Claim(ctx context.Context, code, claimedByID string) (*models.InviteCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("invite code is required: %w", models.ErrValidation)
	}

	now := time.Now()
	var invite models.InviteCode
	err := s.collection.FindOneAndUpdate(ctx, bson.M{
		"code":    code,
		"claimed": false,
	}, bson.M{"$set": bson.M{
		"claimed":     true,
		"claimedById": claimedByID,
		"claimedAt":   now,
	}}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&invite)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("invite code: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to claim invite code: %w", err)
	}
	return &invite, nil
}

// SetClaimedBy back-fills the claiming user's id on a claimed code.
// Registration claims the code before the account record exists.
func (s *InviteService) SetClaimedBy(ctx context.Context, code, userID string) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{
		"code":    strings.ToUpper(strings.TrimSpace(code)),
		"claimed": true,
	}, bson.M{"$set": bson.M{"claimedById": userID}})
	if err != nil {
		return fmt.Errorf("failed to record invite claimer: %w", err)
	}
	return nil
}

// DeleteUnclaimedBefore removes unclaimed codes created before the
// cutoff. Claimed codes are kept as a registration audit trail.
func (s *InviteService) DeleteUnclaimedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{
		"claimed":   false,
		"createdAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired invite codes: %w", err)
	}
	return result.DeletedCount, nil
}
