package repository

import (
	"context"
	"errors"
	"time"

	"github.com/echo-track/echo-track-api/internal/models"
	"github.com/echo-track/echo-track-api/pkg/apperr"
	"github.com/echo-track/echo-track-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChallengeRepository handles database operations on the challenges collection.
type ChallengeRepository struct {
	collection *mongo.Collection
}

// NewChallengeRepository creates a new instance of ChallengeRepository.
func NewChallengeRepository(db *mongo.Database) *ChallengeRepository {
	return &ChallengeRepository{
		collection: db.Collection("challenges"),
	}
}

// CreateChallenge inserts a new challenge and returns it with the assigned ID.
func (r *ChallengeRepository) CreateChallenge(ctx context.Context, challenge *models.Challenge) (*models.Challenge, error) {
	challenge.CreatedAt = time.Now()
	challenge.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, challenge)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert challenge")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to create challenge", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted challenge ID")
		return nil, apperr.New(apperr.KindInternal, "unexpected inserted id type")
	}
	challenge.ID = insertedID

	logger.Log.WithField("challenge_id", challenge.ID.Hex()).Info("Challenge created successfully")
	return challenge, nil
}

// GetChallengeByID fetches a challenge by its ID.
func (r *ChallengeRepository) GetChallengeByID(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	var challenge models.Challenge

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&challenge)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Wrap(apperr.KindNotFound, "challenge not found", err)
		}
		logger.Log.WithError(err).WithField("challenge_id", id.Hex()).Error("Failed to find challenge by ID")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to get challenge", err)
	}

	return &challenge, nil
}

// GetChallenges fetches all challenges with an optional exact category filter.
func (r *ChallengeRepository) GetChallenges(ctx context.Context, category string) ([]models.Challenge, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).WithField("category", category).Error("Failed to fetch challenges")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to fetch challenges", err)
	}
	defer cursor.Close(ctx)

	challenges := []models.Challenge{}
	if err := cursor.All(ctx, &challenges); err != nil {
		logger.Log.WithError(err).Error("Failed to decode challenges")
		return nil, apperr.Wrap(apperr.KindInternal, "failed to decode challenges", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"category": category,
		"count":    len(challenges),
	}).Info("Challenges fetched successfully")

	return challenges, nil
}

// GetActiveChallenges fetches challenges whose window contains now, soonest
// ending first.
func (r *ChallengeRepository) GetActiveChallenges(ctx context.Context, now time.Time) ([]models.Challenge, error) {
	filter := bson.M{
		"startDate": bson.M{"$lte": now},
		"endDate":   bson.M{"$gte": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "endDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch active challenges")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to fetch active challenges", err)
	}
	defer cursor.Close(ctx)

	challenges := []models.Challenge{}
	if err := cursor.All(ctx, &challenges); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to decode active challenges", err)
	}

	return challenges, nil
}

// GetChallengesByCreator fetches challenges created by the given email.
func (r *ChallengeRepository) GetChallengesByCreator(ctx context.Context, email string) ([]models.Challenge, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"createdBy": email})
	if err != nil {
		logger.Log.WithError(err).WithField("created_by", email).Error("Failed to fetch challenges by creator")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to fetch challenges", err)
	}
	defer cursor.Close(ctx)

	challenges := []models.Challenge{}
	if err := cursor.All(ctx, &challenges); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to decode challenges", err)
	}

	return challenges, nil
}

// UpdateChallenge applies a $set of the given fields and returns the updated
// document.
func (r *ChallengeRepository) UpdateChallenge(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Challenge, error) {
	updates["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Challenge
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Wrap(apperr.KindNotFound, "challenge not found", err)
		}
		logger.Log.WithError(err).WithField("challenge_id", id.Hex()).Error("Failed to update challenge")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to update challenge", err)
	}

	logger.Log.WithField("challenge_id", id.Hex()).Info("Challenge updated successfully")
	return &updated, nil
}

// IncrementParticipants atomically bumps the participants counter by 1 and
// returns the updated document.
func (r *ChallengeRepository) IncrementParticipants(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	update := bson.M{
		"$inc": bson.M{"participants": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Challenge
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Wrap(apperr.KindNotFound, "challenge not found", err)
		}
		logger.Log.WithError(err).WithField("challenge_id", id.Hex()).Error("Failed to increment participants")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to increment participants", err)
	}

	return &updated, nil
}

// DeleteChallenge removes a challenge by ID. Enrollments referencing it are
// left in place (advisory integrity, no cascade).
func (r *ChallengeRepository) DeleteChallenge(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("challenge_id", id.Hex()).Error("Failed to delete challenge")
		return apperr.Wrap(apperr.KindStorageUnavailable, "failed to delete challenge", err)
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.KindNotFound, "challenge not found")
	}

	logger.Log.WithField("challenge_id", id.Hex()).Info("Challenge deleted successfully")
	return nil
}
