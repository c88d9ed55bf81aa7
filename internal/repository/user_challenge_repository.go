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

// UserChallengeRepository handles database operations on the userChallenges
// collection.
type UserChallengeRepository struct {
	collection *mongo.Collection
}

// NewUserChallengeRepository creates a new instance of UserChallengeRepository.
func NewUserChallengeRepository(db *mongo.Database) *UserChallengeRepository {
	return &UserChallengeRepository{
		collection: db.Collection("userChallenges"),
	}
}

// CreateEnrollment inserts a new enrollment record. The challenge reference
// is not verified against the challenges collection.
func (r *UserChallengeRepository) CreateEnrollment(ctx context.Context, enrollment *models.UserChallenge) (*models.UserChallenge, error) {
	enrollment.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, enrollment)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert enrollment")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to create enrollment", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted enrollment ID")
		return nil, apperr.New(apperr.KindInternal, "unexpected inserted id type")
	}
	enrollment.ID = insertedID

	logger.Log.WithFields(map[string]interface{}{
		"enrollment_id": enrollment.ID.Hex(),
		"challenge_id":  enrollment.ChallengeID.Hex(),
	}).Info("Enrollment created successfully")

	return enrollment, nil
}

// GetEnrollmentByID fetches an enrollment by its ID.
func (r *UserChallengeRepository) GetEnrollmentByID(ctx context.Context, id primitive.ObjectID) (*models.UserChallenge, error) {
	var enrollment models.UserChallenge

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&enrollment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Wrap(apperr.KindNotFound, "enrollment not found", err)
		}
		logger.Log.WithError(err).WithField("enrollment_id", id.Hex()).Error("Failed to find enrollment by ID")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to get enrollment", err)
	}

	return &enrollment, nil
}

// GetAllEnrollments fetches every enrollment record, unfiltered.
func (r *UserChallengeRepository) GetAllEnrollments(ctx context.Context) ([]models.UserChallenge, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch enrollments")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to fetch enrollments", err)
	}
	defer cursor.Close(ctx)

	enrollments := []models.UserChallenge{}
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to decode enrollments", err)
	}

	return enrollments, nil
}

// IncrementProgress atomically bumps the progress counter of one enrollment,
// keyed by the enrollment's own ID, and returns the updated record.
func (r *UserChallengeRepository) IncrementProgress(ctx context.Context, id primitive.ObjectID) (*models.UserChallenge, error) {
	update := bson.M{"$inc": bson.M{"progress": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.UserChallenge
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Wrap(apperr.KindNotFound, "enrollment not found", err)
		}
		logger.Log.WithError(err).WithField("enrollment_id", id.Hex()).Error("Failed to increment progress")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to increment progress", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"enrollment_id": id.Hex(),
		"progress":      updated.Progress,
	}).Info("Enrollment progress incremented")

	return &updated, nil
}

// GetActivitiesByEmail returns the user's enrollments joined with their
// referenced challenge documents. The $unwind stage drops enrollments whose
// challengeId no longer resolves.
func (r *UserChallengeRepository) GetActivitiesByEmail(ctx context.Context, email string) ([]models.Activity, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userEmail": email}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "challenges",
			"localField":   "challengeId",
			"foreignField": "_id",
			"as":           "challenge",
		}}},
		{{Key: "$unwind", Value: "$challenge"}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		logger.Log.WithError(err).WithField("user_email", email).Error("Failed to aggregate activities")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to fetch activities", err)
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to decode activities", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_email": email,
		"count":      len(activities),
	}).Info("Activities fetched successfully")

	return activities, nil
}
