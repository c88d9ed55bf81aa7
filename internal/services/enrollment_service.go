package services

import (
	"context"

	"github.com/echo-track/echo-track-api/internal/models"
	"github.com/echo-track/echo-track-api/internal/repository"
	"github.com/echo-track/echo-track-api/pkg/apperr"
	"github.com/echo-track/echo-track-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnrollmentService encapsulates the business logic for user challenges.
type EnrollmentService struct {
	repo *repository.UserChallengeRepository
}

// NewEnrollmentService creates a new instance of EnrollmentService.
func NewEnrollmentService(repo *repository.UserChallengeRepository) *EnrollmentService {
	return &EnrollmentService{repo: repo}
}

// Enroll records a user's participation in a challenge with progress 0.
// The challenge reference is advisory and is not checked for existence.
func (s *EnrollmentService) Enroll(ctx context.Context, userEmail, challengeID string) (*models.UserChallenge, error) {
	if userEmail == "" {
		logger.Log.Warn("Enrollment attempted without user email")
		return nil, apperr.New(apperr.KindInvalidArgument, "userEmail is required")
	}

	objID, err := primitive.ObjectIDFromHex(challengeID)
	if err != nil {
		logger.Log.WithField("challenge_id", challengeID).WithError(err).Warn("Invalid challenge ID in Enroll")
		return nil, apperr.Wrap(apperr.KindInvalidArgument, "invalid challenge id", err)
	}

	enrollment := &models.UserChallenge{
		UserEmail:   userEmail,
		ChallengeID: objID,
		Progress:    0,
	}

	return s.repo.CreateEnrollment(ctx, enrollment)
}

// GetEnrollment retrieves an enrollment by its ID.
func (s *EnrollmentService) GetEnrollment(ctx context.Context, id string) (*models.UserChallenge, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("enrollment_id", id).WithError(err).Warn("Invalid enrollment ID in GetEnrollment")
		return nil, apperr.Wrap(apperr.KindInvalidArgument, "invalid enrollment id", err)
	}

	return s.repo.GetEnrollmentByID(ctx, objID)
}

// GetAllEnrollments retrieves every enrollment record.
func (s *EnrollmentService) GetAllEnrollments(ctx context.Context) ([]models.UserChallenge, error) {
	return s.repo.GetAllEnrollments(ctx)
}

// IncrementProgress bumps the progress counter of one enrollment, keyed by
// the enrollment's own ID so enrollees in the same challenge never collide.
func (s *EnrollmentService) IncrementProgress(ctx context.Context, id string) (*models.UserChallenge, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("enrollment_id", id).WithError(err).Warn("Invalid enrollment ID in IncrementProgress")
		return nil, apperr.Wrap(apperr.KindInvalidArgument, "invalid enrollment id", err)
	}

	return s.repo.IncrementProgress(ctx, objID)
}

// GetMyActivities retrieves the user's enrollments joined with their
// challenge documents. Enrollments with dangling references are omitted.
func (s *EnrollmentService) GetMyActivities(ctx context.Context, userEmail string) ([]models.Activity, error) {
	if userEmail == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "email query parameter is required")
	}

	return s.repo.GetActivitiesByEmail(ctx, userEmail)
}
