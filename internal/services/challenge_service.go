package services

import (
	"context"
	"time"

	"github.com/echo-track/echo-track-api/internal/models"
	"github.com/echo-track/echo-track-api/internal/repository"
	"github.com/echo-track/echo-track-api/pkg/apperr"
	"github.com/echo-track/echo-track-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChallengeService encapsulates the business logic for challenges.
type ChallengeService struct {
	repo *repository.ChallengeRepository
}

// NewChallengeService creates a new instance of ChallengeService.
func NewChallengeService(repo *repository.ChallengeRepository) *ChallengeService {
	return &ChallengeService{repo: repo}
}

// DurationDays derives the duration of a challenge window in whole days:
// max(0, ceil((end-start)/24h)). Windows shorter than a day round up to 1,
// inverted windows clamp to 0.
func DurationDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// CreateChallenge validates the submission, derives the duration field and
// stores the challenge.
func (s *ChallengeService) CreateChallenge(ctx context.Context, challenge *models.Challenge) (*models.Challenge, error) {
	// Identity is storage-assigned; a client-supplied _id is dropped.
	challenge.ID = primitive.NilObjectID

	if challenge.Title == "" {
		logger.Log.Warn("Challenge title is empty during creation")
		return nil, apperr.New(apperr.KindInvalidArgument, "challenge title is required")
	}
	if challenge.CreatedBy == "" {
		logger.Log.Warn("Challenge createdBy is empty during creation")
		return nil, apperr.New(apperr.KindInvalidArgument, "createdBy is required")
	}

	challenge.Duration = DurationDays(challenge.StartDate, challenge.EndDate)
	challenge.Participants = 0

	created, err := s.repo.CreateChallenge(ctx, challenge)
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"challenge_id": created.ID.Hex(),
		"duration":     created.Duration,
	}).Info("Challenge created in service layer")

	return created, nil
}

// GetChallenge retrieves a challenge by its ID.
func (s *ChallengeService) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("challenge_id", id).WithError(err).Warn("Invalid challenge ID in GetChallenge")
		return nil, apperr.Wrap(apperr.KindInvalidArgument, "invalid challenge id", err)
	}

	return s.repo.GetChallengeByID(ctx, objID)
}

// GetChallenges retrieves all challenges, optionally filtered by category.
func (s *ChallengeService) GetChallenges(ctx context.Context, category string) ([]models.Challenge, error) {
	return s.repo.GetChallenges(ctx, category)
}

// GetActiveChallenges retrieves challenges whose window contains the current
// time, ordered by soonest endDate.
func (s *ChallengeService) GetActiveChallenges(ctx context.Context) ([]models.Challenge, error) {
	return s.repo.GetActiveChallenges(ctx, time.Now())
}

// GetChallengesByCreator retrieves challenges created by the given email.
func (s *ChallengeService) GetChallengesByCreator(ctx context.Context, email string) ([]models.Challenge, error) {
	if email == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "email query parameter is required")
	}
	return s.repo.GetChallengesByCreator(ctx, email)
}

// UpdateChallenge applies the supplied fields to an existing challenge.
// When either date bound changes, the duration is recomputed against the
// stored value of the other bound so the derived field never drifts.
func (s *ChallengeService) UpdateChallenge(ctx context.Context, id string, update *models.ChallengeUpdate) (*models.Challenge, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("challenge_id", id).WithError(err).Warn("Invalid challenge ID in UpdateChallenge")
		return nil, apperr.Wrap(apperr.KindInvalidArgument, "invalid challenge id", err)
	}

	updates := bson.M{}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.CreatedBy != nil {
		updates["createdBy"] = *update.CreatedBy
	}

	if update.StartDate != nil || update.EndDate != nil {
		// Read-then-$set: two concurrent date updates can race between the
		// lookup and the write; the last write wins with its own duration.
		existing, err := s.repo.GetChallengeByID(ctx, objID)
		if err != nil {
			return nil, err
		}

		for field, value := range resolveWindow(existing.StartDate, existing.EndDate, update) {
			updates[field] = value
		}
	}

	if len(updates) == 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "no updatable fields in request")
	}

	return s.repo.UpdateChallenge(ctx, objID, updates)
}

// resolveWindow merges the update's date bounds with the stored ones and
// returns the $set entries for the supplied bounds plus the recomputed
// duration, so the derived field tracks whichever window the update leaves
// in place.
func resolveWindow(storedStart, storedEnd time.Time, update *models.ChallengeUpdate) bson.M {
	start := storedStart
	end := storedEnd

	fields := bson.M{}
	if update.StartDate != nil {
		start = *update.StartDate
		fields["startDate"] = start
	}
	if update.EndDate != nil {
		end = *update.EndDate
		fields["endDate"] = end
	}
	fields["duration"] = DurationDays(start, end)

	return fields
}

// IncrementParticipants bumps the participants counter of a challenge by 1.
func (s *ChallengeService) IncrementParticipants(ctx context.Context, id string) (*models.Challenge, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("challenge_id", id).WithError(err).Warn("Invalid challenge ID in IncrementParticipants")
		return nil, apperr.Wrap(apperr.KindInvalidArgument, "invalid challenge id", err)
	}

	return s.repo.IncrementParticipants(ctx, objID)
}

// DeleteChallenge removes a challenge. Enrollments keep their reference and
// dangle afterwards.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("challenge_id", id).WithError(err).Warn("Invalid challenge ID in DeleteChallenge")
		return apperr.Wrap(apperr.KindInvalidArgument, "invalid challenge id", err)
	}

	return s.repo.DeleteChallenge(ctx, objID)
}
