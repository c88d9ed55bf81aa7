package services

import (
	"context"
	"time"

	"github.com/echo-track/echo-track-api/internal/models"
	"github.com/echo-track/echo-track-api/internal/repository"
)

const (
	recentTipsLimit     = 5
	upcomingEventsLimit = 4
)

// ContentService serves the read-only tip and event feeds.
type ContentService struct {
	tipRepo   *repository.TipRepository
	eventRepo *repository.EventRepository
}

// NewContentService creates a new instance of ContentService.
func NewContentService(tipRepo *repository.TipRepository, eventRepo *repository.EventRepository) *ContentService {
	return &ContentService{
		tipRepo:   tipRepo,
		eventRepo: eventRepo,
	}
}

// GetRecentTips returns up to 5 tips, newest first.
func (s *ContentService) GetRecentTips(ctx context.Context) ([]models.Tip, error) {
	return s.tipRepo.GetRecentTips(ctx, recentTipsLimit)
}

// GetUpcomingEvents returns up to 4 events dated at or after now, soonest
// first.
func (s *ContentService) GetUpcomingEvents(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.GetUpcomingEvents(ctx, time.Now(), upcomingEventsLimit)
}
