package repository

import (
	"context"
	"time"

	"github.com/echo-track/echo-track-api/internal/models"
	"github.com/echo-track/echo-track-api/pkg/apperr"
	"github.com/echo-track/echo-track-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository handles read access to the events collection.
type EventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		collection: db.Collection("events"),
	}
}

// GetUpcomingEvents fetches events dated at or after now, soonest first,
// capped at limit.
func (r *EventRepository) GetUpcomingEvents(ctx context.Context, now time.Time, limit int64) ([]models.Event, error) {
	filter := bson.M{"date": bson.M{"$gte": now}}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch upcoming events")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to fetch events", err)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to decode events", err)
	}

	return events, nil
}
