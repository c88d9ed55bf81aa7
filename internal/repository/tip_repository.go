package repository

import (
	"context"

	"github.com/echo-track/echo-track-api/internal/models"
	"github.com/echo-track/echo-track-api/pkg/apperr"
	"github.com/echo-track/echo-track-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TipRepository handles read access to the tips collection.
type TipRepository struct {
	collection *mongo.Collection
}

// NewTipRepository creates a new instance of TipRepository.
func NewTipRepository(db *mongo.Database) *TipRepository {
	return &TipRepository{
		collection: db.Collection("tips"),
	}
}

// GetRecentTips fetches the newest tips first, capped at limit.
func (r *TipRepository) GetRecentTips(ctx context.Context, limit int64) ([]models.Tip, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch tips")
		return nil, apperr.Wrap(apperr.KindStorageUnavailable, "failed to fetch tips", err)
	}
	defer cursor.Close(ctx)

	tips := []models.Tip{}
	if err := cursor.All(ctx, &tips); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to decode tips", err)
	}

	return tips, nil
}
