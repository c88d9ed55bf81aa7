package database

import (
	"context"
	"time"

	"github.com/echo-track/echo-track-api/internal/config"
	"github.com/echo-track/echo-track-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectDB establishes the process-wide MongoDB connection and verifies it
// with a ping. The returned client is reused by every request and closed on
// shutdown via Disconnect.
func ConnectDB(cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.MongoURI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, nil, err
	}

	logger.Log.WithField("database", cfg.DBName).Info("Connected to MongoDB")
	return client, client.Database(cfg.DBName), nil
}

// Disconnect closes the shared client, waiting up to 5 seconds for in-flight
// operations.
func Disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logger.Log.WithError(err).Error("Failed to disconnect MongoDB client")
	}
}

// EnsureIndexes creates the secondary indexes the query patterns rely on:
// category/createdBy/endDate on challenges, userEmail/challengeId on
// enrollments, createdAt on tips and date on events.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	challengeIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "endDate", Value: 1}}},
	}
	if _, err := db.Collection("challenges").Indexes().CreateMany(ctx, challengeIndexes); err != nil {
		return err
	}

	enrollmentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userEmail", Value: 1}}},
		{Keys: bson.D{{Key: "challengeId", Value: 1}}},
	}
	if _, err := db.Collection("userChallenges").Indexes().CreateMany(ctx, enrollmentIndexes); err != nil {
		return err
	}

	if _, err := db.Collection("tips").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}); err != nil {
		return err
	}

	_, err := db.Collection("events").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}},
	})
	return err
}
