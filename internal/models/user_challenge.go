package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserChallenge links a user to a challenge with a progress counter.
// The challengeId reference is advisory: it is not validated against the
// challenges collection and may dangle after a challenge is deleted.
type UserChallenge struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserEmail   string             `bson:"userEmail" json:"userEmail"`
	ChallengeID primitive.ObjectID `bson:"challengeId" json:"challengeId"`
	Progress    int                `bson:"progress" json:"progress"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Activity is an enrollment joined with its referenced challenge document,
// as returned by the my-activities lookup.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	UserEmail   string             `bson:"userEmail" json:"userEmail"`
	ChallengeID primitive.ObjectID `bson:"challengeId" json:"challengeId"`
	Progress    int                `bson:"progress" json:"progress"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	Challenge   Challenge          `bson:"challenge" json:"challenge"`
}
