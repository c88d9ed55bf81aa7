package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tip is a motivational text record. Read-only from this API.
type Tip struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
