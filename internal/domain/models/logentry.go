// internal/domain/models/logentry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogEntry is one training activity. IsGroup=false entries are readable
// only by their owner.
type LogEntry struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Emoji     string             `bson:"emoji" json:"emoji"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	IsGroup   bool               `bson:"is_group" json:"isGroup"`
	Notes     string             `bson:"notes" json:"notes"`
	Tags      []string           `bson:"tags" json:"tags"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Tag is a per-user label registered the first time it is used on a log.
type Tag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
