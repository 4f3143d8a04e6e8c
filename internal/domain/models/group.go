// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a coach-owned squad. Membership lives on User.GroupIDs, so
// joins and leaves never touch the group document.
type Group struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Code      string             `bson:"code" json:"code"` // 6 chars, unique
	CoachID   primitive.ObjectID `bson:"coach_id" json:"coachId"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
