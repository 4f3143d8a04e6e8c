// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCommentLength bounds comment text, counted in runes.
const MaxCommentLength = 1000

// Comment is immutable once posted. Author name and role are snapshots
// taken at post time.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	LogID      primitive.ObjectID `bson:"log_id" json:"logId"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"authorId"`
	AuthorName string             `bson:"author_name" json:"authorName"`
	AuthorRole string             `bson:"author_role" json:"authorRole"`
	Text       string             `bson:"text" json:"text"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// Announcement is the single pinned coach message for a group.
type Announcement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"groupId"`
	CoachID   primitive.ObjectID `bson:"coach_id" json:"coachId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
