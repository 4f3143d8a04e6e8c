// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold.
const (
	RoleAthlete = "athlete"
	RoleCoach   = "coach"
)

// User represents athletes and coaches.
//
// NOTE:
//   - GroupIDs is the membership set. GroupID is the legacy single-group
//     field; it is folded into GroupIDs at startup and still honored by
//     membership queries for documents written by older clients.
type User struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email           string               `bson:"email" json:"email"`
	DisplayName     string               `bson:"display_name" json:"displayName"`
	DisplayNameCI   string               `bson:"display_name_ci" json:"-"` // folded, for sorting
	Role            string               `bson:"role" json:"role"`         // athlete | coach
	GroupIDs        []primitive.ObjectID `bson:"group_ids,omitempty" json:"groupIds"`
	GroupID         *primitive.ObjectID  `bson:"group_id,omitempty" json:"-"`
	PasswordHash    string               `bson:"password_hash,omitempty" json:"-"`
	ProfileComplete bool                 `bson:"profile_complete" json:"profileComplete"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Memberships returns the union of GroupIDs and the legacy GroupID.
func (u User) Memberships() []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(u.GroupIDs)+1)
	seen := make(map[primitive.ObjectID]bool, len(u.GroupIDs)+1)
	for _, id := range u.GroupIDs {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	if u.GroupID != nil && !u.GroupID.IsZero() && !seen[*u.GroupID] {
		out = append(out, *u.GroupID)
	}
	return out
}
