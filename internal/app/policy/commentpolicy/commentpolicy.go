// internal/app/policy/commentpolicy/commentpolicy.go
package commentpolicy

import (
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/authz"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanParticipate decides both reading and posting on a log's thread: the
// owner, or a coach sharing a group with the owner. A coach never reaches
// a private log.
func CanParticipate(a *auth.Actor, l models.LogEntry, ownerGroups []primitive.ObjectID) bool {
	if a == nil {
		return false
	}
	if a.ID == l.UserID {
		return true
	}
	return l.IsGroup && authz.IsCoach(a) && authz.SharesGroup(a, ownerGroups)
}
