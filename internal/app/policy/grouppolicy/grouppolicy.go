// internal/app/policy/grouppolicy/grouppolicy.go
package grouppolicy

import (
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanCreateGroup reports whether a may create groups. Only coaches can.
func CanCreateGroup(a *auth.Actor) bool {
	return authz.IsCoach(a)
}

// CanViewMembers reports whether a may list the roster of group g.
func CanViewMembers(a *auth.Actor, g primitive.ObjectID) bool {
	return a.InGroup(g)
}

// CanViewGroup reports whether a may read group-scoped content such as
// the pinned announcement.
func CanViewGroup(a *auth.Actor, g primitive.ObjectID) bool {
	return a.InGroup(g)
}

// CanManageGroup reports whether a may run check-ins and announcements
// for g: a coach who belongs to it.
func CanManageGroup(a *auth.Actor, g primitive.ObjectID) bool {
	return authz.IsCoachOf(a, g)
}
