// internal/app/system/authz/authz.go
package authz

import (
	"strings"

	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HasAnyRole reports whether a holds one of roles. A nil actor has none.
func HasAnyRole(a *auth.Actor, roles ...string) bool {
	if a == nil {
		return false
	}
	cur := strings.ToLower(a.Role)
	for _, want := range roles {
		if cur == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// IsCoach reports whether a's persisted role is coach.
func IsCoach(a *auth.Actor) bool {
	return HasAnyRole(a, models.RoleCoach)
}

// IsCoachOf reports whether a is a coach and a member of group g.
func IsCoachOf(a *auth.Actor, g primitive.ObjectID) bool {
	return IsCoach(a) && a.InGroup(g)
}

// SharesGroup reports whether a belongs to at least one of groups.
func SharesGroup(a *auth.Actor, groups []primitive.ObjectID) bool {
	for _, g := range groups {
		if a.InGroup(g) {
			return true
		}
	}
	return false
}
