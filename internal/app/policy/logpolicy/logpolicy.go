// internal/app/policy/logpolicy/logpolicy.go
package logpolicy

import (
	"time"

	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/authz"
	"github.com/dalemusser/squadlog/internal/app/system/normalize"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filters are the optional narrowing parameters of a log list query.
type Filters struct {
	Tags     []string
	UserID   *primitive.ObjectID // honored for coaches only
	DateFrom *time.Time
	DateTo   *time.Time
}

// VisibleFilter returns the storage predicate selecting every log a may
// read, narrowed by f. members are the users sharing at least one group
// with a. Private logs only ever match through the owner clause.
func VisibleFilter(a *auth.Actor, members []primitive.ObjectID, f Filters) bson.M {
	if a == nil {
		// Matches nothing; _id is never the nil ObjectID.
		return bson.M{"_id": primitive.NilObjectID}
	}

	clauses := []bson.M{scope(a, members)}

	if f.UserID != nil && authz.IsCoach(a) && contains(members, *f.UserID) {
		clauses = append(clauses, bson.M{"user_id": *f.UserID})
	}

	if tags := normalize.Tags(f.Tags); len(tags) > 0 {
		clauses = append(clauses, bson.M{"tags": bson.M{"$all": tags}})
	}

	if f.DateFrom != nil || f.DateTo != nil {
		ts := bson.M{}
		if f.DateFrom != nil {
			ts["$gte"] = f.DateFrom.UTC()
		}
		if f.DateTo != nil {
			ts["$lte"] = f.DateTo.UTC()
		}
		clauses = append(clauses, bson.M{"timestamp": ts})
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return bson.M{"$and": clauses}
}

func scope(a *auth.Actor, members []primitive.ObjectID) bson.M {
	own := bson.M{"user_id": a.ID}
	if !a.HasGroup() || len(members) == 0 {
		return own
	}
	return bson.M{"$or": []bson.M{
		own,
		{"user_id": bson.M{"$in": members}, "is_group": true},
	}}
}

// CanRead reports whether a may read l. ownerGroups are the log owner's
// current memberships.
func CanRead(a *auth.Actor, l models.LogEntry, ownerGroups []primitive.ObjectID) bool {
	if IsOwner(a, l) {
		return true
	}
	return a != nil && l.IsGroup && authz.SharesGroup(a, ownerGroups)
}

// IsOwner reports whether a owns l. Only owners mutate logs.
func IsOwner(a *auth.Actor, l models.LogEntry) bool {
	return a != nil && !a.ID.IsZero() && a.ID == l.UserID
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
