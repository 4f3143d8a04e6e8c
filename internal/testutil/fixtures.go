package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts test documents directly, bypassing stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures for db.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role and memberships.
func (f *Fixtures) CreateUser(ctx context.Context, name, role string, groups ...primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	id := primitive.NewObjectID()
	u := models.User{
		ID:              id,
		Email:           id.Hex() + "@test.local",
		DisplayName:     name,
		DisplayNameCI:   text.Fold(name),
		Role:            role,
		GroupIDs:        groups,
		ProfileComplete: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateAthlete inserts an athlete in groups.
func (f *Fixtures) CreateAthlete(ctx context.Context, name string, groups ...primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, models.RoleAthlete, groups...)
}

// CreateCoach inserts a coach in groups.
func (f *Fixtures) CreateCoach(ctx context.Context, name string, groups ...primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, models.RoleCoach, groups...)
}

// CreateLegacyMember inserts an athlete whose only membership is the
// legacy single group_id field.
func (f *Fixtures) CreateLegacyMember(ctx context.Context, name string, group primitive.ObjectID) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, name, models.RoleAthlete)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"group_id": group}}); err != nil {
		f.t.Fatalf("failed to set legacy group: %v", err)
	}
	u.GroupID = &group
	return u
}

// CreateGroup inserts a group with a fixed code. The coach is not
// enrolled; pass the group id to CreateCoach for that.
func (f *Fixtures) CreateGroup(ctx context.Context, name, code string, coachID primitive.ObjectID) models.Group {
	f.t.Helper()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Code:      code,
		CoachID:   coachID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateLog inserts a log entry for owner.
func (f *Fixtures) CreateLog(ctx context.Context, owner primitive.ObjectID, isGroup bool, ts time.Time, tags ...string) models.LogEntry {
	f.t.Helper()
	if tags == nil {
		tags = []string{}
	}
	now := time.Now().UTC()
	l := models.LogEntry{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		Emoji:     "🏃",
		Timestamp: ts.UTC(),
		IsGroup:   isGroup,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("logs").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test log: %v", err)
	}
	return l
}

// CreateLogs bulk-inserts n logs for owner, one minute apart going back
// from now.
func (f *Fixtures) CreateLogs(ctx context.Context, owner primitive.ObjectID, isGroup bool, n int) {
	f.t.Helper()
	now := time.Now().UTC()
	docs := make([]any, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, models.LogEntry{
			ID:        primitive.NewObjectID(),
			UserID:    owner,
			Emoji:     "🏃",
			Timestamp: now.Add(-time.Duration(i) * time.Minute),
			IsGroup:   isGroup,
			Tags:      []string{},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := f.db.Collection("logs").InsertMany(ctx, docs); err != nil {
		f.t.Fatalf("failed to create test logs: %v", err)
	}
}

// CreateCheckIn inserts a check-in for group.
func (f *Fixtures) CreateCheckIn(ctx context.Context, group, coach primitive.ObjectID, title string) models.CheckIn {
	f.t.Helper()
	c := models.CheckIn{
		ID:          primitive.NewObjectID(),
		GroupID:     group,
		CoachID:     coach,
		Title:       title,
		SessionDate: time.Now().UTC().Truncate(24 * time.Hour),
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("checkins").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test check-in: %v", err)
	}
	return c
}

// Count returns the number of documents in coll matching filter.
func (f *Fixtures) Count(ctx context.Context, coll string, filter any) int64 {
	f.t.Helper()
	n, err := f.db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		f.t.Fatalf("count %s: %v", coll, err)
	}
	return n
}

// Actor builds the request actor for u.
func Actor(u models.User) *auth.Actor {
	return &auth.Actor{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		GroupIDs:    u.Memberships(),
	}
}
