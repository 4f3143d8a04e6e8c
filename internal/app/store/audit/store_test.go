package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/squadlog/internal/app/store/audit"
	"github.com/dalemusser/squadlog/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLog_StampsIDAndTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID()
	if err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryGroup,
		EventType: audit.EventGroupCreated,
		ActorID:   &actor,
		Success:   true,
	}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	events, err := store.GetByActor(ctx, actor, 10)
	if err != nil {
		t.Fatalf("GetByActor: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected id to be set")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestQuery_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour)
	events := []audit.Event{
		{Category: audit.CategoryGroup, EventType: audit.EventGroupJoined, GroupID: &group, Timestamp: base},
		{Category: audit.CategoryGroup, EventType: audit.EventGroupLeft, GroupID: &group, Timestamp: base.Add(time.Minute)},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	byGroup, err := store.Query(ctx, audit.QueryFilter{GroupID: &group})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(byGroup) != 2 {
		t.Fatalf("group events = %d, want 2", len(byGroup))
	}
	if byGroup[0].EventType != audit.EventGroupLeft {
		t.Errorf("first event = %q, want newest first", byGroup[0].EventType)
	}

	auth, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(auth) != 1 {
		t.Errorf("auth events = %d, want 1", len(auth))
	}

	from := base.Add(30 * time.Second)
	recent, err := store.Query(ctx, audit.QueryFilter{StartTime: &from})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("events since %v = %d, want 2", from, len(recent))
	}
}

func TestDeleteBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID()
	now := time.Now().UTC()
	for _, age := range []time.Duration{100 * 24 * time.Hour, 95 * 24 * time.Hour, time.Hour} {
		if err := store.Log(ctx, audit.Event{
			Timestamp: now.Add(-age),
			Category:  audit.CategoryAuth,
			EventType: audit.EventLogout,
			ActorID:   &actor,
			Success:   true,
		}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	n, err := store.DeleteBefore(ctx, now.Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	left, err := store.GetByActor(ctx, actor, 10)
	if err != nil {
		t.Fatalf("GetByActor: %v", err)
	}
	if len(left) != 1 {
		t.Errorf("remaining %d, want 1", len(left))
	}
}
