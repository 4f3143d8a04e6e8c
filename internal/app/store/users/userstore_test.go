package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"github.com/dalemusser/squadlog/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_NormalizesAndRejectsDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{Email: "  Coach@Squad.ORG ", DisplayName: " Kim ", Role: "Coach"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "coach@squad.org" || u.DisplayName != "Kim" || u.Role != models.RoleCoach {
		t.Errorf("user not normalized: %+v", u)
	}

	_, err = store.Create(ctx, models.User{Email: "COACH@squad.org", DisplayName: "Other", Role: "athlete"})
	if err != userstore.ErrDuplicateEmail {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "x@y.z", Role: "admin"}); err == nil {
		t.Error("expected error for admin role")
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByEmail(ctx, "nobody@x.y"); err != userstore.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAddGroup_SetSemantics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1, g2 := primitive.NewObjectID(), primitive.NewObjectID()
	u := fx.CreateAthlete(ctx, "Ana")

	for _, g := range []primitive.ObjectID{g1, g2, g1} {
		if _, err := store.AddGroup(ctx, u.ID, g); err != nil {
			t.Fatalf("AddGroup: %v", err)
		}
	}
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.GroupIDs) != 2 {
		t.Fatalf("group_ids = %v, want 2 entries", got.GroupIDs)
	}
	if got.GroupIDs[1] != g1 {
		t.Errorf("most recent join should be last, got %v", got.GroupIDs)
	}
}

func TestRemoveAndClearGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1, g2 := primitive.NewObjectID(), primitive.NewObjectID()
	u := fx.CreateAthlete(ctx, "Ana", g1, g2)

	got, err := store.RemoveGroup(ctx, u.ID, g1)
	if err != nil {
		t.Fatalf("RemoveGroup: %v", err)
	}
	if len(got.GroupIDs) != 1 || got.GroupIDs[0] != g2 {
		t.Errorf("group_ids = %v, want [g2]", got.GroupIDs)
	}

	legacy := fx.CreateLegacyMember(ctx, "Leo", g1)
	got, err = store.ClearGroups(ctx, legacy.ID)
	if err != nil {
		t.Fatalf("ClearGroups: %v", err)
	}
	if len(got.Memberships()) != 0 {
		t.Errorf("memberships = %v, want none", got.Memberships())
	}

	// Clearing again is a no-op.
	if _, err := store.ClearGroups(ctx, legacy.ID); err != nil {
		t.Errorf("second ClearGroups: %v", err)
	}
}

func TestMembersOf_MatchesBothFieldsAndHidesPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	current := fx.CreateAthlete(ctx, "Zed", g)
	legacy := fx.CreateLegacyMember(ctx, "Amy", g)
	fx.CreateAthlete(ctx, "Outsider", primitive.NewObjectID())

	if _, err := db.Collection("users").UpdateByID(ctx, current.ID, bson.M{"$set": bson.M{"password_hash": "secret"}}); err != nil {
		t.Fatalf("seed password: %v", err)
	}

	members, err := store.MembersOf(ctx, g)
	if err != nil {
		t.Fatalf("MembersOf: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	if members[0].ID != legacy.ID || members[1].ID != current.ID {
		t.Errorf("members not sorted by name: %s, %s", members[0].DisplayName, members[1].DisplayName)
	}
	for _, m := range members {
		if m.PasswordHash != "" {
			t.Errorf("password hash leaked for %s", m.DisplayName)
		}
	}
}

func TestMigrateLegacyGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1, g2 := primitive.NewObjectID(), primitive.NewObjectID()
	legacy := fx.CreateLegacyMember(ctx, "Leo", g1)
	both := fx.CreateAthlete(ctx, "Bea", g2)
	if _, err := db.Collection("users").UpdateByID(ctx, both.ID, bson.M{"$set": bson.M{"group_id": g2}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := store.MigrateLegacyGroups(ctx)
	if err != nil {
		t.Fatalf("MigrateLegacyGroups: %v", err)
	}
	if n != 2 {
		t.Errorf("modified = %d, want 2", n)
	}

	got, _ := store.GetByID(ctx, legacy.ID)
	if got.GroupID != nil || len(got.GroupIDs) != 1 || got.GroupIDs[0] != g1 {
		t.Errorf("legacy user = %+v", got)
	}
	got, _ = store.GetByID(ctx, both.ID)
	if len(got.GroupIDs) != 1 {
		t.Errorf("duplicate membership after migrate: %v", got.GroupIDs)
	}

	if n, _ := store.MigrateLegacyGroups(ctx); n != 0 {
		t.Errorf("second run modified %d, want 0", n)
	}
}

func TestFetcher_FetchActor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	f := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	u := fx.CreateLegacyMember(ctx, "Leo", g)

	a, err := f.FetchActor(ctx, u.ID)
	if err != nil {
		t.Fatalf("FetchActor: %v", err)
	}
	if a == nil || !a.InGroup(g) || a.Role != models.RoleAthlete {
		t.Errorf("actor = %+v", a)
	}

	a, err = f.FetchActor(ctx, primitive.NewObjectID())
	if err != nil || a != nil {
		t.Errorf("missing user: actor=%v err=%v, want nil, nil", a, err)
	}
}
