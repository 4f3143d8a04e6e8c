package tagstore_test

import (
	"sync"
	"testing"

	tagstore "github.com/dalemusser/squadlog/internal/app/store/tags"
	"github.com/dalemusser/squadlog/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsure_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tagstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	if err := store.Ensure(ctx, owner, []string{"run", "tempo"}); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	first, err := store.List(ctx, owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if err := store.Ensure(ctx, owner, []string{"tempo", "run", ""}); err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if n := fx.Count(ctx, "tags", bson.M{"user_id": owner}); n != 2 {
		t.Fatalf("tag count = %d, want 2", n)
	}

	second, err := store.List(ctx, owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i := range first {
		if !first[i].CreatedAt.Equal(second[i].CreatedAt) {
			t.Errorf("created_at for %q changed on re-ensure", first[i].Name)
		}
	}
}

func TestEnsure_PerOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tagstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	if err := store.Ensure(ctx, a, []string{"run"}); err != nil {
		t.Fatalf("Ensure a: %v", err)
	}
	if err := store.Ensure(ctx, b, []string{"run", "swim"}); err != nil {
		t.Fatalf("Ensure b: %v", err)
	}

	names, err := store.Names(ctx, a)
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 1 || names[0] != "run" {
		t.Errorf("names(a) = %v, want [run]", names)
	}
	names, err = store.Names(ctx, b)
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 2 || names[0] != "run" || names[1] != "swim" {
		t.Errorf("names(b) = %v, want [run swim]", names)
	}
}

func TestEnsure_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tagstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Ensure(ctx, owner, []string{"hill"})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Ensure: %v", err)
		}
	}
	if n := fx.Count(ctx, "tags", bson.M{"user_id": owner, "name": "hill"}); n != 1 {
		t.Errorf("tag count = %d, want 1", n)
	}
}
