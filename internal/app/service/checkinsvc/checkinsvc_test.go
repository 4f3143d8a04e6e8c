package checkinsvc_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/squadlog/internal/app/service/checkinsvc"
	checkinstore "github.com/dalemusser/squadlog/internal/app/store/checkins"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestCreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := checkinsvc.New(checkinstore.New(db), zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	coach := testutil.Actor(fx.CreateCoach(ctx, "Coach", g))

	c, err := svc.Create(ctx, coach, g, checkinsvc.CreateInput{Title: " Track ", SessionDate: "2026-04-02"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Title != "Track" || !c.SessionDate.Equal(time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("check-in = %+v", c)
	}

	today, err := svc.Create(ctx, coach, g, checkinsvc.CreateInput{Title: "Today"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if today.SessionDate.IsZero() {
		t.Error("session date should default to today")
	}

	list, err := svc.List(ctx, coach, g)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != today.ID {
		t.Errorf("list = %+v, want today first", list)
	}
}

func TestRules(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := checkinsvc.New(checkinstore.New(db), zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	coach := testutil.Actor(fx.CreateCoach(ctx, "Coach", g))
	athlete := testutil.Actor(fx.CreateAthlete(ctx, "Ath", g))
	outsider := testutil.Actor(fx.CreateCoach(ctx, "Out"))

	if _, err := svc.Create(ctx, athlete, g, checkinsvc.CreateInput{Title: "x"}); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("athlete err = %v, want Forbidden", err)
	}
	if _, err := svc.List(ctx, outsider, g); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("outsider err = %v, want Forbidden", err)
	}
	if _, err := svc.Create(ctx, coach, g, checkinsvc.CreateInput{Title: "  "}); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Errorf("blank title err = %v, want InvalidInput", err)
	}
	if _, err := svc.Create(ctx, coach, g, checkinsvc.CreateInput{Title: strings.Repeat("a", 201)}); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Errorf("long title err = %v, want InvalidInput", err)
	}
	if _, err := svc.Create(ctx, coach, g, checkinsvc.CreateInput{Title: "ok", SessionDate: "someday"}); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Errorf("bad date err = %v, want InvalidInput", err)
	}
}
