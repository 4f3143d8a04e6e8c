package announcementsvc_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/squadlog/internal/app/service/announcementsvc"
	announcementstore "github.com/dalemusser/squadlog/internal/app/store/announcements"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestAnnouncementLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := announcementsvc.New(announcementstore.New(db), zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	coach := testutil.Actor(fx.CreateCoach(ctx, "Coach", g))
	athlete := testutil.Actor(fx.CreateAthlete(ctx, "Ath", g))
	outsider := testutil.Actor(fx.CreateAthlete(ctx, "Out"))

	got, err := svc.Get(ctx, athlete, g)
	if err != nil || got != nil {
		t.Fatalf("Get before upsert = %v, %v; want nil, nil", got, err)
	}

	if _, err := svc.Upsert(ctx, coach, g, "Race <em>Saturday</em>"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err = svc.Get(ctx, athlete, g)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Text != "Race Saturday" {
		t.Errorf("announcement = %+v", got)
	}

	if _, err := svc.Get(ctx, outsider, g); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("outsider Get err = %v, want Forbidden", err)
	}
	if _, err := svc.Upsert(ctx, athlete, g, "hi"); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("athlete Upsert err = %v, want Forbidden", err)
	}
	if _, err := svc.Upsert(ctx, coach, g, strings.Repeat("x", 2001)); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Errorf("long Upsert err = %v, want InvalidInput", err)
	}
	if _, err := svc.Upsert(ctx, coach, g, " "); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Errorf("blank Upsert err = %v, want InvalidInput", err)
	}

	if err := svc.Delete(ctx, coach, g); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, coach, g); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if err := svc.Delete(ctx, athlete, g); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("athlete Delete err = %v, want Forbidden", err)
	}
}
