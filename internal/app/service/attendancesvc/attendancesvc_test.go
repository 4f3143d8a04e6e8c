package attendancesvc_test

import (
	"context"
	"testing"

	"github.com/dalemusser/squadlog/internal/app/service/attendancesvc"
	attendancestore "github.com/dalemusser/squadlog/internal/app/store/attendance"
	checkinstore "github.com/dalemusser/squadlog/internal/app/store/checkins"
	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"github.com/dalemusser/squadlog/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newService(db *mongo.Database) *attendancesvc.Service {
	return attendancesvc.New(userstore.New(db), checkinstore.New(db), attendancestore.New(db), zap.NewNop())
}

func entry(id primitive.ObjectID, status string) map[string]any {
	return map[string]any{"userId": id.Hex(), "status": status}
}

func TestSanitizeEntries(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	got := attendancesvc.SanitizeEntries([]any{
		entry(a, "present"),
		map[string]any{"userId": "ghost", "status": "present"},
		entry(b, "banana"),
		"not an object",
		map[string]any{"status": "absent"},
		entry(b, " Excused "),
		entry(a, "absent"),
	})
	want := []models.AttendanceEntry{
		{UserID: a, Status: models.StatusAbsent},
		{UserID: b, Status: models.StatusExcused},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSubmit_DoubleSubmitSingleRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	coach := fx.CreateCoach(ctx, "Coach", g)
	ath := fx.CreateAthlete(ctx, "Ath", g)
	ci := fx.CreateCheckIn(ctx, g, coach.ID, "Intervals")

	entries := []any{entry(ath.ID, "present"), map[string]any{"userId": "ghost", "status": "banana"}}
	first, err := svc.Submit(ctx, testutil.Actor(coach), ci.ID.Hex(), entries)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := svc.Submit(ctx, testutil.Actor(coach), ci.ID.Hex(), entries)
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}

	if n := fx.Count(ctx, "attendance", bson.M{"checkin_id": ci.ID}); n != 1 {
		t.Fatalf("records = %d, want 1", n)
	}
	if first.ID != second.ID {
		t.Error("double submit produced a different record")
	}
	if len(second.Entries) != 1 || second.Entries[0].UserID != ath.ID || second.Entries[0].Status != models.StatusPresent {
		t.Errorf("entries = %+v", second.Entries)
	}
	if second.CoachID != coach.ID || !second.SessionDate.Equal(ci.SessionDate) {
		t.Errorf("record = %+v", second)
	}
}

func TestSubmit_Gates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, other := primitive.NewObjectID(), primitive.NewObjectID()
	coach := fx.CreateCoach(ctx, "Coach", g)
	otherCoach := fx.CreateCoach(ctx, "Other", other)
	ath := fx.CreateAthlete(ctx, "Ath", g)
	ci := fx.CreateCheckIn(ctx, g, coach.ID, "Hills")

	tests := []struct {
		name    string
		err     error
		wantErr apperr.Kind
	}{
		{"athlete", submit(ctx, svc, testutil.Actor(ath), ci.ID.Hex(), []any{}), apperr.KindForbidden},
		{"other group coach", submit(ctx, svc, testutil.Actor(otherCoach), ci.ID.Hex(), []any{}), apperr.KindForbidden},
		{"malformed id", submit(ctx, svc, testutil.Actor(coach), "abc", []any{}), apperr.KindNotFound},
		{"missing check-in", submit(ctx, svc, testutil.Actor(coach), primitive.NewObjectID().Hex(), []any{}), apperr.KindNotFound},
		{"entries not an array", submit(ctx, svc, testutil.Actor(coach), ci.ID.Hex(), "oops"), apperr.KindInvalidInput},
		{"anonymous", submit(ctx, svc, nil, ci.ID.Hex(), []any{}), apperr.KindUnauthenticated},
	}
	for _, tt := range tests {
		if !apperr.Is(tt.err, tt.wantErr) {
			t.Errorf("%s: err = %v, want %s", tt.name, tt.err, tt.wantErr)
		}
	}
	if n := fx.Count(ctx, "attendance", bson.M{}); n != 0 {
		t.Errorf("rejected submits wrote %d records", n)
	}
}

func TestGetView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newService(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	coach := fx.CreateCoach(ctx, "Coach", g)
	zoe := fx.CreateAthlete(ctx, "Zoe", g)
	ada := fx.CreateAthlete(ctx, "Ada", g)
	legacy := fx.CreateLegacyMember(ctx, "Max", g)
	ci := fx.CreateCheckIn(ctx, g, coach.ID, "Long run")

	view, err := svc.GetView(ctx, testutil.Actor(coach), ci.ID.Hex())
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if view.Attendance != nil {
		t.Errorf("attendance = %+v, want nil before submit", view.Attendance)
	}
	if len(view.Athletes) != 3 {
		t.Fatalf("athletes = %d, want 3 (coach excluded)", len(view.Athletes))
	}

	if _, err := svc.Submit(ctx, testutil.Actor(coach), ci.ID.Hex(), []any{
		entry(zoe.ID, "excused"),
		entry(legacy.ID, "present"),
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	view, err = svc.GetView(ctx, testutil.Actor(coach), ci.ID.Hex())
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if view.Attendance == nil {
		t.Fatal("expected attendance record")
	}
	wantOrder := []primitive.ObjectID{ada.ID, legacy.ID, zoe.ID}
	wantStatus := []string{"", models.StatusPresent, models.StatusExcused}
	for i, row := range view.Athletes {
		if row.ID != wantOrder[i] {
			t.Errorf("row %d = %s, want %v", i, row.DisplayName, wantOrder[i])
		}
		got := ""
		if row.Status != nil {
			got = *row.Status
		}
		if got != wantStatus[i] {
			t.Errorf("row %d status = %q, want %q", i, got, wantStatus[i])
		}
	}
	if view.Athletes[0].Status != nil {
		t.Error("unrecorded athlete should have a nil status, not absent")
	}

	ath := testutil.Actor(ada)
	if _, err := svc.GetView(ctx, ath, ci.ID.Hex()); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("athlete view err = %v, want Forbidden", err)
	}
}

func submit(ctx context.Context, svc *attendancesvc.Service, a *auth.Actor, id string, raw any) error {
	_, err := svc.Submit(ctx, a, id, raw)
	return err
}
