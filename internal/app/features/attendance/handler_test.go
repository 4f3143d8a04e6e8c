package attendance_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/squadlog/internal/app/features/attendance"
	"github.com/dalemusser/squadlog/internal/app/service/attendancesvc"
	attendancestore "github.com/dalemusser/squadlog/internal/app/store/attendance"
	"github.com/dalemusser/squadlog/internal/app/store/audit"
	checkinstore "github.com/dalemusser/squadlog/internal/app/store/checkins"
	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/app/system/auditlog"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newRouter(t *testing.T, db *mongo.Database) chi.Router {
	t.Helper()
	log := zap.NewNop()
	svc := attendancesvc.New(userstore.New(db), checkinstore.New(db), attendancestore.New(db), log)
	audits := auditlog.New(audit.New(db), log, auditlog.Uniform(auditlog.ModeDB))
	return attendance.Routes(attendance.NewHandler(svc, audits, log), testutil.SessionManager(t))
}

type sheet struct {
	CheckIn struct {
		Title string `json:"title"`
	} `json:"checkin"`
	Athletes []struct {
		ID          string  `json:"id"`
		DisplayName string  `json:"displayName"`
		Status      *string `json:"status"`
	} `json:"athletes"`
}

func TestSubmitAndView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)
	r := newRouter(t, db)

	g := f.CreateGroup(ctx, "Squad", "ATT222", primitive.NewObjectID())
	coachUser := f.CreateCoach(ctx, "Coach", g.ID)
	coach := testutil.Actor(coachUser)
	ann := f.CreateAthlete(ctx, "Ann", g.ID)
	bob := f.CreateAthlete(ctx, "Bob", g.ID)
	c := f.CreateCheckIn(ctx, g.ID, coachUser.ID, "Track")

	do := func(method string, a *auth.Actor, body any) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, testutil.JSONRequest(t, method, "/"+c.ID.Hex(), body, a))
		return rec
	}

	body := map[string]any{"entries": []any{
		map[string]any{"userId": ann.ID.Hex(), "status": "present"},
		map[string]any{"userId": "ghost", "status": "present"},
		map[string]any{"userId": bob.ID.Hex(), "status": "banana"},
		"not an object",
	}}
	for i := 0; i < 2; i++ {
		if rec := do("POST", coach, body); rec.Code != http.StatusOK {
			t.Fatalf("submit %d: got %d (body %s)", i, rec.Code, rec.Body.String())
		}
	}
	if n := f.Count(ctx, "attendance", bson.M{"checkin_id": c.ID}); n != 1 {
		t.Fatalf("attendance records: got %d, want 1", n)
	}
	if n := f.Count(ctx, "audit_logs", bson.M{"event_type": audit.EventAttendanceSubmitted}); n != 2 {
		t.Errorf("audit events: got %d, want 2", n)
	}

	rec := do("GET", coach, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("view: got %d", rec.Code)
	}
	var got sheet
	testutil.DecodeJSON(t, rec, &got)
	if got.CheckIn.Title != "Track" {
		t.Errorf("title: got %q", got.CheckIn.Title)
	}
	if len(got.Athletes) != 2 {
		t.Fatalf("roster: got %d athletes, want 2", len(got.Athletes))
	}
	if got.Athletes[0].DisplayName != "Ann" || got.Athletes[0].Status == nil || *got.Athletes[0].Status != "present" {
		t.Errorf("Ann: got %+v", got.Athletes[0])
	}
	if got.Athletes[1].DisplayName != "Bob" || got.Athletes[1].Status != nil {
		t.Errorf("Bob should be unrecorded: got %+v", got.Athletes[1])
	}
}

func TestGate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)
	r := newRouter(t, db)

	g := f.CreateGroup(ctx, "Squad", "GAT222", primitive.NewObjectID())
	other := f.CreateGroup(ctx, "Other", "OTH222", primitive.NewObjectID())
	coach := f.CreateCoach(ctx, "Coach", g.ID)
	c := f.CreateCheckIn(ctx, g.ID, coach.ID, "Track")

	tests := []struct {
		name     string
		target   string
		actor    *auth.Actor
		body     any
		wantCode int
	}{
		{"athlete", "/" + c.ID.Hex(), testutil.Actor(f.CreateAthlete(ctx, "Ath", g.ID)), nil, http.StatusForbidden},
		{"coach of another group", "/" + c.ID.Hex(), testutil.Actor(f.CreateCoach(ctx, "Else", other.ID)), nil, http.StatusForbidden},
		{"unknown check-in", "/" + primitive.NewObjectID().Hex(), testutil.Actor(coach), nil, http.StatusNotFound},
		{"malformed check-in", "/xyz", testutil.Actor(coach), nil, http.StatusNotFound},
		{"anonymous", "/" + c.ID.Hex(), nil, nil, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, testutil.JSONRequest(t, "GET", tc.target, tc.body, tc.actor))
			if rec.Code != tc.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tc.wantCode)
			}
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.JSONRequest(t, "POST", "/"+c.ID.Hex(), map[string]any{"entries": "nope"}, testutil.Actor(coach)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-array entries: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
