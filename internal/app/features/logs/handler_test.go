package logs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/squadlog/internal/app/features/logs"
	"github.com/dalemusser/squadlog/internal/app/service/logsvc"
	logstore "github.com/dalemusser/squadlog/internal/app/store/logs"
	tagstore "github.com/dalemusser/squadlog/internal/app/store/tags"
	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
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
	svc := logsvc.New(userstore.New(db), logstore.New(db), tagstore.New(db), 0, log)
	return logs.Routes(logs.NewHandler(svc, log), testutil.SessionManager(t))
}

func serve(r chi.Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type logView struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId"`
	Emoji    string   `json:"emoji"`
	IsGroup  bool     `json:"isGroup"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
	UserName string   `json:"userName"`
	IsOwn    bool     `json:"isOwn"`
}

type listResponse struct {
	Logs []logView `json:"logs"`
}

func TestCreate_CoercesLooseInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)
	r := newRouter(t, db)

	ath := testutil.Actor(f.CreateAthlete(ctx, "Ath"))
	body := map[string]any{
		"emoji":   " 🏊 ",
		"isGroup": "true",
		"tags":    []any{"Swim", " swim ", 7, "", "Drills"},
	}
	rec := serve(r, testutil.JSONRequest(t, "POST", "/", body, ath))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Log logView `json:"log"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Log.Emoji != "🏊" || !resp.Log.IsGroup || resp.Log.Notes != "" {
		t.Errorf("log: got %+v", resp.Log)
	}
	if len(resp.Log.Tags) != 2 || resp.Log.Tags[0] != "swim" || resp.Log.Tags[1] != "drills" {
		t.Errorf("tags: got %v", resp.Log.Tags)
	}
	if n := f.Count(ctx, "tags", bson.M{"user_id": ath.ID}); n != 2 {
		t.Errorf("registered tags: got %d, want 2", n)
	}

	rec = serve(r, testutil.JSONRequest(t, "POST", "/", map[string]any{"emoji": "  "}, ath))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank emoji: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestList_VisibilityAndFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)
	r := newRouter(t, db)

	g := f.CreateGroup(ctx, "Squad", "LOG222", primitive.NewObjectID())
	coach := f.CreateCoach(ctx, "Coach", g.ID)
	x := f.CreateAthlete(ctx, "X", g.ID)
	y := f.CreateAthlete(ctx, "Y", g.ID)

	day := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	shared := f.CreateLog(ctx, x.ID, true, day, "run", "easy")
	private := f.CreateLog(ctx, x.ID, false, day.Add(time.Hour), "run")
	f.CreateLog(ctx, y.ID, true, day.AddDate(0, 0, 3), "swim")

	get := func(target string, a *auth.Actor) listResponse {
		t.Helper()
		rec := serve(r, testutil.JSONRequest(t, "GET", target, nil, a))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: got %d (body %s)", target, rec.Code, rec.Body.String())
		}
		var resp listResponse
		testutil.DecodeJSON(t, rec, &resp)
		return resp
	}
	asCoach, asX := testutil.Actor(coach), testutil.Actor(x)

	ownerView := get("/", asX)
	if len(ownerView.Logs) != 3 {
		t.Fatalf("owner sees %d logs, want 3", len(ownerView.Logs))
	}

	coachView := get("/?userId="+x.ID.Hex(), asCoach)
	if len(coachView.Logs) != 1 || coachView.Logs[0].ID != shared.ID.Hex() {
		t.Fatalf("coach narrowed to X: got %+v", coachView.Logs)
	}
	if coachView.Logs[0].UserName != "X" || coachView.Logs[0].IsOwn {
		t.Errorf("decorations: got %+v", coachView.Logs[0])
	}
	for _, l := range get("/", asCoach).Logs {
		if l.ID == private.ID.Hex() {
			t.Fatal("coach can see a private log")
		}
	}

	tagged := get("/?tags=run,EASY", asX)
	if len(tagged.Logs) != 1 || tagged.Logs[0].ID != shared.ID.Hex() {
		t.Errorf("tags=run,EASY: got %+v", tagged.Logs)
	}
	repeated := get("/?tag=run&tag=easy", asX)
	if len(repeated.Logs) != 1 {
		t.Errorf("repeated tag params: got %d logs, want 1", len(repeated.Logs))
	}

	ranged := get("/?dateFrom=2026-05-02&dateTo=2026-05-31", asX)
	if len(ranged.Logs) != 1 || ranged.Logs[0].UserID != y.ID.Hex() {
		t.Errorf("date range: got %+v", ranged.Logs)
	}

	rec := serve(r, testutil.JSONRequest(t, "GET", "/?dateFrom=yesterday", nil, asX))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad dateFrom: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdateAndDelete_OwnerOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)
	r := newRouter(t, db)

	g := f.CreateGroup(ctx, "Squad", "UPD222", primitive.NewObjectID())
	owner := f.CreateAthlete(ctx, "Owner", g.ID)
	coach := f.CreateCoach(ctx, "Coach", g.ID)
	l := f.CreateLog(ctx, owner.ID, true, time.Now())

	body := map[string]any{"notes": "felt good", "tags": []any{"Tempo"}}
	rec := serve(r, testutil.JSONRequest(t, "PUT", "/"+l.ID.Hex(), body, testutil.Actor(coach)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("coach update: got %d, want %d", rec.Code, http.StatusNotFound)
	}
	rec = serve(r, testutil.JSONRequest(t, "PUT", "/garbage", body, testutil.Actor(owner)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("malformed id: got %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = serve(r, testutil.JSONRequest(t, "PUT", "/"+l.ID.Hex(), body, testutil.Actor(owner)))
	if rec.Code != http.StatusOK {
		t.Fatalf("owner update: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Log logView `json:"log"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Log.Notes != "felt good" || len(resp.Log.Tags) != 1 || resp.Log.Tags[0] != "tempo" {
		t.Errorf("updated log: got %+v", resp.Log)
	}

	rec = serve(r, testutil.JSONRequest(t, "DELETE", "/"+l.ID.Hex(), nil, testutil.Actor(coach)))
	if rec.Code != http.StatusOK {
		t.Errorf("foreign delete: got %d, want %d", rec.Code, http.StatusOK)
	}
	if n := f.Count(ctx, "logs", bson.M{"_id": l.ID}); n != 1 {
		t.Fatal("foreign delete removed the log")
	}

	rec = serve(r, testutil.JSONRequest(t, "DELETE", "/"+l.ID.Hex(), nil, testutil.Actor(owner)))
	if rec.Code != http.StatusOK {
		t.Errorf("owner delete: got %d", rec.Code)
	}
	if n := f.Count(ctx, "logs", bson.M{"_id": l.ID}); n != 0 {
		t.Error("owner delete left the log in place")
	}
}

func TestRequiresSignIn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := newRouter(t, db)
	if rec := serve(r, testutil.JSONRequest(t, "GET", "/", nil, nil)); rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
