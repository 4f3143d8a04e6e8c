// Package attendancesvc merges group rosters with sparse attendance
// records and stores coach submissions.
package attendancesvc

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/squadlog/internal/app/policy/attendancepolicy"
	attendancestore "github.com/dalemusser/squadlog/internal/app/store/attendance"
	checkinstore "github.com/dalemusser/squadlog/internal/app/store/checkins"
	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/authz"
	"github.com/dalemusser/squadlog/internal/app/system/timeouts"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RosterEntry is one athlete with their recorded status, nil when none.
type RosterEntry struct {
	ID          primitive.ObjectID `json:"id"`
	DisplayName string             `json:"displayName"`
	Email       string             `json:"email"`
	Status      *string            `json:"status"`
}

// View is the attendance sheet for one check-in.
type View struct {
	CheckIn    models.CheckIn           `json:"checkin"`
	Attendance *models.AttendanceRecord `json:"attendance"`
	Athletes   []RosterEntry            `json:"athletes"`
}

type Service struct {
	users      *userstore.Store
	checkins   *checkinstore.Store
	attendance *attendancestore.Store
	log        *zap.Logger
}

func New(users *userstore.Store, checkins *checkinstore.Store, attendance *attendancestore.Store, log *zap.Logger) *Service {
	return &Service{users: users, checkins: checkins, attendance: attendance, log: log}
}

// checkin applies the shared gate: a coach, an existing check-in, and a
// group the coach belongs to.
func (s *Service) checkin(ctx context.Context, a *auth.Actor, id string) (models.CheckIn, error) {
	if a == nil {
		return models.CheckIn{}, apperr.Unauthenticated("Unauthorized")
	}
	if !authz.IsCoach(a) {
		return models.CheckIn{}, apperr.Forbidden("Only coaches can manage attendance")
	}
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return models.CheckIn{}, apperr.NotFound("Check-in not found")
	}
	c, err := s.checkins.GetByID(ctx, oid)
	if errors.Is(err, checkinstore.ErrNotFound) {
		return models.CheckIn{}, apperr.NotFound("Check-in not found")
	}
	if err != nil {
		return models.CheckIn{}, apperr.Internal(err, "load check-in")
	}
	if !attendancepolicy.CanManage(a, c) {
		return models.CheckIn{}, apperr.Forbidden("This check-in belongs to another group")
	}
	return c, nil
}

// GetView returns the check-in's current roster with recorded statuses.
// The roster is read at call time, so athletes who joined after the
// submission show as unrecorded.
func (s *Service) GetView(ctx context.Context, a *auth.Actor, checkinID string) (View, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "attendance view")
	defer cancel()

	c, err := s.checkin(ctx, a, checkinID)
	if err != nil {
		return View{}, err
	}

	members, err := s.users.MembersOf(ctx, c.GroupID)
	if err != nil {
		return View{}, apperr.Internal(err, "load roster")
	}

	var record *models.AttendanceRecord
	rec, err := s.attendance.Get(ctx, c.ID, c.GroupID)
	switch {
	case err == nil:
		record = &rec
	case errors.Is(err, attendancestore.ErrNotFound):
	default:
		return View{}, apperr.Internal(err, "load attendance")
	}

	status := map[primitive.ObjectID]string{}
	if record != nil {
		for _, e := range record.Entries {
			status[e.UserID] = e.Status
		}
	}

	athletes := make([]RosterEntry, 0, len(members))
	for _, m := range members {
		if m.Role == models.RoleCoach {
			continue
		}
		row := RosterEntry{ID: m.ID, DisplayName: userstore.DisplayNameOrEmail(m), Email: m.Email}
		if st, ok := status[m.ID]; ok {
			row.Status = &st
		}
		athletes = append(athletes, row)
	}
	return View{CheckIn: c, Attendance: record, Athletes: athletes}, nil
}

// Submit replaces the check-in's attendance entries. raw is the decoded
// JSON entries value; it must be an array, but individual malformed
// entries are skipped.
func (s *Service) Submit(ctx context.Context, a *auth.Actor, checkinID string, raw any) (models.AttendanceRecord, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "submit attendance")
	defer cancel()

	c, err := s.checkin(ctx, a, checkinID)
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	list, ok := raw.([]any)
	if !ok {
		return models.AttendanceRecord{}, apperr.InvalidInput("entries array is required")
	}

	rec, err := s.attendance.Upsert(ctx, c, a.ID, SanitizeEntries(list))
	if err != nil {
		return models.AttendanceRecord{}, apperr.Internal(err, "save attendance")
	}
	return rec, nil
}

// SanitizeEntries keeps entries with a valid user id and status. Repeated
// user ids keep their first position and their last status.
func SanitizeEntries(list []any) []models.AttendanceEntry {
	out := make([]models.AttendanceEntry, 0, len(list))
	pos := make(map[primitive.ObjectID]int, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		idStr, _ := obj["userId"].(string)
		st, _ := obj["status"].(string)
		uid, err := primitive.ObjectIDFromHex(strings.TrimSpace(idStr))
		if err != nil {
			continue
		}
		st = strings.ToLower(strings.TrimSpace(st))
		if !models.IsValidAttendanceStatus(st) {
			continue
		}
		if i, dup := pos[uid]; dup {
			out[i].Status = st
			continue
		}
		pos[uid] = len(out)
		out = append(out, models.AttendanceEntry{UserID: uid, Status: st})
	}
	return out
}
