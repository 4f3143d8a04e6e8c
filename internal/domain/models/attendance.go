// internal/domain/models/attendance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance statuses.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusExcused = "excused"
)

// IsValidAttendanceStatus reports whether s is one of the fixed statuses.
func IsValidAttendanceStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

// CheckIn is a coach-defined session bound to one group.
type CheckIn struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"groupId"`
	CoachID     primitive.ObjectID `bson:"coach_id" json:"coachId"`
	Title       string             `bson:"title" json:"title"`
	SessionDate time.Time          `bson:"session_date" json:"sessionDate"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// AttendanceEntry is one athlete's recorded status.
type AttendanceEntry struct {
	UserID primitive.ObjectID `bson:"user_id" json:"userId"`
	Status string             `bson:"status" json:"status"`
}

// AttendanceRecord is unique per (CheckInID, GroupID). A roster member
// without an entry is unrecorded, not absent.
type AttendanceRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CheckInID   primitive.ObjectID `bson:"checkin_id" json:"checkinId"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"groupId"`
	CoachID     primitive.ObjectID `bson:"coach_id" json:"coachId"`
	SessionDate time.Time          `bson:"session_date" json:"sessionDate"`
	Entries     []AttendanceEntry  `bson:"entries" json:"entries"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
