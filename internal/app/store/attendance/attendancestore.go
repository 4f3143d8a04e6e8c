// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/squadlog/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("attendance record not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance")}
}

// Upsert writes the record keyed by (checkin, group). Entries, coach and
// session date are replaced on every call; created_at is fixed by the
// first insert.
func (s *Store) Upsert(ctx context.Context, checkin models.CheckIn, coachID primitive.ObjectID, entries []models.AttendanceEntry) (models.AttendanceRecord, error) {
	if entries == nil {
		entries = []models.AttendanceEntry{}
	}
	now := time.Now().UTC()
	filter := bson.M{"checkin_id": checkin.ID, "group_id": checkin.GroupID}
	update := bson.M{
		"$set": bson.M{
			"entries":      entries,
			"coach_id":     coachID,
			"session_date": checkin.SessionDate,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.AttendanceRecord
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if err != nil && wafflemongo.IsDup(err) {
		// A concurrent submit inserted first; retry lands as an update.
		err = s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	}
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	return out, nil
}

// Get loads the record for (checkin, group).
func (s *Store) Get(ctx context.Context, checkinID, groupID primitive.ObjectID) (models.AttendanceRecord, error) {
	var out models.AttendanceRecord
	err := s.c.FindOne(ctx, bson.M{"checkin_id": checkinID, "group_id": groupID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AttendanceRecord{}, ErrNotFound
	}
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	return out, nil
}
