// internal/app/store/logs/logstore.go
package logstore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no log matches, including when the log
// exists but belongs to someone else.
var ErrNotFound = errors.New("log not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("logs")}
}

// Insert stores e, assigning an id and created/updated timestamps.
func (s *Store) Insert(ctx context.Context, e models.LogEntry) (models.LogEntry, error) {
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.Timestamp = e.Timestamp.UTC()
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.LogEntry{}, err
	}
	return e, nil
}

// GetByID loads a log regardless of owner.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.LogEntry, error) {
	var e models.LogEntry
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.LogEntry{}, ErrNotFound
		}
		return models.LogEntry{}, err
	}
	return e, nil
}

// Find runs filter, newest timestamp first with _id as a tiebreak. A
// limit of zero or less returns every match.
func (s *Store) Find(ctx context.Context, filter bson.M, limit int64) ([]models.LogEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.LogEntry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update is a partial change to a log. Nil fields are left alone.
type Update struct {
	Emoji     *string
	Timestamp *time.Time
	IsGroup   *bool
	Notes     *string
	Tags      []string
	SetTags   bool
}

// UpdateOwned applies u to the log only when owner owns it and returns the
// updated document. Any mismatch yields ErrNotFound.
func (s *Store) UpdateOwned(ctx context.Context, id, owner primitive.ObjectID, u Update) (models.LogEntry, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Emoji != nil {
		set["emoji"] = *u.Emoji
	}
	if u.Timestamp != nil {
		set["timestamp"] = u.Timestamp.UTC()
	}
	if u.IsGroup != nil {
		set["is_group"] = *u.IsGroup
	}
	if u.Notes != nil {
		set["notes"] = *u.Notes
	}
	if u.SetTags {
		tags := u.Tags
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}

	var out models.LogEntry
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": owner},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LogEntry{}, ErrNotFound
	}
	if err != nil {
		return models.LogEntry{}, err
	}
	return out, nil
}

// DeleteOwned removes the log only when owner owns it. Reports whether a
// document was removed; a miss is not an error.
func (s *Store) DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": owner})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// DistinctTags returns the tags used across owner's logs, sorted.
func (s *Store) DistinctTags(ctx context.Context, owner primitive.ObjectID) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "tags", bson.M{"user_id": owner})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}
