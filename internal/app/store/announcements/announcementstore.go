// internal/app/store/announcements/announcementstore.go
package announcementstore

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

var ErrNotFound = errors.New("announcement not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

// Upsert replaces the group's announcement text.
func (s *Store) Upsert(ctx context.Context, group, coach primitive.ObjectID, text string) (models.Announcement, error) {
	now := time.Now().UTC()
	filter := bson.M{"group_id": group}
	update := bson.M{
		"$set":         bson.M{"text": text, "coach_id": coach, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.Announcement
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if err != nil && wafflemongo.IsDup(err) {
		err = s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	}
	if err != nil {
		return models.Announcement{}, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, group primitive.ObjectID) (models.Announcement, error) {
	var out models.Announcement
	err := s.c.FindOne(ctx, bson.M{"group_id": group}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Announcement{}, ErrNotFound
	}
	if err != nil {
		return models.Announcement{}, err
	}
	return out, nil
}

// Delete removes the group's announcement if there is one.
func (s *Store) Delete(ctx context.Context, group primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"group_id": group})
	return err
}
