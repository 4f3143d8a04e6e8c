// internal/app/store/tags/tagstore.go
package tagstore

import (
	"context"
	"time"

	"github.com/dalemusser/squadlog/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tags")}
}

// Ensure registers each name for owner. Existing tags keep their original
// created_at. Names are expected to be normalized already.
func (s *Store) Ensure(ctx context.Context, owner primitive.ObjectID, names []string) error {
	now := time.Now().UTC()
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := s.ensureOne(ctx, owner, name, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ensureOne(ctx context.Context, owner primitive.ObjectID, name string, now time.Time) error {
	filter := bson.M{"user_id": owner, "name": name}
	update := bson.M{"$setOnInsert": bson.M{"created_at": now}}
	opts := options.Update().SetUpsert(true)

	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	if err != nil && wafflemongo.IsDup(err) {
		// Two upserts raced on the unique index; the loser now matches.
		_, err = s.c.UpdateOne(ctx, filter, update, opts)
	}
	return err
}

// List returns owner's registered tags sorted by name.
func (s *Store) List(ctx context.Context, owner primitive.ObjectID) ([]models.Tag, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": owner}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Tag{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Names returns owner's registered tag names sorted.
func (s *Store) Names(ctx context.Context, owner primitive.ObjectID) ([]string, error) {
	tags, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out, nil
}
