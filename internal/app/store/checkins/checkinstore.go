// internal/app/store/checkins/checkinstore.go
package checkinstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("check-in not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("checkins")}
}

// Create inserts c with a fresh id and created_at.
func (s *Store) Create(ctx context.Context, c models.CheckIn) (models.CheckIn, error) {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	c.SessionDate = c.SessionDate.UTC()
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.CheckIn{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.CheckIn, error) {
	var c models.CheckIn
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.CheckIn{}, ErrNotFound
		}
		return models.CheckIn{}, err
	}
	return c, nil
}

// ListByGroup returns the group's check-ins, latest session first.
func (s *Store) ListByGroup(ctx context.Context, group primitive.ObjectID) ([]models.CheckIn, error) {
	opts := options.Find().SetSort(bson.D{{Key: "session_date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": group}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.CheckIn{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
