package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/normalize"
	"github.com/dalemusser/squadlog/internal/app/system/timeouts"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.ActorFetcher, loading role and memberships
// fresh on every request.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a Fetcher over db.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchActor returns (nil, nil) when the user no longer exists.
func (f *Fetcher) FetchActor(ctx context.Context, id primitive.ObjectID) (*auth.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	proj := options.FindOne().SetProjection(bson.M{
		"_id":          1,
		"email":        1,
		"display_name": 1,
		"role":         1,
		"group_ids":    1,
		"group_id":     1,
	})
	var u models.User
	if err := f.users.FindOne(ctx, bson.M{"_id": id}, proj).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return ActorOf(u), nil
}

// ActorOf builds the request actor for u. Handlers use it to re-issue a
// session after a write changes the user's memberships or name.
func ActorOf(u models.User) *auth.Actor {
	return &auth.Actor{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        normalize.Role(u.Role),
		GroupIDs:    u.Memberships(),
	}
}
