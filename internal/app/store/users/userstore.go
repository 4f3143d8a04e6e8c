package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/squadlog/internal/app/system/normalize"
	"github.com/dalemusser/squadlog/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	errBadRole  = errors.New(`role must be "athlete"|"coach"`)
)

// publicProjection hides credentials from member listings.
var publicProjection = bson.M{"password_hash": 0}

// MembershipFilter matches users belonging to any of groups through either
// the membership set or the legacy single-group field.
func MembershipFilter(groups []primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"group_ids": bson.M{"$in": groups}},
		bson.M{"group_id": bson.M{"$in": groups}},
	}}
}

// Create inserts a new user after normalizing fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.DisplayName = normalize.Name(u.DisplayName)
	u.DisplayNameCI = text.Fold(u.DisplayName)
	u.Role = normalize.Role(u.Role)
	if u.Role != models.RoleAthlete && u.Role != models.RoleCoach {
		return models.User{}, errBadRole
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by id. Returns ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by normalized email. Returns ErrNotFound
// when absent.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile sets the display name and marks the profile complete.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, displayName string) (models.User, error) {
	name := normalize.Name(displayName)
	return s.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"display_name":     name,
		"display_name_ci":  text.Fold(name),
		"profile_complete": true,
		"updated_at":       time.Now().UTC(),
	}})
}

// AddGroup adds group to the user's membership set, moving it to the end
// when already present so the newest membership is last. Concurrent joins
// cannot duplicate an entry.
func (s *Store) AddGroup(ctx context.Context, id, group primitive.ObjectID) (models.User, error) {
	update := mongo.Pipeline{{{Key: "$set", Value: bson.M{
		"group_ids": bson.M{"$concatArrays": bson.A{
			bson.M{"$filter": bson.M{
				"input": bson.M{"$ifNull": bson.A{"$group_ids", bson.A{}}},
				"cond":  bson.M{"$ne": bson.A{"$$this", group}},
			}},
			bson.A{group},
		}},
		"updated_at": time.Now().UTC(),
	}}}}
	return s.findOneAndUpdate(ctx, id, update)
}

// RemoveGroup drops group from both membership fields.
func (s *Store) RemoveGroup(ctx context.Context, id, group primitive.ObjectID) (models.User, error) {
	u, err := s.findOneAndUpdate(ctx, id, bson.M{
		"$pull": bson.M{"group_ids": group},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return u, err
	}
	if u.GroupID != nil && *u.GroupID == group {
		return s.findOneAndUpdate(ctx, id, bson.M{"$unset": bson.M{"group_id": ""}})
	}
	return u, nil
}

// ClearGroups removes every membership, including the legacy field.
func (s *Store) ClearGroups(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOneAndUpdate(ctx, id, bson.M{
		"$set":   bson.M{"group_ids": bson.A{}, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"group_id": ""},
	})
}

func (s *Store) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update any) (models.User, error) {
	var u models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// MembersOf returns every user in any of groups, sorted by folded display
// name. Password hashes are never loaded.
func (s *Store) MembersOf(ctx context.Context, groups ...primitive.ObjectID) ([]models.User, error) {
	if len(groups) == 0 {
		return []models.User{}, nil
	}
	opts := options.Find().
		SetProjection(publicProjection).
		SetSort(bson.D{{Key: "display_name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, MembershipFilter(groups), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MemberIDsOf returns the ids of every user in any of groups.
func (s *Store) MemberIDsOf(ctx context.Context, groups ...primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, MembershipFilter(groups), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// NamesByID maps user ids to display names, falling back to email when
// the display name is empty.
func (s *Store) NamesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"display_name": 1, "email": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = DisplayNameOrEmail(u)
	}
	return out, cur.Err()
}

// DisplayNameOrEmail is the name shown for u in lists.
func DisplayNameOrEmail(u models.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
