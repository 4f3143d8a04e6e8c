// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/dalemusser/squadlog/internal/app/system/normalize"
	"github.com/dalemusser/squadlog/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CodeAlphabet omits I, O, 0 and 1.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the number of characters in a join code.
const CodeLength = 6

// maxCodeAttempts bounds the collision loop. With 32^6 codes a run this
// long means something other than bad luck is wrong.
const maxCodeAttempts = 64

var (
	ErrNotFound           = errors.New("group not found")
	ErrCodeSpaceExhausted = errors.New("could not generate a unique group code")
)

type Store struct {
	c       *mongo.Collection
	newCode func() (string, error)
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups"), newCode: GenerateCode}
}

// WithCodeGenerator returns a copy of s drawing codes from gen.
func (s *Store) WithCodeGenerator(gen func() (string, error)) *Store {
	cp := *s
	cp.newCode = gen
	return &cp
}

// GenerateCode draws a random join code from CodeAlphabet.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = CodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// Create inserts a group owned by coachID under a freshly generated code.
// A code already in use, whether seen by the existence check or by the
// unique index on insert, triggers another draw.
func (s *Store) Create(ctx context.Context, name string, coachID primitive.ObjectID) (models.Group, error) {
	g := models.Group{
		Name:      normalize.Name(name),
		CoachID:   coachID,
		CreatedAt: time.Now().UTC(),
	}
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return models.Group{}, err
		}
		taken, err := s.CodeExists(ctx, code)
		if err != nil {
			return models.Group{}, err
		}
		if taken {
			continue
		}

		g.ID = primitive.NewObjectID()
		g.Code = code
		if _, err := s.c.InsertOne(ctx, g); err != nil {
			if wafflemongo.IsDup(err) {
				continue
			}
			return models.Group{}, err
		}
		return g, nil
	}
	return models.Group{}, ErrCodeSpaceExhausted
}

// CodeExists reports whether code is assigned to any group.
func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByID loads a group. Returns ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByCode looks a group up by join code, ignoring case and surrounding
// whitespace. Returns ErrNotFound when absent.
func (s *Store) GetByCode(ctx context.Context, code string) (models.Group, error) {
	code = normalize.Code(code)
	if code == "" {
		return models.Group{}, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"code": code})
}

// ListByIDs returns the groups with the given ids, ordered by name.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Group, error) {
	out := []models.Group{}
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, filter).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}
