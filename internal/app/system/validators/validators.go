// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// EnsureAll creates every collection and attaches its JSON-Schema
// validator. Deployments without collMod support are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var errs error

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", coll, err))
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", coll, err))
		}
	}

	ensure("users", usersSchema())
	ensure("groups", groupsSchema())
	ensure("logs", logsSchema())
	ensure("tags", tagsSchema())
	ensure("checkins", checkinsSchema())
	ensure("attendance", attendanceSchema())
	ensure("comments", commentsSchema())
	ensure("announcements", nil)
	ensure("audit_logs", nil)

	return errs
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "display_name", "role"},
			"properties": bson.M{
				"email":        nonBlank,
				"display_name": bson.M{"bsonType": "string"},
				"role":         bson.M{"enum": bson.A{"athlete", "coach"}},
				"group_ids":    bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
				"group_id":     bson.M{"bsonType": bson.A{"objectId", "null"}},
			},
		},
	}
}

func groupsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "code", "coach_id"},
			"properties": bson.M{
				"name":     nonBlank,
				"code":     bson.M{"bsonType": "string", "pattern": "^[A-HJ-NP-Z2-9]{6}$"},
				"coach_id": bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func logsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "emoji", "timestamp", "is_group", "tags"},
			"properties": bson.M{
				"user_id":   bson.M{"bsonType": "objectId"},
				"emoji":     nonBlank,
				"timestamp": bson.M{"bsonType": "date"},
				"is_group":  bson.M{"bsonType": "bool"},
				"notes":     bson.M{"bsonType": "string"},
				"tags":      bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			},
		},
	}
}

func tagsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "name"},
			"properties": bson.M{
				"user_id": bson.M{"bsonType": "objectId"},
				"name":    nonBlank,
			},
		},
	}
}

func checkinsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"group_id", "title", "session_date"},
			"properties": bson.M{
				"group_id":     bson.M{"bsonType": "objectId"},
				"title":        nonBlank,
				"session_date": bson.M{"bsonType": "date"},
			},
		},
	}
}

func attendanceSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"checkin_id", "group_id", "entries"},
			"properties": bson.M{
				"checkin_id": bson.M{"bsonType": "objectId"},
				"group_id":   bson.M{"bsonType": "objectId"},
				"entries": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"user_id", "status"},
						"properties": bson.M{
							"user_id": bson.M{"bsonType": "objectId"},
							"status":  bson.M{"enum": bson.A{"present", "absent", "excused"}},
						},
					},
				},
			},
		},
	}
}

func commentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"log_id", "author_id", "text"},
			"properties": bson.M{
				"log_id":    bson.M{"bsonType": "objectId"},
				"author_id": bson.M{"bsonType": "objectId"},
				"text":      nonBlank,
			},
		},
	}
}
