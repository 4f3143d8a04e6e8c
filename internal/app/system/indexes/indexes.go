// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Desired returns the index set for every collection, keyed by collection
// name. Unique indexes back the invariants the stores rely on:
// users.email, groups.code, tags (user_id, name) and attendance
// (checkin_id, group_id).
func Desired() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"users": {
			unique("uniq_users_email", bson.D{{Key: "email", Value: 1}}),
			plain("idx_users_group_ids", bson.D{{Key: "group_ids", Value: 1}}),
			plain("idx_users_group_id", bson.D{{Key: "group_id", Value: 1}}),
		},
		"groups": {
			unique("uniq_groups_code", bson.D{{Key: "code", Value: 1}}),
			plain("idx_groups_coach", bson.D{{Key: "coach_id", Value: 1}}),
		},
		"logs": {
			plain("idx_logs_user_ts", bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}),
			plain("idx_logs_group_user_ts", bson.D{{Key: "is_group", Value: 1}, {Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}),
			plain("idx_logs_user_tags", bson.D{{Key: "user_id", Value: 1}, {Key: "tags", Value: 1}}),
		},
		"tags": {
			unique("uniq_tags_user_name", bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}}),
		},
		"checkins": {
			plain("idx_checkins_group_date", bson.D{{Key: "group_id", Value: 1}, {Key: "session_date", Value: -1}}),
		},
		"attendance": {
			unique("uniq_attendance_checkin_group", bson.D{{Key: "checkin_id", Value: 1}, {Key: "group_id", Value: 1}}),
		},
		"comments": {
			plain("idx_comments_log_created", bson.D{{Key: "log_id", Value: 1}, {Key: "created_at", Value: 1}}),
		},
		"announcements": {
			unique("uniq_announcements_group", bson.D{{Key: "group_id", Value: 1}}),
		},
		"audit_logs": {
			plain("idx_audit_timestamp", bson.D{{Key: "timestamp", Value: -1}}),
			plain("idx_audit_actor_timestamp", bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}}),
		},
	}
}

func unique(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

func plain(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

// EnsureAll reconciles every collection's indexes. It is idempotent and
// reports all failures together so startup can fail fast.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var err error
	for coll, models := range Desired() {
		if e := ensureIndexSet(ctx, db.Collection(coll), models); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", coll, e))
		}
	}
	return err
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates missing indexes, reuses matching ones and drops
// and recreates indexes whose name or uniqueness drifted.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs error
	for _, m := range models {
		name := *m.Options.Name
		wantUnique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if ex.Name == name && isUnique(ex.Unique) == wantUnique {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", name))
				continue
			}
			zap.L().Info("recreating drifted index",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("to", name),
				zap.Bool("unique", wantUnique))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: drop %s: %w", name, ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if wantUnique && mongo.IsDuplicateKeyError(err) {
				err = fmt.Errorf("duplicates present on (%s): %w", sig, err)
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", wantUnique),
			zap.Duration("took", time.Since(start)))
	}
	return errs
}
