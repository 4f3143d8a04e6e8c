// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/app/system/indexes"
	"github.com/dalemusser/squadlog/internal/app/system/ratelimit"
	"github.com/dalemusser/squadlog/internal/app/system/timeouts"
	"github.com/dalemusser/squadlog/internal/app/system/validators"
	"github.com/dalemusser/squadlog/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ConnectDB opens the Mongo client and, when configured, the Redis client
// used for rate limiting.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Workers:       &workers.Set{},
	}

	if appCfg.RedisURL != "" {
		rctx, rcancel := context.WithTimeout(ctx, timeouts.Ping())
		defer rcancel()
		rdb, err := ratelimit.NewRedisClient(rctx, appCfg.RedisURL)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("redis connect: %w", err)
		}
		deps.Redis = rdb
		logger.Info("connected to Redis for rate limiting")
	}

	return deps, nil
}

// EnsureSchema creates collections with their validators, reconciles
// indexes and folds legacy single-group memberships into group_ids.
// Every step runs; failures are reported together.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	db := deps.MongoDatabase
	var errs error

	if err := validators.EnsureAll(ctx, db); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("validators: %w", err))
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("indexes: %w", err))
	}

	n, err := userstore.New(db).MigrateLegacyGroups(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("migrate legacy groups: %w", err))
	} else if n > 0 {
		logger.Info("migrated legacy group memberships", zap.Int64("users", n))
	}

	return errs
}
