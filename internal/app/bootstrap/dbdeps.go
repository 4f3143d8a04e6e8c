// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/squadlog/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis backs the shared rate limiter; nil when redis_url is blank.
	Redis *redis.Client

	// Workers holds background loops started by Startup.
	Workers *workers.Set
}
