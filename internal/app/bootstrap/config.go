// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/squadlog/internal/app/system/auditlog"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for SquadLog.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: SQUADLOG_MONGO_URI, SQUADLOG_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "squadlog", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: "", Desc: "Session signing key, at least 32 bytes (generated in dev when blank)"},
	{Name: "session_name", Default: "session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Rate limiting
	{Name: "redis_url", Default: "", Desc: "Redis URL for shared rate limiting (blank keeps counters in memory)"},
	{Name: "rate_limit_attempts", Default: 10, Desc: "Signup/login/join attempts allowed per IP per window"},
	{Name: "rate_limit_window", Default: "1m", Desc: "Rate limit window (e.g., 1m, 15m)"},

	{Name: "audit_log", Default: auditlog.ModeAll, Desc: "Audit logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention", Default: "2160h", Desc: "Delete stored audit events older than this (0 disables)"},
	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},
	{Name: "log_query_limit", Default: 0, Desc: "Maximum logs returned by one list request (0 returns all)"},

	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document storage calls"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries and multi-step operations"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges flags > env > files > defaults,
// reading WAFFLE_* for core and SQUADLOG_* for app keys.
//
// A blank session key in dev is replaced with a random one so local runs
// work out of the box. Sessions then do not survive a restart.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SQUADLOG", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		RedisURL:          appValues.String("redis_url"),
		RateLimitAttempts: appValues.Int("rate_limit_attempts"),
		RateLimitWindow:   appValues.Duration("rate_limit_window", time.Minute),

		AuditLog:       appValues.String("audit_log"),
		AuditRetention: appValues.Duration("audit_retention", 90*24*time.Hour),
		MetricsEnabled: appValues.Bool("metrics_enabled"),
		LogQueryLimit:  appValues.Int("log_query_limit"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
	}

	if appCfg.SessionKey == "" && coreCfg.Env != "prod" {
		appCfg.SessionKey = devSessionKey()
		logger.Warn("session_key not set; using a random key for this process")
	}

	return coreCfg, appCfg, nil
}

// devSessionKey returns a random printable key long enough for HS256.
func devSessionKey() string {
	return fmt.Sprintf("%x", securecookie.GenerateRandomKey(32))
}

// ValidateConfig performs app-specific config validation before any
// backend is contacted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return errors.New("mongo_database must not be empty")
	}
	if len(appCfg.SessionKey) < auth.MinKeyLength {
		return fmt.Errorf("session_key must be at least %d bytes", auth.MinKeyLength)
	}
	if appCfg.RateLimitAttempts < 1 {
		return errors.New("rate_limit_attempts must be positive")
	}
	if appCfg.RateLimitWindow <= 0 {
		return errors.New("rate_limit_window must be positive")
	}
	if appCfg.LogQueryLimit < 0 {
		return errors.New("log_query_limit must not be negative")
	}
	if appCfg.AuditRetention < 0 {
		return errors.New("audit_retention must not be negative")
	}
	switch appCfg.AuditLog {
	case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("audit_log must be one of all, db, log, off (got %q)", appCfg.AuditLog)
	}
	return nil
}
