// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, log level and request limits;
// everything SquadLog needs beyond that lives here and is passed to
// every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session cookie and token signing
	SessionKey    string // HS256 key, at least 32 bytes in production
	SessionName   string // cookie name (default: session)
	SessionDomain string // blank means current host

	// Rate limiting for signup, login and join. A blank RedisURL keeps
	// counters in process memory.
	RedisURL          string
	RateLimitAttempts int
	RateLimitWindow   time.Duration

	AuditLog       string        // all | db | log | off
	AuditRetention time.Duration // prune stored audit events older than this; 0 keeps all
	MetricsEnabled bool          // serve /metrics
	LogQueryLimit  int           // max logs per list request; 0 returns all

	// Storage deadlines applied through system/timeouts.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
