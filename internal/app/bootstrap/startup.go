// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/squadlog/internal/app/store/audit"
	"github.com/dalemusser/squadlog/internal/app/system/timeouts"
	"github.com/dalemusser/squadlog/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})
	cur := timeouts.Current()
	logger.Info("storage timeouts configured",
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long),
	)

	if appCfg.AuditRetention > 0 && deps.Workers != nil && deps.MongoDatabase != nil {
		deps.Workers.Start(workers.NewAuditRetention(
			audit.New(deps.MongoDatabase), logger, time.Hour, appCfg.AuditRetention))
	}
	return nil
}
