// internal/app/system/workers/auditretention.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Purger deletes records older than a cutoff. *audit.Store satisfies it.
type Purger interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditRetention is a background worker that prunes audit events older
// than maxAge.
type AuditRetention struct {
	purger   Purger
	log      *zap.Logger
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewAuditRetention creates a retention worker.
//
// Parameters:
//   - purger: the audit store
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 1 hour)
//   - maxAge: how long events are kept (e.g., 90 days)
func NewAuditRetention(purger Purger, logger *zap.Logger, interval, maxAge time.Duration) *AuditRetention {
	return &AuditRetention{
		purger:   purger,
		log:      logger,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// WithClock replaces the time source. Used by tests.
func (w *AuditRetention) WithClock(now func() time.Time) *AuditRetention {
	w.now = now
	return w
}

// Start begins the background sweep loop.
func (w *AuditRetention) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("audit retention worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("max_age", w.maxAge))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *AuditRetention) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("audit retention worker stopped")
}

func (w *AuditRetention) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			_, _ = w.Sweep(ctx)
			cancel()
		}
	}
}

// Sweep runs one pruning pass and returns the number of deleted events.
func (w *AuditRetention) Sweep(ctx context.Context) (int64, error) {
	cutoff := w.now().UTC().Add(-w.maxAge)
	count, err := w.purger.DeleteBefore(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to prune audit events", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		w.log.Info("pruned audit events", zap.Int64("count", count), zap.Time("cutoff", cutoff))
	}
	return count, nil
}
