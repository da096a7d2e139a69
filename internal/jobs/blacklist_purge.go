package jobs

import (
	"context"
	"time"

	"github.com/dtroode/evalca-server/internal/logger"
)

const (
	defaultPurgeInterval = time.Hour
	defaultPurgeTimeout  = 30 * time.Second
)

// Purger deletes blacklist entries whose tokens have expired.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// BlacklistPurge periodically removes expired blacklist entries.
type BlacklistPurge struct {
	purger   Purger
	interval time.Duration
	timeout  time.Duration
	logger   *logger.Logger
}

// NewBlacklistPurge creates the job. Non-positive durations fall back to defaults.
func NewBlacklistPurge(purger Purger, interval, timeout time.Duration, logger *logger.Logger) *BlacklistPurge {
	if interval <= 0 {
		interval = defaultPurgeInterval
	}
	if timeout <= 0 {
		timeout = defaultPurgeTimeout
	}
	return &BlacklistPurge{purger: purger, interval: interval, timeout: timeout, logger: logger}
}

// Run purges once immediately and then on every tick until ctx is done.
func (j *BlacklistPurge) Run(ctx context.Context) {
	j.logger.Info("Blacklist purge job: started",
		"interval", j.interval.String())

	j.RunOnce(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Blacklist purge job: stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single purge bounded by the job timeout.
func (j *BlacklistPurge) RunOnce(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	n, err := j.purger.PurgeExpired(tickCtx)
	if err != nil {
		j.logger.Error("Blacklist purge job: purge failed",
			"error", err.Error())
		return
	}
	if n > 0 {
		j.logger.Info("Blacklist purge job: expired tokens removed",
			"count", n)
	}
}
