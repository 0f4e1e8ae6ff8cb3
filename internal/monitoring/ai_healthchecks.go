package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_INTERVAL = 15 * time.Second

// HealthChecker is implemented by remote classifier back-ends.
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// MonitorClassifierHealth checks once immediately, then every interval,
// storing the outcome in healthy until ctx is done.
func MonitorClassifierHealth(ctx context.Context, checker HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		isHealthy := checker.HealthCheck(checkCtx)
		if was := healthy.Swap(isHealthy); was != isHealthy {
			if isHealthy {
				slog.Info("[HealthCheck] Classifier recovered")
			} else {
				slog.Warn("[HealthCheck] Classifier is unhealthy")
			}
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
