package observability

import (
	"context"
	"runtime"
	"time"

	"github.com/go-logr/logr"
)

// StartGCMonitor starts a goroutine that periodically samples GC statistics
// and records average per-cycle GC pause duration into metrics. The monitor
// runs until the context is cancelled or the returned channel is closed.
func StartGCMonitor(ctx context.Context, interval time.Duration, metrics *Metrics, logger logr.Logger) chan struct{} {
	stopChan := make(chan struct{})

	go func() {
		var lastPauseTotalNs uint64
		var lastNumGC uint32

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		lastPauseTotalNs = memStats.PauseTotalNs
		lastNumGC = memStats.NumGC

		for {
			select {
			case <-ctx.Done():
				return
			case <-stopChan:
				return
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)

				currentPauseTotalNs := memStats.PauseTotalNs
				currentNumGC := memStats.NumGC

				if currentNumGC > lastNumGC {
					pauseDeltaNs := currentPauseTotalNs - lastPauseTotalNs
					gcCount := currentNumGC - lastNumGC

					if gcCount > 0 && pauseDeltaNs > 0 {
						avgPauseNs := pauseDeltaNs / uint64(gcCount)
						avgPauseSeconds := float64(avgPauseNs) / 1e9
						metrics.ObserveGCPause(avgPauseSeconds)
					}

					lastPauseTotalNs = currentPauseTotalNs
					lastNumGC = currentNumGC
				}
			}
		}
	}()

	return stopChan
}
