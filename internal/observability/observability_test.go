package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestObservability(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Observability Integration Suite")
}

// calculatePercentile estimates a percentile from a Prometheus histogram's
// bucket boundaries.
func calculatePercentile(histogram *dto.Histogram, percentile float64) float64 {
	if histogram == nil || len(histogram.Bucket) == 0 {
		return 0.0
	}

	totalCount := histogram.GetSampleCount()
	if totalCount == 0 {
		return 0.0
	}

	targetCount := uint64(float64(totalCount) * percentile / 100.0)
	for _, bucket := range histogram.Bucket {
		if bucket.GetCumulativeCount() >= targetCount {
			return bucket.GetUpperBound()
		}
	}
	lastBucket := histogram.Bucket[len(histogram.Bucket)-1]
	return lastBucket.GetUpperBound()
}

var _ = Describe("Observability Integration Tests", Label("scope:integration", "loop:g7-ops", "layer:sim", "b:observability-tests", "r:high"), func() {
	var reg *prometheus.Registry
	var metrics *Metrics

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		metrics = NewMetrics(reg)
	})

	Describe("Metrics Collection", func() {
		It("tracks collisions, boundary bounces, and destructions together", func() {
			metrics.RecordCollision("ship-asteroid")
			metrics.RecordCollision("ship-asteroid")
			metrics.RecordBoundaryBounce()
			metrics.RecordDestroyed("bullet")
			metrics.RecordSuspension()

			var m dto.Metric
			Expect(metrics.collisionsByKind.WithLabelValues("ship-asteroid").Write(&m)).To(Succeed())
			Expect(m.Counter.GetValue()).To(Equal(2.0))

			Expect(metrics.boundaryBounces.Write(&m)).To(Succeed())
			Expect(m.Counter.GetValue()).To(Equal(1.0))

			Expect(metrics.destroyedByKind.WithLabelValues("bullet").Write(&m)).To(Succeed())
			Expect(m.Counter.GetValue()).To(Equal(1.0))

			Expect(metrics.programSuspensions.Write(&m)).To(Succeed())
			Expect(m.Counter.GetValue()).To(Equal(1.0))
		})
	})

	Describe("SLO validation", func() {
		It("validates evolve duration p99 under a tight budget", func() {
			// Buckets: 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1
			for i := 0; i < 100; i++ {
				duration := time.Duration(1+(i%4)) * time.Millisecond
				metrics.ObserveEvolveDuration(duration.Seconds())
			}

			var m dto.Metric
			Expect(metrics.evolveDuration.Write(&m)).To(Succeed())
			Expect(m.Histogram).NotTo(BeNil())

			p99Seconds := calculatePercentile(m.Histogram, 99.0)
			Expect(p99Seconds * 1000.0).To(BeNumerically("<", 10.0))
		})

		It("validates GC pause stays within a small budget under load", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			stopChan := StartGCMonitor(ctx, 100*time.Millisecond, metrics, logr.Discard())

			for i := 0; i < 1000; i++ {
				_ = make([]byte, 1024*1024)
			}
			runtime.GC()

			time.Sleep(200 * time.Millisecond)
			close(stopChan)
			time.Sleep(50 * time.Millisecond)

			var m dto.Metric
			Expect(metrics.gcPause.Write(&m)).To(Succeed())

			if m.Histogram != nil && m.Histogram.GetSampleCount() > 0 {
				p99Ms := calculatePercentile(m.Histogram, 99.0) * 1000.0
				Expect(p99Ms).To(BeNumerically("<", 2.0))
			} else {
				Skip("No GC pauses recorded during test period")
			}
		})
	})

	Describe("Structured Logging", func() {
		It("produces structured JSON log output with context fields", func() {
			config := zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			config.Encoding = "json"
			zapLogger, err := config.Build()
			Expect(err).NotTo(HaveOccurred())

			logger := zapr.NewLogger(zapLogger)
			logger = logger.WithValues(
				"component", "world",
				"tick", uint32(42),
				"event", "evolve_complete",
			)
			logger.Info("Test log message", "duration_ms", 5.0)

			Expect(logger).NotTo(BeNil())
		})

		It("uses appropriate log levels", func() {
			logger := NewLogger()
			Expect(logger.Enabled()).To(BeTrue())

			logger.Info("Info level message", "component", "test")
			logger.Error(nil, "Error level message", "component", "test")
		})

		It("includes context fields in log entries", func() {
			logger := NewLogger().WithValues(
				"world_id", "world-123",
				"tick", uint32(100),
				"event", "collision",
			)
			Expect(logger).NotTo(BeNil())
			logger.Info("Message with context")
		})
	})

	Describe("/metrics endpoint", func() {
		It("returns valid Prometheus format with HELP and TYPE comments", func() {
			metrics.RecordCollision("ship-asteroid")
			metrics.RecordBoundaryBounce()
			metrics.ObserveEvolveDuration(0.005)

			req := httptest.NewRequest("GET", "/metrics", nil)
			w := httptest.NewRecorder()
			MetricsHandler(reg).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			body := w.Body.String()
			Expect(body).NotTo(BeEmpty())

			Expect(body).To(ContainSubstring("# TYPE asterion_collisions_total counter"))
			Expect(body).To(ContainSubstring("# TYPE asterion_boundary_bounces_total counter"))
			Expect(body).To(ContainSubstring("# TYPE asterion_evolve_duration_seconds histogram"))
			Expect(body).To(ContainSubstring("# HELP asterion_collisions_total"))
		})

		It("exposes all registered collectors", func() {
			metrics.RecordCollision("bullet-bullet")
			metrics.RecordDestroyed("asteroid")
			metrics.RecordSuspension()
			metrics.ObserveGCPause(0.0001)

			req := httptest.NewRequest("GET", "/metrics", nil)
			w := httptest.NewRecorder()
			MetricsHandler(reg).ServeHTTP(w, req)

			body := w.Body.String()
			for _, name := range []string{
				"asterion_collisions_total",
				"asterion_boundary_bounces_total",
				"asterion_entities_destroyed_total",
				"asterion_evolve_duration_seconds",
				"asterion_program_suspensions_total",
				"asterion_gc_pause_seconds",
			} {
				Expect(body).To(ContainSubstring(name), "should contain metric: %s", name)
			}
		})
	})
})
