package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors a World or Driver records
// into. Unlike the package-level globals this is adapted from, Metrics is
// instance-scoped: each caller registers its own collectors against its
// own *prometheus.Registry, so two Worlds (e.g. two Ginkgo specs running
// in the same process) never collide over a shared default registry.
type Metrics struct {
	collisionsByKind   *prometheus.CounterVec
	boundaryBounces    prometheus.Counter
	destroyedByKind    *prometheus.CounterVec
	evolveDuration     prometheus.Histogram
	programSuspensions prometheus.Counter
	gcPause            prometheus.Histogram
}

// NewMetrics creates and registers a fresh set of collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		collisionsByKind: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asterion_collisions_total",
				Help: "Total number of entity-entity collisions resolved, by pair kind.",
			},
			[]string{"pair"},
		),
		boundaryBounces: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "asterion_boundary_bounces_total",
				Help: "Total number of entity-boundary collisions resolved.",
			},
		),
		destroyedByKind: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asterion_entities_destroyed_total",
				Help: "Total number of entities destroyed, by entity kind.",
			},
			[]string{"kind"},
		),
		evolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "asterion_evolve_duration_seconds",
				Help:    "Wall-clock duration of World.Evolve calls.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		programSuspensions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "asterion_program_suspensions_total",
				Help: "Total number of times a ship program ran out of time budget mid-tick.",
			},
		),
		gcPause: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "asterion_gc_pause_seconds",
				Help:    "GC pause duration in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.002, 0.005},
			},
		),
	}

	reg.MustRegister(
		m.collisionsByKind,
		m.boundaryBounces,
		m.destroyedByKind,
		m.evolveDuration,
		m.programSuspensions,
		m.gcPause,
	)
	return m
}

// RecordCollision increments the collision counter for the given pair
// kind (e.g. "ship-asteroid"). A nil receiver is a no-op so callers
// without a configured Metrics can record unconditionally.
func (m *Metrics) RecordCollision(pairKind string) {
	if m == nil {
		return
	}
	m.collisionsByKind.WithLabelValues(pairKind).Inc()
}

func (m *Metrics) RecordBoundaryBounce() {
	if m == nil {
		return
	}
	m.boundaryBounces.Inc()
}

func (m *Metrics) RecordDestroyed(kind string) {
	if m == nil {
		return
	}
	m.destroyedByKind.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveEvolveDuration(seconds float64) {
	if m == nil {
		return
	}
	m.evolveDuration.Observe(seconds)
}

func (m *Metrics) RecordSuspension() {
	if m == nil {
		return
	}
	m.programSuspensions.Inc()
}

func (m *Metrics) ObserveGCPause(seconds float64) {
	if m == nil {
		return
	}
	m.gcPause.Observe(seconds)
}

// MetricsHandler serves reg in the Prometheus text exposition format.
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
