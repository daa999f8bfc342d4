package session

import (
	"time"

	"github.com/go-logr/logr"

	"github.com/starforge/asterion/internal/sim/world"
)

// Driver orchestrates the fixed-rate simulation loop by combining a Ticker
// with repeated calls to World.Evolve.
type Driver struct {
	world   *world.World
	ticker  *Ticker
	clock   Clock
	dt      float64
	tick    uint64
	running bool
	logger  logr.Logger

	listener world.CollisionListener
	history  *History
}

// NewDriver creates a Driver advancing w by dt simulated seconds per tick.
// clock feeds the Driver's Ticker, but Run does not wait on it: ticks run
// back to back, without real-time pacing.
func NewDriver(clock Clock, w *world.World, dt float64) *Driver {
	return &Driver{
		world:  w,
		ticker: NewFixedRateTicker(clock),
		clock:  clock,
		dt:     dt,
		logger: logr.Discard(),
	}
}

// SetLogger attaches a structured logger used to report slow ticks.
func (d *Driver) SetLogger(logger logr.Logger) { d.logger = logger }

// SetListener attaches the collision listener passed to every Evolve call.
func (d *Driver) SetListener(listener world.CollisionListener) { d.listener = listener }

// SetHistory attaches a History that records a snapshot after every tick.
func (d *Driver) SetHistory(h *History) { d.history = h }

// Run executes up to maxTicks simulated ticks, advancing the world by dt at
// the end of each. It stops early once the world is empty (nothing left to
// simulate).
func (d *Driver) Run(maxTicks int) error {
	d.running = true
	defer func() { d.running = false }()

	for i := 0; i < maxTicks; i++ {
		d.ticker.Tick(d.clock.Now())

		tickStart := time.Now()
		if err := d.world.Evolve(d.dt, d.listener); err != nil {
			return err
		}
		tickDuration := time.Since(tickStart)

		d.tick++
		if d.history != nil {
			d.history.Record(d.tick, d.world.Entities())
		}

		const slowTickThreshold = 10 * time.Millisecond
		if tickDuration > slowTickThreshold && d.logger.Enabled() {
			d.logger.WithValues(
				"component", "session",
				"tick", d.tick,
				"duration_ms", tickDuration.Seconds()*1000.0,
				"threshold_ms", slowTickThreshold.Seconds()*1000.0,
			).Info("tick execution exceeded threshold")
		}

		if len(d.world.Entities()) == 0 {
			break
		}
	}
	return nil
}

// World returns the world this Driver advances.
func (d *Driver) World() *world.World { return d.world }

// Tick returns the number of ticks run so far.
func (d *Driver) Tick() uint64 { return d.tick }

// IsRunning reports whether Run is currently executing.
func (d *Driver) IsRunning() bool { return d.running }

// Stop marks the driver as no longer running. A caller wanting to
// interrupt an in-flight Run should keep maxTicks small and call Run
// repeatedly, checking IsRunning/Stop between calls.
func (d *Driver) Stop() { d.running = false }
