// Command asteroidsd runs a headless simulation: a world seeded with a
// handful of entities, one of them a ship driven by a small hand-built
// Program, advanced at a fixed rate until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/starforge/asterion/internal/observability"
	"github.com/starforge/asterion/internal/session"
	"github.com/starforge/asterion/internal/sim/entities"
	"github.com/starforge/asterion/internal/sim/geometry"
	"github.com/starforge/asterion/internal/sim/interpreter"
	"github.com/starforge/asterion/internal/sim/program"
	"github.com/starforge/asterion/internal/sim/world"
)

const (
	worldWidth  = 2000.0
	worldHeight = 2000.0
	tickRate    = 1.0 / 30.0
)

func main() {
	logger := observability.NewLogger()
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	w := buildWorld(logger, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gcStop := observability.StartGCMonitor(ctx, 15*time.Second, metrics, logger)
	defer close(gcStop)

	driver := session.NewDriver(session.NewRealClock(), w, tickRate)
	driver.SetLogger(logger)
	driver.SetHistory(session.NewHistory(600))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var stopped atomic.Bool
	done := make(chan error, 1)
	go func() {
		// Run in bounded batches so the signal handler below gets a chance
		// to observe a shutdown request between batches rather than
		// blocking on a single very long Run call.
		for !stopped.Load() {
			if err := driver.Run(30); err != nil {
				done <- err
				return
			}
			if len(driver.World().Entities()) == 0 {
				break
			}
		}
		done <- nil
	}()

	select {
	case <-quit:
		logger.Info("shutdown signal received, stopping driver")
		stopped.Store(true)
		driver.Stop()
		<-done
	case err := <-done:
		if err != nil {
			logger.Error(err, "simulation loop exited with an error")
			os.Exit(1)
		}
	}

	logger.Info("asteroidsd exiting", "ticks_run", driver.Tick())
}

// buildWorld assembles a world with a lone programmed ship, an asteroid in
// its path, and wires metrics/logging/program-execution into it.
func buildWorld(logger logr.Logger, metrics *observability.Metrics) *world.World {
	w := world.New(worldWidth, worldHeight)
	w.SetLogger(logger)
	w.SetMetrics(metrics)
	w.SetProgramRunner(interpreter.New())

	ship := entities.NewShip(geometry.NewVec2(worldWidth/2, worldHeight/2), geometry.NewVec2(0, 0), 0, 12)
	ship.Program = demoProgram()
	if err := w.AddEntity(ship); err != nil {
		logger.Error(err, "failed to add ship")
	}

	asteroid := entities.NewAsteroid(geometry.NewVec2(worldWidth/2+400, worldHeight/2), geometry.NewVec2(-20, 5), 40)
	if err := w.AddEntity(asteroid); err != nil {
		logger.Error(err, "failed to add asteroid")
	}

	return w
}

// demoProgram builds a small patrol-and-fire script by hand, in lieu of a
// parser: engage the thruster, turn by a fixed 0.05 rad, fire three times
// with a skip between each shot, disengage the thruster, then print the
// distance to the nearest asteroid.
func demoProgram() *program.Program {
	b := program.NewBuilder()

	root := b.Seq(
		b.ThrustOn(),
		b.Turn(b.Literal(program.Double(0.05))),
		b.Fire(),
		b.Skip(),
		b.Fire(),
		b.Skip(),
		b.Fire(),
		b.ThrustOff(),
		b.Print(b.Distance(b.Query(program.QueryAsteroid))),
	)

	return program.NewProgram(root)
}
