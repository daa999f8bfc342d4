package world

import (
	"math"
	"time"

	"github.com/starforge/asterion/internal/sim/collision"
	"github.com/starforge/asterion/internal/sim/entities"
	"github.com/starforge/asterion/internal/sim/geometry"
)

// Evolve is the event loop: it repeatedly finds the next collision (entity
// pair or entity-boundary), advances every entity and running program up
// to that moment, resolves the collision, notifies listener, and sweeps
// destroyed members, until dt is exhausted or the world is empty.
//
//	while dt > 0 and world non-empty:
//	  (a, b) <- argmin tCollision over all pairs and entity-boundary events
//	  if none or tau > dt: advance(dt); return
//	  advance(max(tau, 0))
//	  resolve(a, b)
//	  notify(listener)
//	  sweepDestroyed()
//	  dt -= tau
func (w *World) Evolve(dt float64, listener CollisionListener) error {
	if math.IsNaN(dt) || dt < 0 {
		return &entities.InvalidDurationError{Dt: dt}
	}

	start := time.Now()
	defer func() {
		if w.metrics != nil {
			w.metrics.ObserveEvolveDuration(time.Since(start).Seconds())
		}
	}()

	for dt > 0 && len(w.order) > 0 {
		a, b, tau, isBoundary, found := w.nextCollision()
		if !found || tau > dt {
			w.advance(dt)
			return nil
		}

		step := tau
		if step < 0 {
			step = 0
		}
		w.advance(step)

		if isBoundary {
			point := collision.ResolveBoundary(a, w)
			if listener != nil {
				listener.BoundaryCollision(a, point.X, point.Y)
			}
			if w.metrics != nil {
				w.metrics.RecordBoundaryBounce()
			}
		} else {
			point, err := collision.Resolve(a, b, w)
			if err != nil {
				return err
			}
			if listener != nil && a.Destroyed() && b.Destroyed() {
				listener.ObjectCollision(a, b, point.X, point.Y)
			}
			if w.metrics != nil {
				w.metrics.RecordCollision(pairLabel(a, b))
			}
		}

		w.sweepDestroyed()
		dt -= tau
	}
	return nil
}

func pairLabel(a, b entities.Entity) string {
	ka, kb := a.Kind().String(), b.Kind().String()
	if ka <= kb {
		return ka + "-" + kb
	}
	return kb + "-" + ka
}

// advance runs each ship's program for dt, then moves every entity by dt.
func (w *World) advance(dt float64) {
	if w.runner != nil {
		for _, e := range w.order {
			ship, ok := e.(*entities.Ship)
			if !ok || ship.Program == nil {
				continue
			}
			err := w.runner.Run(ship, w, dt)
			if err == nil && ship.Program.ResumeAt != 0 && w.metrics != nil {
				w.metrics.RecordSuspension()
			}
		}
	}
	for _, e := range w.order {
		_ = e.Move(dt)
	}
}

// nextCollision finds the minimum-time event among all entity pairs and
// all entity-boundary crossings. Ties are broken by iteration order: the
// first candidate found at the current minimum wins, so insertion order
// determines the tie-break.
func (w *World) nextCollision() (a, b entities.Entity, tau float64, isBoundary bool, found bool) {
	best := math.Inf(1)
	n := len(w.order)
	for i := 0; i < n; i++ {
		ei := w.order[i]
		if ei.Destroyed() {
			continue
		}
		tb := geometry.TimeToBoundary(ei.Position(), ei.Velocity(), ei.Radius(), w.width, w.height)
		if tb < best {
			best = tb
			a, b, isBoundary, found = ei, nil, true, true
		}
		for j := i + 1; j < n; j++ {
			ej := w.order[j]
			if ej.Destroyed() {
				continue
			}
			tc := geometry.TimeToCollision(ei.Position(), ei.Velocity(), ei.Radius(), ej.Position(), ej.Velocity(), ej.Radius())
			if tc < best {
				best = tc
				a, b, isBoundary, found = ei, ej, false, true
			}
		}
	}
	tau = best
	return
}

// NextCollisionTime returns the simulated time until the next event, and
// false if the world contains no entity or no event is predicted.
func (w *World) NextCollisionTime() (float64, bool) {
	_, _, tau, _, found := w.nextCollision()
	if !found || math.IsInf(tau, 1) {
		return 0, false
	}
	return tau, true
}

// NextCollisionObjects returns the pair that would collide next. b is nil
// when the next event is an entity-boundary crossing.
func (w *World) NextCollisionObjects() (a, b entities.Entity, ok bool) {
	a, b, _, _, found := w.nextCollision()
	if !found {
		return nil, nil, false
	}
	return a, b, true
}

// NextCollisionPosition returns the contact point of the next predicted
// event.
func (w *World) NextCollisionPosition() (geometry.Vec2, bool) {
	a, b, tau, isBoundary, found := w.nextCollision()
	if !found || math.IsInf(tau, 1) {
		return geometry.Vec2{}, false
	}
	if isBoundary {
		return collision.BoundaryImpactPoint(a, w.width, w.height), true
	}
	return geometry.CollisionPoint(a.Position(), a.Velocity(), a.Radius(), b.Position(), b.Velocity(), b.Radius()), true
}
