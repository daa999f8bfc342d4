package world

import (
	"math"

	"github.com/starforge/asterion/internal/sim/entities"
	"github.com/starforge/asterion/internal/sim/geometry"
)

// closest scans order for the nearest member to self, other than self
// itself, for which keep returns true. It returns nil if none match.
func (w *World) closest(self entities.Entity, keep func(entities.Entity) bool) entities.Entity {
	var best entities.Entity
	bestDist := math.Inf(1)
	selfPos := self.Position()
	for _, e := range w.order {
		if e == self || !keep(e) {
			continue
		}
		d := geometry.Distance(selfPos, e.Position())
		if d < bestDist {
			bestDist = d
			best = e
		}
	}
	return best
}

// ClosestShip returns the nearest ship other than self, or nil.
func (w *World) ClosestShip(self entities.Entity) entities.Entity {
	return w.closest(self, func(e entities.Entity) bool {
		_, ok := e.(*entities.Ship)
		return ok
	})
}

// ClosestAsteroid returns the nearest asteroid, or nil.
func (w *World) ClosestAsteroid(self entities.Entity) entities.Entity {
	return w.closest(self, func(e entities.Entity) bool {
		_, ok := e.(*entities.Asteroid)
		return ok
	})
}

// ClosestPlanetoid returns the nearest planetoid, or nil.
func (w *World) ClosestPlanetoid(self entities.Entity) entities.Entity {
	return w.closest(self, func(e entities.Entity) bool {
		_, ok := e.(*entities.Planetoid)
		return ok
	})
}

// ClosestMinorPlanet returns the nearest asteroid or planetoid, or nil.
func (w *World) ClosestMinorPlanet(self entities.Entity) entities.Entity {
	return w.closest(self, func(e entities.Entity) bool {
		switch e.(type) {
		case *entities.Asteroid, *entities.Planetoid:
			return true
		default:
			return false
		}
	})
}

// FirstBulletFrom returns the first bullet currently in the world whose
// source is self, in insertion order, or nil.
func (w *World) FirstBulletFrom(self entities.Entity) entities.Entity {
	ship, ok := self.(*entities.Ship)
	if !ok {
		return nil
	}
	for _, e := range w.order {
		bullet, ok := e.(*entities.Bullet)
		if ok && bullet.Source() == ship {
			return bullet
		}
	}
	return nil
}

// Any returns an arbitrary member of the world, or nil if it is empty.
// Arbitrary is implemented as "first in insertion order" to keep queries
// deterministic for tests.
func (w *World) Any() entities.Entity {
	if len(w.order) == 0 {
		return nil
	}
	return w.order[0]
}
