// Package world implements the bounded rectangular container that owns a
// set of entities, predicts and dispatches the next collision event, and
// drives ship programs forward in lock-step with simulated time.
package world

import (
	"math"
	"math/rand"

	"github.com/go-logr/logr"

	"github.com/starforge/asterion/internal/observability"
	"github.com/starforge/asterion/internal/sim/entities"
)

// DefaultWidth and DefaultHeight are substituted whenever a requested
// dimension falls outside [0, MaxDim].
const (
	DefaultWidth  = 1000.0
	DefaultHeight = 1000.0
	MaxDim        = 1e9
)

// ProgramRunner drives a ship's attached program forward by dt simulated
// seconds. Defined here, not in interpreter, so this package never needs
// to import interpreter; interpreter imports world instead and satisfies
// this interface with its own *Interpreter.
type ProgramRunner interface {
	Run(ship *entities.Ship, w *World, dt float64) error
}

// CollisionListener receives notification of resolved events. ObjectCollision
// fires only when both entities involved were destroyed by the collision;
// BoundaryCollision fires for every entity-boundary event.
type CollisionListener interface {
	ObjectCollision(a, b entities.Entity, x, y float64)
	BoundaryCollision(e entities.Entity, x, y float64)
}

var nextWorldID uint64

// World is an axis-aligned rectangle owning a set of entities by identity,
// maintaining the invariant that no two members significantly overlap and
// every member lies within the boundaries.
type World struct {
	id     uint64
	width  float64
	height float64

	order []entities.Entity
	index map[entities.Entity]int

	rnd     *rand.Rand
	logger  logr.Logger
	metrics *observability.Metrics
	runner  ProgramRunner
}

// New returns an empty World. Dimensions outside [0, MaxDim] are replaced
// with the default 1000 x 1000.
func New(width, height float64) *World {
	if math.IsNaN(width) || width < 0 || width > MaxDim {
		width = DefaultWidth
	}
	if math.IsNaN(height) || height < 0 || height > MaxDim {
		height = DefaultHeight
	}
	nextWorldID++
	return &World{
		id:     nextWorldID,
		width:  width,
		height: height,
		index:  make(map[entities.Entity]int),
		rnd:    rand.New(rand.NewSource(1)),
		logger: logr.Discard(),
	}
}

func (w *World) SetLogger(logger logr.Logger)            { w.logger = logger }
func (w *World) SetMetrics(m *observability.Metrics)     { w.metrics = m }
func (w *World) SetRand(rnd *rand.Rand)                  { w.rnd = rnd }
func (w *World) SetProgramRunner(runner ProgramRunner)   { w.runner = runner }

func (w *World) Width() float64       { return w.width }
func (w *World) Height() float64      { return w.height }
func (w *World) Rand() *rand.Rand     { return w.rnd }

// Entities returns the current membership in insertion order. The slice is
// a copy; callers may not mutate World membership through it.
func (w *World) Entities() []entities.Entity {
	out := make([]entities.Entity, len(w.order))
	copy(out, w.order)
	return out
}

// AddEntity attaches e to this world and inserts it, after checking it is
// not already owned, does not significantly overlap a current member, and
// lies within the boundaries.
func (w *World) AddEntity(e entities.Entity) error {
	if e == nil {
		return &entities.NullError{Op: "AddEntity"}
	}
	if !entities.WithinBoundaries(e, w.width, w.height) {
		return &entities.OwnershipError{Msg: "entity is not within world boundaries"}
	}
	for _, other := range w.order {
		if entities.SignificantOverlap(e, other) {
			return &entities.OwnershipError{Msg: "entity significantly overlaps an existing member"}
		}
	}
	if err := e.Attach(w.id); err != nil {
		return err
	}
	w.index[e] = len(w.order)
	w.order = append(w.order, e)
	return nil
}

// RemoveEntity detaches e and removes it from membership. Removing an
// entity that is not a member is a no-op.
func (w *World) RemoveEntity(e entities.Entity) error {
	if e == nil {
		return &entities.NullError{Op: "RemoveEntity"}
	}
	i, ok := w.index[e]
	if !ok {
		return nil
	}
	e.Detach()
	w.removeAt(i)
	return nil
}

// removeAt excises the entity at index i from order, preserving the
// relative order of the remaining members, and reindexes everything after
// it.
func (w *World) removeAt(i int) {
	removed := w.order[i]
	w.order = append(w.order[:i], w.order[i+1:]...)
	delete(w.index, removed)
	for j := i; j < len(w.order); j++ {
		w.index[w.order[j]] = j
	}
}

// EntityAt performs a linear scan for the first member whose centre equals
// (x, y), or nil.
func (w *World) EntityAt(x, y float64) entities.Entity {
	for _, e := range w.order {
		p := e.Position()
		if p.X == x && p.Y == y {
			return e
		}
	}
	return nil
}

// Fire pops a bullet from ship's magazine, places it just outside the
// muzzle (its centre one bullet radius beyond the ship's rim, so it touches
// the firing ship without overlapping it) with the standard muzzle
// velocity, and inserts it into the world. If the placement would violate
// the overlap or boundary invariant, the bullet is destroyed instead of
// inserted, per §4.6.
func (w *World) Fire(ship *entities.Ship) error {
	bullet, ok := ship.PopMagazine()
	if !ok {
		return nil
	}
	muzzle := ship.MuzzlePosition()
	pos := muzzle.Add(muzzle.Sub(ship.Position()).Normalize().Scale(bullet.Radius()))
	vel := ship.MuzzleVelocity()
	if err := bullet.SetPosition(pos.X, pos.Y); err != nil {
		bullet.Destroy()
		return nil
	}
	bullet.SetVelocity(vel.X, vel.Y)
	if err := w.AddEntity(bullet); err != nil {
		bullet.Destroy()
		return nil
	}
	return nil
}

func (w *World) sweepDestroyed() {
	for i := 0; i < len(w.order); {
		e := w.order[i]
		if e.Destroyed() {
			e.Detach()
			e.Terminate()
			if w.metrics != nil {
				w.metrics.RecordDestroyed(e.Kind().String())
			}
			w.removeAt(i)
			continue
		}
		i++
	}
}
