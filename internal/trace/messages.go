// Package trace defines JSON-serializable snapshots of entities and worlds,
// used for a Program's print trace and for a session's in-memory History.
// It depends on entities (to capture live state) but never on program, so
// there is no risk of a program -> trace -> entities -> program cycle.
package trace

import "github.com/starforge/asterion/internal/sim/entities"

// Vec2Snapshot is a 2D vector in a snapshot.
type Vec2Snapshot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EntitySnapshot is one entity's state at the moment a WorldSnapshot was
// captured.
type EntitySnapshot struct {
	ID          uint64       `json:"id"`
	Kind        string       `json:"kind"`
	Pos         Vec2Snapshot `json:"pos"`
	Vel         Vec2Snapshot `json:"vel"`
	Radius      float64      `json:"radius"`
	Orientation float64      `json:"orientation"`
	Destroyed   bool         `json:"destroyed"`
}

// WorldSnapshot is a tick number and the full membership of the world at
// that tick.
type WorldSnapshot struct {
	Type     string           `json:"t"`
	Tick     uint64           `json:"tick"`
	Entities []EntitySnapshot `json:"entities"`
}

// CaptureEntity converts a live entity into its snapshot representation.
func CaptureEntity(e entities.Entity) EntitySnapshot {
	pos := e.Position()
	vel := e.Velocity()
	return EntitySnapshot{
		ID:          e.EntityID(),
		Kind:        e.Kind().String(),
		Pos:         Vec2Snapshot{X: pos.X, Y: pos.Y},
		Vel:         Vec2Snapshot{X: vel.X, Y: vel.Y},
		Radius:      e.Radius(),
		Orientation: e.Orientation(),
		Destroyed:   e.Destroyed(),
	}
}

// CaptureWorld converts every current member of members into a
// WorldSnapshot tagged with tick.
func CaptureWorld(tick uint64, members []entities.Entity) WorldSnapshot {
	out := make([]EntitySnapshot, len(members))
	for i, e := range members {
		out[i] = CaptureEntity(e)
	}
	return WorldSnapshot{Type: "snapshot", Tick: tick, Entities: out}
}
