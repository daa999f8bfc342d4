package trace

import (
	"fmt"
	"math"
)

// ValidateVec2Snapshot reports an error if vec contains a NaN or infinite
// component.
func ValidateVec2Snapshot(vec *Vec2Snapshot) error {
	if vec == nil {
		return fmt.Errorf("vec2 snapshot is nil")
	}
	if math.IsNaN(vec.X) || math.IsInf(vec.X, 0) {
		return fmt.Errorf("invalid x: must be finite, got %v", vec.X)
	}
	if math.IsNaN(vec.Y) || math.IsInf(vec.Y, 0) {
		return fmt.Errorf("invalid y: must be finite, got %v", vec.Y)
	}
	return nil
}

// ValidateEntitySnapshot reports an error if snap is structurally invalid:
// a zero ID, a non-positive radius, or a non-finite position or velocity.
func ValidateEntitySnapshot(snap *EntitySnapshot) error {
	if snap == nil {
		return fmt.Errorf("entity snapshot is nil")
	}
	if snap.ID == 0 {
		return fmt.Errorf("invalid id: must be nonzero")
	}
	if err := ValidateVec2Snapshot(&snap.Pos); err != nil {
		return fmt.Errorf("invalid pos: %w", err)
	}
	if err := ValidateVec2Snapshot(&snap.Vel); err != nil {
		return fmt.Errorf("invalid vel: %w", err)
	}
	if snap.Radius <= 0.0 {
		return fmt.Errorf("invalid radius: must be > 0.0, got %f", snap.Radius)
	}
	return nil
}

// ValidateWorldSnapshot validates msg's type tag and every entity it
// carries.
func ValidateWorldSnapshot(msg *WorldSnapshot) error {
	if msg == nil {
		return fmt.Errorf("world snapshot is nil")
	}
	if msg.Type != "snapshot" {
		return fmt.Errorf("invalid type: expected 'snapshot', got '%s'", msg.Type)
	}
	for i := range msg.Entities {
		if err := ValidateEntitySnapshot(&msg.Entities[i]); err != nil {
			return fmt.Errorf("invalid entity at index %d: %w", i, err)
		}
	}
	return nil
}
