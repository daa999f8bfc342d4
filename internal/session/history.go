package session

import (
	"github.com/starforge/asterion/internal/sim/entities"
	"github.com/starforge/asterion/internal/trace"
)

// History keeps the most recent snapshots of a Driver's world, bounded to a
// fixed capacity ring, for a host to inspect or replay without re-running
// the simulation.
type History struct {
	capacity  int
	snapshots []trace.WorldSnapshot
}

// NewHistory returns a History retaining at most capacity snapshots.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{capacity: capacity}
}

// Record captures members under tick and appends it, evicting the oldest
// snapshot once capacity is exceeded.
func (h *History) Record(tick uint64, members []entities.Entity) {
	h.snapshots = append(h.snapshots, trace.CaptureWorld(tick, members))
	if len(h.snapshots) > h.capacity {
		h.snapshots = h.snapshots[len(h.snapshots)-h.capacity:]
	}
}

// Latest returns the most recently recorded snapshot, or false if none has
// been recorded yet.
func (h *History) Latest() (trace.WorldSnapshot, bool) {
	if len(h.snapshots) == 0 {
		return trace.WorldSnapshot{}, false
	}
	return h.snapshots[len(h.snapshots)-1], true
}

// At returns the snapshot recorded for tick, or false if it has been
// evicted or was never recorded.
func (h *History) At(tick uint64) (trace.WorldSnapshot, bool) {
	for _, s := range h.snapshots {
		if s.Tick == tick {
			return s, true
		}
	}
	return trace.WorldSnapshot{}, false
}

// Len returns the number of snapshots currently retained.
func (h *History) Len() int { return len(h.snapshots) }
