package entities

import (
	"math"

	"github.com/starforge/asterion/internal/sim/geometry"
	"github.com/starforge/asterion/internal/sim/program"
)

// ShipThrustForce is the acceleration magnitude applied while a ship's
// thruster is on (units per second squared).
const ShipThrustForce = 50.0

// BulletMuzzleSpeed is the speed, relative to the firing ship, a freshly
// fired bullet leaves the muzzle at.
const BulletMuzzleSpeed = 500.0

// Ship is a player-controlled Entity with a thruster, a bullet magazine,
// and an optional attached Program.
type Ship struct {
	Body
	thrusterOn bool
	magazine   []*Bullet
	Program    *program.Program
}

// NewShip creates a free (unowned) Ship with an empty magazine and no
// attached program.
func NewShip(pos, vel geometry.Vec2, orientation, radius float64) *Ship {
	return &Ship{
		Body: newBody(pos, vel, orientation, radius, ShipMinRadius, ShipDensity),
	}
}

func (s *Ship) Kind() Kind { return ShipKind }

// ThrusterOn reports whether the thruster is currently firing.
func (s *Ship) ThrusterOn() bool { return s.thrusterOn }

// ThrustOn engages the thruster; subsequent Move calls apply acceleration
// along the ship's orientation until ThrustOff is called.
func (s *Ship) ThrustOn() { s.thrusterOn = true }

// ThrustOff disengages the thruster.
func (s *Ship) ThrustOff() { s.thrusterOn = false }

// Turn rotates the ship by delta radians. Nominal: the caller must ensure
// orientation+delta stays within [0, 2π], or the turn is rejected with
// InvalidArgumentError and the ship's orientation is unchanged.
func (s *Ship) Turn(delta float64) error {
	return s.SetOrientation(s.orientation + delta)
}

// Move applies one step of thrust acceleration (if the thruster is on)
// before advancing position, then coasts exactly like any other entity.
func (s *Ship) Move(dt float64) error {
	if math.IsNaN(dt) || dt < 0 {
		return &InvalidDurationError{Dt: dt}
	}
	if s.thrusterOn {
		direction := geometry.NewVec2(math.Cos(s.orientation), math.Sin(s.orientation))
		s.vel = clampSpeed(s.vel.Add(direction.Scale(ShipThrustForce * dt)))
	}
	return s.Body.Move(dt)
}

// Magazine returns the bullets currently loaded into this ship, in load
// order.
func (s *Ship) Magazine() []*Bullet {
	out := make([]*Bullet, len(s.magazine))
	copy(out, s.magazine)
	return out
}

// LoadBullet adds b to this ship's magazine, marking it as loaded and
// detached from any world.
func (s *Ship) LoadBullet(b *Bullet) error {
	if b == nil {
		return &NullError{Op: "LoadBullet"}
	}
	b.reload(s)
	s.magazine = append(s.magazine, b)
	return nil
}

// UnloadBullet removes b from this ship's magazine without changing its
// position or velocity. A no-op if b is not currently loaded here.
func (s *Ship) UnloadBullet(b *Bullet) {
	for i, loaded := range s.magazine {
		if loaded == b {
			s.magazine = append(s.magazine[:i], s.magazine[i+1:]...)
			b.unload()
			return
		}
	}
}

// MuzzlePosition returns the point on the ship's rim along its current
// orientation. A newly fired bullet spawns with its centre one bullet
// radius beyond this point, touching the ship from outside.
func (s *Ship) MuzzlePosition() geometry.Vec2 {
	direction := geometry.NewVec2(math.Cos(s.orientation), math.Sin(s.orientation))
	return s.pos.Add(direction.Scale(s.radius))
}

// MuzzleVelocity returns the velocity a newly fired bullet leaves the
// muzzle with: the ship's own velocity plus BulletMuzzleSpeed along the
// ship's orientation.
func (s *Ship) MuzzleVelocity() geometry.Vec2 {
	direction := geometry.NewVec2(math.Cos(s.orientation), math.Sin(s.orientation))
	return s.vel.Add(direction.Scale(BulletMuzzleSpeed))
}

// PopMagazine removes and returns the oldest-loaded bullet in the
// magazine, or reports false if the magazine is empty. The caller (the
// World, via Fire) is responsible for positioning and inserting the
// returned bullet.
func (s *Ship) PopMagazine() (*Bullet, bool) {
	if len(s.magazine) == 0 {
		return nil, false
	}
	b := s.magazine[0]
	s.magazine = s.magazine[1:]
	b.unload()
	return b, true
}
