package entities

import "github.com/starforge/asterion/internal/sim/geometry"

// MaxBulletBounces is the number of world-boundary hits a bullet survives;
// the bounce that brings its count to MaxBulletBounces destroys it.
const MaxBulletBounces = 3

// Bullet is a projectile fired by a Ship. It is in exactly one of three
// places at a time: in a world, loaded into a ship's magazine, or neither
// (freshly constructed, not yet fired for the first time).
type Bullet struct {
	Body
	bounceCount int
	source      *Ship
	loadedInto  *Ship
}

// NewBullet creates a free (unowned, unloaded) Bullet with the given
// source ship (may be nil for a bullet that was never fired).
func NewBullet(pos, vel geometry.Vec2, radius float64, source *Ship) *Bullet {
	return &Bullet{
		Body:   newBody(pos, vel, 0, radius, BulletMinRadius, BulletDensity),
		source: source,
	}
}

func (b *Bullet) Kind() Kind { return BulletKind }

// BounceCount returns the number of world-boundary hits this bullet has
// survived so far.
func (b *Bullet) BounceCount() int { return b.bounceCount }

// Source returns the ship that fired this bullet, or nil if it never was.
func (b *Bullet) Source() *Ship { return b.source }

// LoadedInto returns the ship whose magazine currently holds this bullet,
// or nil if the bullet is not loaded into any magazine.
func (b *Bullet) LoadedInto() *Ship { return b.loadedInto }

// RegisterBounce increments the bounce count and reports whether this
// bounce destroyed the bullet (its count reached MaxBulletBounces).
func (b *Bullet) RegisterBounce() (destroyed bool) {
	b.bounceCount++
	if b.bounceCount >= MaxBulletBounces {
		b.Destroy()
		return true
	}
	return false
}

// reload resets a bullet for return to its source's magazine after a
// ship-own-bullet collision: bounce count clears and it is marked as
// loaded into that ship.
func (b *Bullet) reload(into *Ship) {
	b.bounceCount = 0
	b.loadedInto = into
	b.Detach()
}

// unload clears the loaded-into marker, e.g. just before Fire places the
// bullet back in the world.
func (b *Bullet) unload() {
	b.loadedInto = nil
}
