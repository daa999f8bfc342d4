package entities

import "github.com/starforge/asterion/internal/sim/geometry"

// Asteroid is a purely ballistic MinorPlanet: it coasts under its initial
// velocity and never changes shape.
type Asteroid struct {
	Body
}

// NewAsteroid creates a free (unowned) Asteroid. radius is floored at
// AsteroidMinRadius.
func NewAsteroid(pos, vel geometry.Vec2, radius float64) *Asteroid {
	return &Asteroid{
		Body: newBody(pos, vel, 0, radius, AsteroidMinRadius, AsteroidDensity),
	}
}

func (a *Asteroid) Kind() Kind { return AsteroidKind }
