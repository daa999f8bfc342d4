package entities

import "github.com/starforge/asterion/internal/sim/geometry"

// PlanetoidShrinkRate is the radius lost per unit distance travelled.
const PlanetoidShrinkRate = 0.002

// Planetoid is a ballistic MinorPlanet whose radius shrinks as it travels;
// it self-destructs once its radius would fall below PlanetoidMinRadius.
type Planetoid struct {
	Body
	traveled float64
}

// NewPlanetoid creates a free (unowned) Planetoid. radius is floored at
// PlanetoidMinRadius.
func NewPlanetoid(pos, vel geometry.Vec2, radius float64) *Planetoid {
	return &Planetoid{
		Body: newBody(pos, vel, 0, radius, PlanetoidMinRadius, PlanetoidDensity),
	}
}

func (p *Planetoid) Kind() Kind { return PlanetoidKind }

// Move advances the planetoid and shrinks its radius in proportion to the
// distance travelled this step. The planetoid self-destructs (Destroy) the
// moment its radius would fall below PlanetoidMinRadius; its position and
// velocity for this step are still applied first.
func (p *Planetoid) Move(dt float64) error {
	before := p.pos
	if err := p.Body.Move(dt); err != nil {
		return err
	}
	step := p.pos.Sub(before).Length()
	p.traveled += step
	p.radius -= step * PlanetoidShrinkRate
	p.mass = computeMass(max(p.radius, PlanetoidMinRadius), PlanetoidDensity)
	if p.radius < PlanetoidMinRadius {
		p.Destroy()
	}
	return nil
}

// Traveled returns the total distance this planetoid has moved since
// creation.
func (p *Planetoid) Traveled() float64 { return p.traveled }
