// Package collision implements the per-pair collision effects applied
// once World's event loop has located the next collision: elastic
// momentum exchange, bullet reload/destruction, ship destruction, and
// planetoid teleport, plus world-boundary bounce.
package collision

import (
	"math/rand"

	"github.com/starforge/asterion/internal/sim/entities"
	"github.com/starforge/asterion/internal/sim/geometry"
)

// WorldView is the slice of World a resolver needs: its dimensions (to
// place a teleported ship) and its current membership (to check the new
// placement doesn't land on top of another entity), plus an injectable
// random source so teleport placement is reproducible in tests. Defined
// here, not imported from the world package, so this package has no
// dependency on world at all.
type WorldView interface {
	Width() float64
	Height() float64
	Entities() []entities.Entity
	Rand() *rand.Rand

	// RemoveEntity excises e from membership. Resolve calls this when a
	// collision's effect is "leaves the world" but isn't expressed as
	// Destroyed() — a reloaded bullet is not destroyed, it's relocated
	// into its ship's magazine, so sweepDestroyed would never catch it.
	RemoveEntity(e entities.Entity) error
}

// Resolve applies the collision effect for entities a and b (order does
// not matter) and returns the contact point. Both entities may end up
// with Destroyed() true; sweeping them out of the world is the caller's
// responsibility.
func Resolve(a, b entities.Entity, view WorldView) (geometry.Vec2, error) {
	point := geometry.CollisionPoint(a.Position(), a.Velocity(), a.Radius(), b.Position(), b.Velocity(), b.Radius())
	var err error

	switch av := a.(type) {
	case *entities.Ship:
		switch bv := b.(type) {
		case *entities.Ship:
			elasticExchange(av, bv)
		case *entities.Bullet:
			err = resolveShipBullet(av, bv, view)
		case *entities.Asteroid:
			av.Destroy()
		case *entities.Planetoid:
			teleportShip(av, view)
		}
	case *entities.Bullet:
		switch bv := b.(type) {
		case *entities.Ship:
			err = resolveShipBullet(bv, av, view)
		case *entities.Bullet:
			av.Destroy()
			bv.Destroy()
		case *entities.Asteroid, *entities.Planetoid:
			// Bullets that reach a minor planet without a ship involved
			// are not given a rule by spec.md §4.5; treat as a pass-
			// through non-event would break the "no two members
			// significantly overlap" invariant, so the bullet is spent.
			av.Destroy()
		}
	case *entities.Asteroid:
		switch b.(type) {
		case *entities.Ship:
			b.(*entities.Ship).Destroy()
		case *entities.Bullet:
			b.(*entities.Bullet).Destroy()
		case *entities.Asteroid, *entities.Planetoid:
			elasticExchange(a, b)
		}
	case *entities.Planetoid:
		switch bv := b.(type) {
		case *entities.Ship:
			teleportShip(bv, view)
		case *entities.Bullet:
			bv.Destroy()
		case *entities.Asteroid, *entities.Planetoid:
			elasticExchange(a, b)
		}
	}

	return point, err
}

// elasticExchange applies the equal-and-opposite impulse for a Ship×Ship
// or MinorPlanet×MinorPlanet collision: with dp = p2-p1, dv = v2-v1,
// sigma = r1+r2, J = 2*m1*m2*(dv.dp) / ((m1+m2)*sigma), the impulse
// (J*dp)/sigma is applied to entity 1 and its negation to entity 2.
func elasticExchange(a, b entities.Entity) {
	dp := b.Position().Sub(a.Position())
	dv := b.Velocity().Sub(a.Velocity())
	sigma := a.Radius() + b.Radius()
	if sigma == 0 {
		return
	}
	m1, m2 := a.Mass(), b.Mass()
	j := 2 * m1 * m2 * dv.Dot(dp) / ((m1 + m2) * sigma)
	impulse := dp.Scale(j / sigma)

	va := a.Velocity().Add(impulse.Scale(1 / m1))
	vb := b.Velocity().Sub(impulse.Scale(1 / m2))
	a.SetVelocity(va.X, va.Y)
	b.SetVelocity(vb.X, vb.Y)
}

// resolveShipBullet implements the two ship-vs-bullet rules: a ship
// meeting its own bullet reloads it into the magazine; a ship meeting any
// other ship's bullet destroys both. Reloading detaches the bullet from
// the world (§4.5 "detach bullet from world"): it is never Destroyed(),
// so it must be excised from membership explicitly rather than relying
// on sweepDestroyed.
func resolveShipBullet(ship *entities.Ship, bullet *entities.Bullet, view WorldView) error {
	if bullet.Source() == ship {
		bullet.SetPosition(ship.Position().X, ship.Position().Y)
		bullet.SetVelocity(0, 0)
		if err := view.RemoveEntity(bullet); err != nil {
			return err
		}
		return ship.LoadBullet(bullet)
	}
	ship.Destroy()
	bullet.Destroy()
	return nil
}

// teleportShip moves ship to a uniformly random position within the
// world. If the new position would significantly overlap any other
// member, the ship is destroyed instead of being placed.
func teleportShip(ship *entities.Ship, view WorldView) {
	rnd := view.Rand()
	x := rnd.Float64() * view.Width()
	y := rnd.Float64() * view.Height()
	ship.SetPosition(x, y)

	for _, other := range view.Entities() {
		if other == ship {
			continue
		}
		if entities.SignificantOverlap(ship, other) {
			ship.Destroy()
			return
		}
	}
}
