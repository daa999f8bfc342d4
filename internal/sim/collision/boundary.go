package collision

import (
	"math"

	"github.com/starforge/asterion/internal/sim/entities"
	"github.com/starforge/asterion/internal/sim/geometry"
)

// BoundaryImpactPoint returns the point on the world's rectangle that e is
// about to touch, without mutating e. Used both to preview an upcoming
// boundary event and, after resolution, to report it to a listener.
func BoundaryImpactPoint(e entities.Entity, width, height float64) geometry.Vec2 {
	p := e.Position()
	switch nearestWall(e, width, height) {
	case wallLeft:
		return geometry.NewVec2(0, p.Y)
	case wallRight:
		return geometry.NewVec2(width, p.Y)
	case wallTop:
		return geometry.NewVec2(p.X, 0)
	default:
		return geometry.NewVec2(p.X, height)
	}
}

type wall int

const (
	wallLeft wall = iota
	wallRight
	wallTop
	wallBottom
)

func nearestWall(e entities.Entity, width, height float64) wall {
	p, r := e.Position(), e.Radius()
	dl, dr := p.X-r, width-p.X-r
	dt, db := p.Y-r, height-p.Y-r
	min := math.Min(math.Min(dl, dr), math.Min(dt, db))
	switch min {
	case dl:
		return wallLeft
	case dr:
		return wallRight
	case dt:
		return wallTop
	default:
		return wallBottom
	}
}

// boundaryTolerance bounds how close two wall distances must be to count
// as a simultaneous (corner) hit.
const boundaryTolerance = 1e-6

// ResolveBoundary inverts e's velocity component(s) for the wall(s) it has
// reached (both, on a corner tie), registers a bounce if e is a bullet
// (destroying it on the third), and returns the contact point.
func ResolveBoundary(e entities.Entity, view WorldView) geometry.Vec2 {
	width, height := view.Width(), view.Height()
	point := BoundaryImpactPoint(e, width, height)

	p, r := e.Position(), e.Radius()
	dl, dr := p.X-r, width-p.X-r
	dt, db := p.Y-r, height-p.Y-r
	min := math.Min(math.Min(dl, dr), math.Min(dt, db))
	tol := boundaryTolerance * math.Max(1, r)

	v := e.Velocity()
	vx, vy := v.X, v.Y
	if math.Abs(dl-min) <= tol || math.Abs(dr-min) <= tol {
		vx = -vx
	}
	if math.Abs(dt-min) <= tol || math.Abs(db-min) <= tol {
		vy = -vy
	}
	e.SetVelocity(vx, vy)

	if bullet, ok := e.(*entities.Bullet); ok {
		bullet.RegisterBounce()
	}
	return point
}
