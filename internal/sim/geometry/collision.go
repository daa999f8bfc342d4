package geometry

import "math"

// TimeToCollision returns the time at which two discs, moving ballistically
// from positions pa/pb with velocities va/vb and radii ra/rb, would first
// touch, or +Inf if they never touch (diverging, or the discriminant of the
// quadratic is non-positive).
//
// Let dp = pb - pa, dv = vb - va, sigma = ra + rb. The discs touch when
// |dp + dv*t| = sigma; solving for the smaller root gives
//
//	d := (dv.dp)^2 - (dv.dv)*(dp.dp - sigma^2)
//	t  := -(dv.dp + sqrt(d)) / (dv.dv)
//
// which is only a future, approaching collision when dv.dp < 0 and d > 0.
func TimeToCollision(pa, va Vec2, ra float64, pb, vb Vec2, rb float64) float64 {
	dp := pb.Sub(pa)
	dv := vb.Sub(va)

	dvdp := dv.Dot(dp)
	if dvdp >= 0 {
		return math.Inf(1)
	}

	sigma := ra + rb
	dvdv := dv.Dot(dv)
	d := dvdp*dvdp - dvdv*(dp.Dot(dp)-sigma*sigma)
	if d <= 0 {
		return math.Inf(1)
	}

	t := -(dvdp + math.Sqrt(d)) / dvdv
	if math.IsNaN(t) {
		return math.Inf(1)
	}
	return t
}

// TimeToBoundary returns the time at which an entity moving with velocity
// vel from position pos, with the given radius, first touches one of the
// walls of a width x height world anchored at the origin. It is the minimum
// of the independent vertical-wall and horizontal-wall impact times. An
// entity whose centre is already outside the world yields +Inf; an axis
// along which the entity does not move contributes +Inf for that axis.
func TimeToBoundary(pos, vel Vec2, radius, width, height float64) float64 {
	if pos.X < 0 || pos.X > width || pos.Y < 0 || pos.Y > height {
		return math.Inf(1)
	}

	tx := axisTime(pos.X, vel.X, radius, width)
	ty := axisTime(pos.Y, vel.Y, radius, height)

	t := math.Min(tx, ty)
	if math.IsNaN(t) {
		return math.Inf(1)
	}
	return t
}

// axisTime returns the time until pos (moving at vel along one axis, with
// the given radius) reaches the near wall at 0 or the far wall at extent,
// whichever it is heading toward. Returns +Inf if vel is zero.
func axisTime(pos, vel, radius, extent float64) float64 {
	switch {
	case vel > 0:
		return (extent - radius - pos) / vel
	case vel < 0:
		return (radius - pos) / vel
	default:
		return math.Inf(1)
	}
}

// CollisionPoint extrapolates two discs to their time of impact and returns
// the contact point: the point on the line connecting the two projected
// centres that lies at distance ra from a's projected centre. The caller is
// expected to have already established that a finite collision time exists.
func CollisionPoint(pa, va Vec2, ra float64, pb, vb Vec2, rb float64) Vec2 {
	t := TimeToCollision(pa, va, ra, pb, vb, rb)
	if math.IsInf(t, 1) {
		return pa
	}
	projA := pa.Add(va.Scale(t))
	projB := pb.Add(vb.Scale(t))
	direction := projB.Sub(projA).Normalize()
	return projA.Add(direction.Scale(ra))
}
