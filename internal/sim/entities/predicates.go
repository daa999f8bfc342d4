package entities

import "github.com/starforge/asterion/internal/sim/geometry"

// Overlap reports whether two entities' discs intersect at all.
func Overlap(a, b Entity) bool {
	sigma := a.Radius() + b.Radius()
	return geometry.Distance(a.Position(), b.Position()) <= sigma
}

// SignificantOverlap reports whether two entities overlap by more than the
// 1% tolerance the world's membership invariant allows.
func SignificantOverlap(a, b Entity) bool {
	sigma := 0.99 * (a.Radius() + b.Radius())
	return geometry.Distance(a.Position(), b.Position()) <= sigma
}

// ApparentlyCollide reports whether two entities' centre distance lies
// within 1% of their summed radii — the tolerance band a continuous-time
// collision is expected to land in.
func ApparentlyCollide(a, b Entity) bool {
	sigma := a.Radius() + b.Radius()
	d := geometry.Distance(a.Position(), b.Position())
	return d >= 0.99*sigma && d <= 1.01*sigma
}

// WithinBoundaries reports whether e's centre lies far enough from every
// wall of a width x height world (each wall distance at least 0.99 of e's
// radius).
func WithinBoundaries(e Entity, width, height float64) bool {
	p := e.Position()
	threshold := 0.99 * e.Radius()
	return p.X >= threshold &&
		(width-p.X) >= threshold &&
		p.Y >= threshold &&
		(height-p.Y) >= threshold
}
