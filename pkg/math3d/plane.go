package math3d

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the offset from the origin.
type Plane struct {
	Normal Vec3
	D      float64
}

// PlaneFromTriangle returns the plane through a, b and c with a unit normal
// along (a-c) × (b-c). The plane is not area-weighted.
//
// ok is false when the cross product length is at or below eps, in which case
// the triangle has no well-defined normal and the zero plane is returned.
func PlaneFromTriangle(a, b, c Vec3, eps float64) (p Plane, ok bool) {
	n := a.Sub(c).Cross(b.Sub(c))
	l := n.Len()
	if !(l > eps) {
		return Plane{}, false
	}
	n = n.Div(l)
	return Plane{Normal: n, D: -n.Dot(c)}, true
}

// Vec4 returns the plane coefficients (A, B, C, D).
func (p Plane) Vec4() Vec4 {
	return V4FromV3(p.Normal, p.D)
}

// Quadric returns the fundamental error quadric of the plane, the outer
// product of its coefficients with themselves. Evaluating it at a point gives
// the squared distance from the point to the plane.
func (p Plane) Quadric() Quadric {
	return OuterQuadric(p.Vec4())
}
