package geom

import "math"

// SignedArea returns the signed area of a 2D polygon using the shoelace
// formula. Positive for counterclockwise winding, negative for clockwise.
func SignedArea(pts []Vec2) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X * pts[j].Y
		area -= pts[j].X * pts[i].Y
	}
	return area / 2
}

// IsCCW reports whether the polygon winds counterclockwise.
func IsCCW(pts []Vec2) bool {
	return SignedArea(pts) > 0
}

// Reverse2 returns the polygon with reversed vertex order.
func Reverse2(pts []Vec2) []Vec2 {
	n := len(pts)
	rev := make([]Vec2, n)
	for i, p := range pts {
		rev[n-1-i] = p
	}
	return rev
}

// PolygonNormal computes the normal of a possibly non-planar 3D polygon
// using Newell's method: the signed sum over edges is robust to noise that
// would break a single cross product. The result is unit length, or zero
// for degenerate input.
func PolygonNormal(pts []Vec3) Vec3 {
	n := len(pts)
	if n < 3 {
		return Vec3{}
	}
	var normal Vec3
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		normal.X += (a.Y - b.Y) * (a.Z + b.Z)
		normal.Y += (a.Z - b.Z) * (a.X + b.X)
		normal.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return normal.Normalize()
}

// PlaneBasis derives an orthonormal basis (u, v) for the plane with the
// given unit normal. The seed axis is chosen away from the normal's
// dominant component so the cross products stay well conditioned.
func PlaneBasis(normal Vec3) (u, v Vec3) {
	seed := V3(1, 0, 0)
	if math.Abs(normal.X) > math.Abs(normal.Y) && math.Abs(normal.X) > math.Abs(normal.Z) {
		seed = V3(0, 1, 0)
	}
	u = seed.Cross(normal).Normalize()
	v = normal.Cross(u)
	return u, v
}

// ProjectToPlane projects 3D points onto the best-fit plane given by the
// polygon normal, returning 2D coordinates in the (u, v) basis. Index i of
// the output corresponds 1:1 to index i of the input.
func ProjectToPlane(pts []Vec3, normal Vec3) []Vec2 {
	u, v := PlaneBasis(normal)
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		out[i] = Vec2{X: p.Dot(u), Y: p.Dot(v)}
	}
	return out
}

// pointInTriangle reports whether p lies inside or on triangle (a, b, c),
// which must wind counterclockwise.
func pointInTriangle(p, a, b, c Vec2) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}
