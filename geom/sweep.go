package geom

import (
	"math"

	"github.com/meshgrid/stepmesh/errors"
)

// SweepCircle sweeps a circular cross-section of the given radius along a
// polyline directrix, producing a capped tube. Section frames are parallel
// transported along the directrix so the tube does not twist at bends.
func SweepCircle(directrix []Vec3, radius float64, segments int) (*Mesh, error) {
	if len(directrix) < 2 {
		return nil, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Detail("directrix has %d points, need at least 2", len(directrix)).
			Build()
	}
	if radius <= 0 {
		return nil, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Detail("sweep radius must be positive, got %g", radius).
			Build()
	}
	if segments < 3 {
		segments = 3
	}

	tangents := polylineTangents(directrix)

	// Initial frame: any unit vector perpendicular to the first tangent.
	normal := perpendicular(tangents[0])
	circle := CirclePoints(Vec2{}, radius, segments)

	mesh := &Mesh{}
	rings := make([][]Vec3, len(directrix))
	radials := make([][]Vec3, len(directrix))
	for i, center := range directrix {
		t := tangents[i]
		// Parallel transport: project the previous normal off the new
		// tangent.
		normal = normal.Sub(t.Scale(normal.Dot(t))).Normalize()
		if normal.Length() < 0.5 {
			normal = perpendicular(t)
		}
		binormal := t.Cross(normal)

		ring := make([]Vec3, segments)
		radial := make([]Vec3, segments)
		for s, c := range circle {
			dir := normal.Scale(c.X).Add(binormal.Scale(c.Y))
			ring[s] = center.Add(dir)
			radial[s] = dir.Normalize()
		}
		rings[i] = ring
		radials[i] = radial
	}

	// Tube walls with radial normals.
	for i := 0; i+1 < len(rings); i++ {
		a, b := rings[i], rings[i+1]
		na, nb := radials[i], radials[i+1]
		for s := 0; s < segments; s++ {
			j := (s + 1) % segments
			i0 := mesh.AddVertex(a[s], na[s])
			i1 := mesh.AddVertex(a[j], na[j])
			i2 := mesh.AddVertex(b[j], nb[j])
			i3 := mesh.AddVertex(b[s], nb[s])
			mesh.AddTriangle(i0, i1, i2)
			mesh.AddTriangle(i0, i2, i3)
		}
	}

	addDiskCap(mesh, rings[0], directrix[0], tangents[0].Neg())
	addDiskCap(mesh, rings[len(rings)-1], directrix[len(directrix)-1], tangents[len(tangents)-1])

	return mesh, nil
}

// addDiskCap fans a ring around its center with the given outward normal.
func addDiskCap(mesh *Mesh, ring []Vec3, center, normal Vec3) {
	ci := mesh.AddVertex(center, normal)
	base := uint32(len(mesh.Positions))
	for _, p := range ring {
		mesh.AddVertex(p, normal)
	}
	n := uint32(len(ring))
	for s := uint32(0); s < n; s++ {
		j := (s + 1) % n
		a, b := base+s, base+j
		// Orient each fan triangle along the cap normal.
		face := mesh.Positions[a].Sub(center).Cross(mesh.Positions[b].Sub(center))
		if face.Dot(normal) < 0 {
			a, b = b, a
		}
		mesh.AddTriangle(ci, a, b)
	}
}

// polylineTangents returns a unit tangent per directrix point, averaging
// the adjacent segment directions at interior points.
func polylineTangents(pts []Vec3) []Vec3 {
	n := len(pts)
	tangents := make([]Vec3, n)
	for i := 0; i < n; i++ {
		switch {
		case i == 0:
			tangents[i] = pts[1].Sub(pts[0]).Normalize()
		case i == n-1:
			tangents[i] = pts[n-1].Sub(pts[n-2]).Normalize()
		default:
			tangents[i] = pts[i+1].Sub(pts[i-1]).Normalize()
		}
		if tangents[i].Length() < 0.5 {
			tangents[i] = V3(0, 0, 1) // repeated directrix point
		}
	}
	return tangents
}

// perpendicular returns an arbitrary unit vector perpendicular to unit t.
func perpendicular(t Vec3) Vec3 {
	seed := V3(0, 0, 1)
	if math.Abs(t.Z) > 0.9 {
		seed = V3(1, 0, 0)
	}
	return t.Cross(seed).Normalize()
}
