package geom

import (
	"math"

	"github.com/meshgrid/stepmesh/errors"
)

// RevolveProfile sweeps a profile around an axis by angle radians,
// producing rings of transformed boundary points connected by quads. The
// profile lies in the local XY plane; the axis passes through axisPos with
// unit direction axisDir, both expressed in that same frame. A full 2*Pi
// revolution closes on itself; a partial one is capped at both ends.
func RevolveProfile(p Profile2D, axisPos, axisDir Vec3, angle float64, segments int) (*Mesh, error) {
	if angle <= 0 {
		return nil, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Detail("revolution angle must be positive, got %g", angle).
			Build()
	}
	axis := axisDir.Normalize()
	if axis.Length() < 0.5 {
		return nil, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Detail("revolution axis is zero").
			Build()
	}
	if segments < 3 {
		segments = 3
	}
	if angle > 2*math.Pi {
		angle = 2 * math.Pi
	}
	full := math.Abs(angle-2*math.Pi) < 1e-9

	prof := p.normalized()
	boundary := make([]Vec3, len(prof.Outer))
	for i, pt := range prof.Outer {
		boundary[i] = lift(pt)
	}

	// Rings of revolved boundary points. A full revolution reuses ring 0 as
	// the final ring.
	ringCount := segments + 1
	rings := make([][]Vec3, ringCount)
	for r := 0; r < ringCount; r++ {
		if full && r == segments {
			rings[r] = rings[0]
			break
		}
		theta := angle * float64(r) / float64(segments)
		ring := make([]Vec3, len(boundary))
		for i, q := range boundary {
			ring[i] = rotateAround(q, axisPos, axis, theta)
		}
		rings[r] = ring
	}

	mesh := &Mesh{}

	// Side quads between consecutive rings, flat normals from geometry.
	n := len(boundary)
	for r := 0; r < segments; r++ {
		a, b := rings[r], rings[r+1]
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			// For a CCW profile revolved right-handed about the axis this
			// order faces outward.
			addQuad(mesh, a[j], a[i], b[i], b[j])
		}
	}

	if !full {
		capTris, err := TriangulatePolygonWithHoles(prof.Outer, prof.Voids)
		if err != nil {
			return nil, err
		}
		flat := flattenLoops(prof.Outer, prof.Voids)

		// Start cap faces against the sweep, end cap along it.
		addRevolveCap(mesh, flat, capTris, axisPos, axis, 0, true)
		addRevolveCap(mesh, flat, capTris, axisPos, axis, angle, false)
	}

	return mesh, nil
}

// addRevolveCap emits one rotated copy of the profile triangulation with a
// normal along (or against) the sweep tangent.
func addRevolveCap(mesh *Mesh, flat []Vec2, tris []uint32, axisPos, axis Vec3, theta float64, start bool) {
	pts := make([]Vec3, len(flat))
	for i, pt := range flat {
		pts[i] = rotateAround(lift(pt), axisPos, axis, theta)
	}
	// Sweep tangent at the cap centroid decides the outward direction.
	centroid := Vec3{}
	for _, p := range pts {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Scale(1 / float64(len(pts)))
	normal := axis.Cross(centroid.Sub(axisPos)).Normalize()
	if start {
		normal = normal.Neg()
	}

	base := uint32(len(mesh.Positions))
	for _, p := range pts {
		mesh.AddVertex(p, normal)
	}
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := base+tris[i], base+tris[i+1], base+tris[i+2]
		// Orient the winding to agree with the cap normal.
		face := mesh.Positions[b].Sub(mesh.Positions[a]).
			Cross(mesh.Positions[c].Sub(mesh.Positions[a]))
		if face.Dot(normal) < 0 {
			b, c = c, b
		}
		mesh.AddTriangle(a, b, c)
	}
}

// addQuad emits a quad with a flat normal derived from its winding.
func addQuad(mesh *Mesh, p0, p1, p2, p3 Vec3) {
	normal := p1.Sub(p0).Cross(p3.Sub(p0)).Normalize()
	if normal.Length() < 0.5 {
		normal = p2.Sub(p1).Cross(p0.Sub(p1)).Normalize()
		if normal.Length() < 0.5 {
			return // fully degenerate quad
		}
	}
	i0 := mesh.AddVertex(p0, normal)
	i1 := mesh.AddVertex(p1, normal)
	i2 := mesh.AddVertex(p2, normal)
	i3 := mesh.AddVertex(p3, normal)
	mesh.AddTriangle(i0, i1, i2)
	mesh.AddTriangle(i0, i2, i3)
}

// rotateAround rotates point q around the axis through pos with unit
// direction u by theta radians (Rodrigues' formula).
func rotateAround(q, pos, u Vec3, theta float64) Vec3 {
	v := q.Sub(pos)
	c, s := math.Cos(theta), math.Sin(theta)
	rot := v.Scale(c).
		Add(u.Cross(v).Scale(s)).
		Add(u.Scale(u.Dot(v) * (1 - c)))
	return pos.Add(rot)
}

func flattenLoops(outer []Vec2, voids [][]Vec2) []Vec2 {
	flat := make([]Vec2, 0, len(outer))
	flat = append(flat, outer...)
	for _, v := range voids {
		flat = append(flat, v...)
	}
	return flat
}
