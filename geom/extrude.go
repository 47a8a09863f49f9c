package geom

import (
	"github.com/meshgrid/stepmesh/errors"
)

// ExtrudeProfile sweeps a profile linearly along direction by depth,
// producing a closed solid: a bottom cap with normal -direction, a top cap
// with normal +direction, and two triangles per boundary edge. Void loops in
// the profile are honored; see ExtrudeProfileWithVoids.
func ExtrudeProfile(p Profile2D, depth float64, direction Vec3) (*Mesh, error) {
	return ExtrudeProfileWithVoids(p, p.Voids, depth, direction)
}

// ExtrudeProfileWithVoids extrudes the profile's outer loop with the given
// void loops subtracted from both caps, adding inner side walls with
// inward-facing normals for each void. All triangle windings are CCW viewed
// from outside the solid.
func ExtrudeProfileWithVoids(p Profile2D, voids [][]Vec2, depth float64, direction Vec3) (*Mesh, error) {
	if depth <= 0 {
		return nil, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Detail("extrusion depth must be positive, got %g", depth).
			Build()
	}
	dir := direction.Normalize()
	if dir.Length() < 0.5 {
		return nil, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Detail("extrusion direction is zero").
			Build()
	}

	prof := Profile2D{Outer: p.Outer, Voids: voids, Kind: p.Kind}.normalized()
	offset := dir.Scale(depth)

	// One shared triangulation serves both caps. Indices reference the
	// concatenation of the outer loop and each void loop.
	capTris, err := TriangulatePolygonWithHoles(prof.Outer, prof.Voids)
	if err != nil {
		return nil, err
	}
	flat := make([]Vec2, 0, len(prof.Outer))
	flat = append(flat, prof.Outer...)
	for _, v := range prof.Voids {
		flat = append(flat, v...)
	}

	mesh := &Mesh{}

	// Bottom cap, normal -direction. The triangulation is CCW viewed from
	// +Z; viewed from outside the solid (below) the winding reverses.
	bottomBase := uint32(len(mesh.Positions))
	for _, pt := range flat {
		mesh.AddVertex(lift(pt), dir.Neg())
	}
	for i := 0; i+2 < len(capTris); i += 3 {
		mesh.AddTriangle(
			bottomBase+capTris[i+2],
			bottomBase+capTris[i+1],
			bottomBase+capTris[i],
		)
	}

	// Top cap, normal +direction.
	topBase := uint32(len(mesh.Positions))
	for _, pt := range flat {
		mesh.AddVertex(lift(pt).Add(offset), dir)
	}
	for i := 0; i+2 < len(capTris); i += 3 {
		mesh.AddTriangle(
			topBase+capTris[i],
			topBase+capTris[i+1],
			topBase+capTris[i+2],
		)
	}

	// Side walls. The outer loop is CCW and void loops are CW, so the same
	// edge walk yields outward-facing outer walls and inward-facing void
	// walls.
	addWalls(mesh, prof.Outer, offset, dir)
	for _, v := range prof.Voids {
		addWalls(mesh, v, offset, dir)
	}

	return mesh, nil
}

// addWalls adds one quad (two triangles) per edge of the loop, with flat
// per-wall normals.
func addWalls(mesh *Mesh, loop []Vec2, offset, dir Vec3) {
	n := len(loop)
	for i := 0; i < n; i++ {
		b0 := lift(loop[i])
		b1 := lift(loop[(i+1)%n])
		t0 := b0.Add(offset)
		t1 := b1.Add(offset)

		normal := b1.Sub(b0).Cross(dir).Normalize()
		if normal.Length() < 0.5 {
			continue // zero-length edge
		}

		i0 := mesh.AddVertex(b0, normal)
		i1 := mesh.AddVertex(b1, normal)
		i2 := mesh.AddVertex(t1, normal)
		i3 := mesh.AddVertex(t0, normal)
		mesh.AddTriangle(i0, i1, i2)
		mesh.AddTriangle(i0, i2, i3)
	}
}

// lift maps a profile-plane point into the local 3D frame (z = 0).
func lift(p Vec2) Vec3 {
	return Vec3{X: p.X, Y: p.Y}
}
