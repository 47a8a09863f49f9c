package geom

import (
	"fmt"
	"io"
	"math"

	"github.com/meshgrid/stepmesh/errors"
)

// Mesh is a GPU-ready triangle mesh in the producing entity's local frame.
// Normals are per vertex, one per position. Indices have stride 3; every
// triple winds counterclockwise when viewed from outside the solid, which is
// the load-bearing invariant for downstream shading. Meshes are immutable
// once handed out by a processor.
type Mesh struct {
	Positions []Vec3
	Normals   []Vec3
	Indices   []uint32
}

// AddVertex appends a position/normal pair and returns its index.
func (m *Mesh) AddVertex(p, n Vec3) uint32 {
	m.Positions = append(m.Positions, p)
	m.Normals = append(m.Normals, n)
	return uint32(len(m.Positions) - 1)
}

// AddTriangle appends one CCW-wound triangle.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Append merges another mesh into m, rebasing its indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, o.Positions...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// Bounds returns the axis-aligned bounding box as (min, max).
func (m *Mesh) Bounds() (Vec3, Vec3) {
	if len(m.Positions) == 0 {
		return Vec3{}, Vec3{}
	}
	min, max := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	return min, max
}

// Validate checks the structural mesh invariants: matching position/normal
// lengths, index stride 3, and indices in range.
func (m *Mesh) Validate() error {
	if len(m.Normals) != len(m.Positions) {
		return errors.Triangulation("mesh has %d normals for %d positions",
			len(m.Normals), len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return errors.Triangulation("mesh index count %d is not a multiple of 3",
			len(m.Indices))
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Positions) {
			return errors.Triangulation("mesh index %d out of range (%d vertices)",
				i, len(m.Positions))
		}
	}
	return nil
}

// MeshData is the flat single-precision layout handed to the rendering
// collaborator: interleavable position/normal arrays and the index buffer.
type MeshData struct {
	Positions []float32 // x, y, z per vertex
	Normals   []float32 // x, y, z per vertex
	Indices   []uint32
}

// Data flattens the mesh to its GPU layout. Lengths round-trip exactly:
// len(Positions) == 3 * mesh.VertexCount(), indices are copied verbatim.
func (m *Mesh) Data() MeshData {
	d := MeshData{
		Positions: make([]float32, 0, len(m.Positions)*3),
		Normals:   make([]float32, 0, len(m.Normals)*3),
		Indices:   make([]uint32, len(m.Indices)),
	}
	for _, p := range m.Positions {
		d.Positions = append(d.Positions, float32(p.X), float32(p.Y), float32(p.Z))
	}
	for _, n := range m.Normals {
		d.Normals = append(d.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	copy(d.Indices, m.Indices)
	return d
}

// WriteOBJ writes the mesh in Wavefront OBJ format. OBJ indices are
// one-based.
func (m *Mesh) WriteOBJ(w io.Writer) error {
	for _, p := range m.Positions {
		if _, err := fmt.Fprintf(w, "v %g %g %g\n", p.X, p.Y, p.Z); err != nil {
			return err
		}
	}
	for _, n := range m.Normals {
		if _, err := fmt.Fprintf(w, "vn %g %g %g\n", n.X, n.Y, n.Z); err != nil {
			return err
		}
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		if _, err := fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c); err != nil {
			return err
		}
	}
	return nil
}
