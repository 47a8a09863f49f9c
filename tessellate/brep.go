package tessellate

import (
	"github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/geom"
	"github.com/meshgrid/stepmesh/model"
)

// facetedBrep triangulates a solid given directly by polygonal faces.
// Attribute layout: Outer (a closed shell whose faces each carry one outer
// bound and any number of hole bounds, all polygon loops of point
// references). Face normals come from each loop's winding via Newell's
// method; a bound with orientation .F. is reversed first.
type facetedBrep struct{}

func (p *facetedBrep) Process(ent *model.DecodedEntity, m *model.Model) (*geom.Mesh, error) {
	shell, err := refAttr(ent, 0, m)
	if err != nil {
		return nil, err
	}
	if shell.Type != "IFCCLOSEDSHELL" && shell.Type != "IFCOPENSHELL" {
		return nil, errors.InvalidAttribute(uint32(ent.ID), 0,
			"brep outer must be a shell, got "+shell.Type)
	}
	faceRefs, err := listAttr(shell, 0)
	if err != nil {
		return nil, err
	}

	mesh := &geom.Mesh{}
	for _, ref := range faceRefs {
		face, err := m.ResolveRef(ref)
		if err != nil {
			return nil, err
		}
		if err := addFace(mesh, face, m); err != nil {
			return nil, err
		}
	}
	return mesh, nil
}

// addFace triangulates one face into the mesh. The outer bound is the
// FACEOUTERBOUND when present, otherwise the first bound; the rest are
// holes.
func addFace(mesh *geom.Mesh, face *model.DecodedEntity, m *model.Model) error {
	boundRefs, err := listAttr(face, 0)
	if err != nil {
		return err
	}
	if len(boundRefs) == 0 {
		return errors.InvalidAttribute(uint32(face.ID), 0, "face has no bounds")
	}

	var outer []geom.Vec3
	var holes [][]geom.Vec3
	for _, ref := range boundRefs {
		bound, err := m.ResolveRef(ref)
		if err != nil {
			return err
		}
		loop, err := boundLoop(bound, m)
		if err != nil {
			return err
		}
		if bound.Type == "IFCFACEOUTERBOUND" || outer == nil {
			if outer != nil {
				holes = append(holes, outer)
			}
			outer = loop
		} else {
			holes = append(holes, loop)
		}
	}

	normal := geom.PolygonNormal(outer)
	if normal.Length() < 0.5 {
		return errors.Triangulation("face %d boundary is degenerate", face.ID)
	}

	flat := append([]geom.Vec3{}, outer...)
	for _, h := range holes {
		flat = append(flat, h...)
	}
	proj := geom.ProjectToPlane(flat, normal)

	outer2 := proj[:len(outer)]
	holes2 := make([][]geom.Vec2, len(holes))
	off := len(outer)
	for i, h := range holes {
		holes2[i] = proj[off : off+len(h)]
		off += len(h)
	}

	tris, err := geom.TriangulatePolygonWithHoles(outer2, holes2)
	if err != nil {
		return err
	}

	base := uint32(mesh.VertexCount())
	for _, p := range flat {
		mesh.AddVertex(p, normal)
	}
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := base+tris[i], base+tris[i+1], base+tris[i+2]
		// The projection basis may flip handedness; keep the winding in
		// agreement with the face normal.
		fn := mesh.Positions[b].Sub(mesh.Positions[a]).
			Cross(mesh.Positions[c].Sub(mesh.Positions[a]))
		if fn.Dot(normal) < 0 {
			b, c = c, b
		}
		mesh.AddTriangle(a, b, c)
	}
	return nil
}

// boundLoop resolves a face bound's polygon loop, honoring the orientation
// flag.
func boundLoop(bound *model.DecodedEntity, m *model.Model) ([]geom.Vec3, error) {
	loopEnt, err := refAttr(bound, 0, m)
	if err != nil {
		return nil, err
	}
	if loopEnt.Type != "IFCPOLYLOOP" {
		return nil, errors.InvalidAttribute(uint32(bound.ID), 0,
			"face bound must be a polygon loop, got "+loopEnt.Type)
	}
	refs, err := listAttr(loopEnt, 0)
	if err != nil {
		return nil, err
	}
	pts := make([]geom.Vec3, 0, len(refs))
	for _, ref := range refs {
		pt, err := m.ResolveRef(ref)
		if err != nil {
			return nil, err
		}
		p, err := cartesianPoint(pt)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	if len(pts) < 3 {
		return nil, errors.InvalidAttribute(uint32(loopEnt.ID), 0,
			"polygon loop needs at least 3 points")
	}

	orientation := true
	if v, err := bound.Attr(1); err == nil {
		if e, ok := v.AsEnum(); ok && e == "F" {
			orientation = false
		}
	}
	if !orientation {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	return pts, nil
}
