package tessellate

import (
	"github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/geom"
	"github.com/meshgrid/stepmesh/model"
)

// triangulatedFaceSet copies an already-triangulated face set into a mesh.
// Attribute layout: Coordinates (a 3D point list), Normals, Closed,
// CoordIndex (one-based triples). Vertices are emitted per triangle with
// flat normals derived from each triangle's winding, so shared corners
// never smooth across creases.
type triangulatedFaceSet struct{}

func (p *triangulatedFaceSet) Process(ent *model.DecodedEntity, m *model.Model) (*geom.Mesh, error) {
	coordEnt, err := refAttr(ent, 0, m)
	if err != nil {
		return nil, err
	}
	if coordEnt.Type != "IFCCARTESIANPOINTLIST3D" {
		return nil, errors.InvalidAttribute(uint32(ent.ID), 0,
			"coordinates must be a 3D point list, got "+coordEnt.Type)
	}
	points, err := pointList3D(coordEnt)
	if err != nil {
		return nil, err
	}

	triples, err := listAttr(ent, 3)
	if err != nil {
		return nil, err
	}

	mesh := &geom.Mesh{}
	for _, tv := range triples {
		triple, ok := tv.AsList()
		if !ok || len(triple) != 3 {
			return nil, errors.InvalidAttribute(uint32(ent.ID), 3,
				"coordinate index entries must be triples")
		}
		var tri [3]geom.Vec3
		for i, iv := range triple {
			idx, ok := iv.AsInt()
			if !ok || idx < 1 || int(idx) > len(points) {
				return nil, errors.InvalidAttribute(uint32(ent.ID), 3,
					"coordinate index out of range")
			}
			tri[i] = points[idx-1]
		}

		normal := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
		if normal.Length() < 0.5 {
			// Degenerate triangle, skip rather than poison the mesh.
			continue
		}
		a := mesh.AddVertex(tri[0], normal)
		b := mesh.AddVertex(tri[1], normal)
		c := mesh.AddVertex(tri[2], normal)
		mesh.AddTriangle(a, b, c)
	}
	return mesh, nil
}

// pointList3D reads an IFCCARTESIANPOINTLIST3D's nested coordinate list.
func pointList3D(ent *model.DecodedEntity) ([]geom.Vec3, error) {
	rows, err := listAttr(ent, 0)
	if err != nil {
		return nil, err
	}
	points := make([]geom.Vec3, 0, len(rows))
	for _, row := range rows {
		coords, ok := row.AsList()
		if !ok || len(coords) < 3 {
			return nil, errors.InvalidAttribute(uint32(ent.ID), 0,
				"point list entries must be coordinate triples")
		}
		var p geom.Vec3
		for i, c := range coords[:3] {
			f, ok := c.AsFloat()
			if !ok {
				return nil, errors.InvalidAttribute(uint32(ent.ID), 0,
					"non-numeric coordinate in point list")
			}
			switch i {
			case 0:
				p.X = f
			case 1:
				p.Y = f
			case 2:
				p.Z = f
			}
		}
		points = append(points, p)
	}
	return points, nil
}
