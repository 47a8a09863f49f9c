package tessellate

import (
	"github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/geom"
	"github.com/meshgrid/stepmesh/model"
)

// extrudedAreaSolid sweeps a 2D profile linearly along a direction.
// Attribute layout: SweptArea, Position, ExtrudedDirection, Depth. Meshes
// are produced in the solid's local frame; placement chains are the
// renderer's concern.
type extrudedAreaSolid struct {
	opts Options
}

func (p *extrudedAreaSolid) Process(ent *model.DecodedEntity, m *model.Model) (*geom.Mesh, error) {
	def, err := refAttr(ent, 0, m)
	if err != nil {
		return nil, err
	}
	profile, err := resolveProfile(def, m, p.opts)
	if err != nil {
		return nil, err
	}

	dirEnt, err := refAttr(ent, 2, m)
	if err != nil {
		return nil, err
	}
	if dirEnt.Type != "IFCDIRECTION" {
		return nil, errors.InvalidAttribute(uint32(ent.ID), 2,
			"extrusion direction must be a direction entity, got "+dirEnt.Type)
	}
	dir, err := direction(dirEnt)
	if err != nil {
		return nil, err
	}

	depth, err := floatAttr(ent, 3)
	if err != nil {
		return nil, err
	}

	return geom.ExtrudeProfile(profile, depth, dir)
}
