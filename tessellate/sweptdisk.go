package tessellate

import (
	"github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/geom"
	"github.com/meshgrid/stepmesh/model"
)

// sweptDiskSolid sweeps a circular section along a directrix curve.
// Attribute layout: Directrix, Radius, InnerRadius, StartParam, EndParam.
// Inner radii and parameter trimming are not modeled; the full directrix is
// swept as a solid tube.
type sweptDiskSolid struct {
	opts Options
}

func (p *sweptDiskSolid) Process(ent *model.DecodedEntity, m *model.Model) (*geom.Mesh, error) {
	curve, err := refAttr(ent, 0, m)
	if err != nil {
		return nil, err
	}
	path, err := directrixPoints(curve, m)
	if err != nil {
		return nil, err
	}

	radius, err := floatAttr(ent, 1)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, errors.InvalidAttribute(uint32(ent.ID), 1,
			"swept disk radius must be positive")
	}

	return geom.SweepCircle(path, radius, p.opts.circleSegments(radius))
}

// directrixPoints resolves the sweep path to 3D points. Only polyline
// directrices are supported.
func directrixPoints(curve *model.DecodedEntity, m *model.Model) ([]geom.Vec3, error) {
	if curve.Type != "IFCPOLYLINE" {
		return nil, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Entity(uint32(curve.ID)).
			Detail("unsupported directrix type %s", curve.Type).
			Build()
	}
	refs, err := listAttr(curve, 0)
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
	return pts, nil
}
