package tessellate

import (
	"math"

	"github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/geom"
	"github.com/meshgrid/stepmesh/model"
)

// revolvedAreaSolid sweeps a 2D profile around an axis placement.
// Attribute layout: SweptArea, Position, Axis, Angle. The angle is read in
// radians; a null axis direction defaults to +Z.
type revolvedAreaSolid struct {
	opts Options
}

func (p *revolvedAreaSolid) Process(ent *model.DecodedEntity, m *model.Model) (*geom.Mesh, error) {
	def, err := refAttr(ent, 0, m)
	if err != nil {
		return nil, err
	}
	profile, err := resolveProfile(def, m, p.opts)
	if err != nil {
		return nil, err
	}

	axisEnt, err := refAttr(ent, 2, m)
	if err != nil {
		return nil, err
	}
	if axisEnt.Type != "IFCAXIS1PLACEMENT" {
		return nil, errors.InvalidAttribute(uint32(ent.ID), 2,
			"revolution axis must be an axis placement, got "+axisEnt.Type)
	}
	axisPos, axisDir, err := axis1Placement(axisEnt, m)
	if err != nil {
		return nil, err
	}

	angle, err := floatAttr(ent, 3)
	if err != nil {
		return nil, err
	}

	// Segment count follows the circle rule for the profile's maximum radial
	// reach, scaled down for partial sweeps.
	segments := sweepSegments(profile, axisPos, axisDir, angle, p.opts)

	return geom.RevolveProfile(profile, axisPos, axisDir, angle, segments)
}

// axis1Placement reads a single-axis placement: a location point plus an
// optional direction defaulting to +Z.
func axis1Placement(ent *model.DecodedEntity, m *model.Model) (geom.Vec3, geom.Vec3, error) {
	loc, err := refAttr(ent, 0, m)
	if err != nil {
		return geom.Vec3{}, geom.Vec3{}, err
	}
	pos, err := cartesianPoint(loc)
	if err != nil {
		return geom.Vec3{}, geom.Vec3{}, err
	}

	dir := geom.V3(0, 0, 1)
	if v, err := ent.Attr(1); err == nil && !v.IsNull() {
		dirEnt, err := m.ResolveRef(v)
		if err != nil {
			return geom.Vec3{}, geom.Vec3{}, err
		}
		if dir, err = direction(dirEnt); err != nil {
			return geom.Vec3{}, geom.Vec3{}, err
		}
	}
	return pos, dir, nil
}

func sweepSegments(p geom.Profile2D, axisPos, axisDir geom.Vec3, angle float64, opts Options) int {
	axis := axisDir.Normalize()
	rMax := 0.0
	for _, pt := range p.Outer {
		q := geom.V3(pt.X, pt.Y, 0).Sub(axisPos)
		radial := q.Sub(axis.Scale(q.Dot(axis)))
		if r := radial.Length(); r > rMax {
			rMax = r
		}
	}
	n := opts.circleSegments(rMax)
	if angle > 0 && angle < 2*math.Pi {
		n = int(math.Ceil(float64(n) * angle / (2 * math.Pi)))
	}
	if n < 3 {
		n = 3
	}
	return n
}
