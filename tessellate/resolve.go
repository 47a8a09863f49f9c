package tessellate

import (
	"github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/geom"
	"github.com/meshgrid/stepmesh/model"
)

// Attribute readers shared by the processors. Arity and type mismatches
// surface as invalid_attribute errors tagged with the entity and index, per
// the processor's expectations rather than any schema.

func refAttr(ent *model.DecodedEntity, i int, m *model.Model) (*model.DecodedEntity, error) {
	v, err := ent.Attr(i)
	if err != nil {
		return nil, err
	}
	if _, ok := v.AsRef(); !ok {
		return nil, errors.InvalidAttribute(uint32(ent.ID), i,
			"expected entity reference, got "+v.Kind.String())
	}
	return m.ResolveRef(v)
}

func floatAttr(ent *model.DecodedEntity, i int) (float64, error) {
	v, err := ent.Attr(i)
	if err != nil {
		return 0, err
	}
	f, ok := v.Inner().AsFloat()
	if !ok {
		return 0, errors.InvalidAttribute(uint32(ent.ID), i,
			"expected number, got "+v.Kind.String())
	}
	return f, nil
}

func listAttr(ent *model.DecodedEntity, i int) ([]model.AttributeValue, error) {
	v, err := ent.Attr(i)
	if err != nil {
		return nil, err
	}
	l, ok := v.AsList()
	if !ok {
		return nil, errors.InvalidAttribute(uint32(ent.ID), i,
			"expected list, got "+v.Kind.String())
	}
	return l, nil
}

// cartesianPoint reads an IFCCARTESIANPOINT's coordinate list. Missing
// third coordinates read as zero, so 2D points lift into 3D for free.
func cartesianPoint(ent *model.DecodedEntity) (geom.Vec3, error) {
	coords, err := listAttr(ent, 0)
	if err != nil {
		return geom.Vec3{}, err
	}
	if len(coords) < 2 {
		return geom.Vec3{}, errors.InvalidAttribute(uint32(ent.ID), 0,
			"cartesian point needs at least 2 coordinates")
	}
	var p geom.Vec3
	for i, c := range coords[:min(len(coords), 3)] {
		f, ok := c.AsFloat()
		if !ok {
			return geom.Vec3{}, errors.InvalidAttribute(uint32(ent.ID), 0,
				"non-numeric coordinate")
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
	return p, nil
}

// direction reads an IFCDIRECTION's ratio list as a vector.
func direction(ent *model.DecodedEntity) (geom.Vec3, error) {
	return cartesianPoint(ent)
}

// curvePoints resolves a bounded curve entity to its 2D point loop. Only
// polyline curves are supported; a closing point that repeats the first is
// dropped.
func curvePoints(curve *model.DecodedEntity, m *model.Model) ([]geom.Vec2, error) {
	if curve.Type != "IFCPOLYLINE" {
		return nil, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Entity(uint32(curve.ID)).
			Detail("unsupported curve type %s", curve.Type).
			Build()
	}
	refs, err := listAttr(curve, 0)
	if err != nil {
		return nil, err
	}
	pts := make([]geom.Vec2, 0, len(refs))
	for _, ref := range refs {
		pt, err := m.ResolveRef(ref)
		if err != nil {
			return nil, err
		}
		p, err := cartesianPoint(pt)
		if err != nil {
			return nil, err
		}
		pts = append(pts, geom.Vec2{X: p.X, Y: p.Y})
	}
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts, nil
}

// resolveProfile turns a profile definition entity into a Profile2D.
func resolveProfile(def *model.DecodedEntity, m *model.Model, opts Options) (geom.Profile2D, error) {
	switch def.Type {
	case "IFCRECTANGLEPROFILEDEF":
		w, err := floatAttr(def, 3)
		if err != nil {
			return geom.Profile2D{}, err
		}
		h, err := floatAttr(def, 4)
		if err != nil {
			return geom.Profile2D{}, err
		}
		return geom.RectangleProfile(w, h)

	case "IFCCIRCLEPROFILEDEF":
		r, err := floatAttr(def, 3)
		if err != nil {
			return geom.Profile2D{}, err
		}
		return geom.CircleProfileSegments(r, opts.circleSegments(r))

	case "IFCCIRCLEHOLLOWPROFILEDEF":
		r, err := floatAttr(def, 3)
		if err != nil {
			return geom.Profile2D{}, err
		}
		t, err := floatAttr(def, 4)
		if err != nil {
			return geom.Profile2D{}, err
		}
		if t <= 0 || t >= r {
			return geom.Profile2D{}, errors.Profile(uint32(def.ID),
				"hollow profile wall thickness out of range")
		}
		segs := opts.circleSegments(r)
		outer := geom.CirclePoints(geom.Vec2{}, r, segs)
		inner := geom.CirclePoints(geom.Vec2{}, r-t, segs)
		return geom.ArbitraryProfile(outer, inner)

	case "IFCARBITRARYCLOSEDPROFILEDEF":
		curve, err := refAttr(def, 2, m)
		if err != nil {
			return geom.Profile2D{}, err
		}
		outer, err := curvePoints(curve, m)
		if err != nil {
			return geom.Profile2D{}, err
		}
		return geom.ArbitraryProfile(outer)

	case "IFCARBITRARYPROFILEDEFWITHVOIDS":
		curve, err := refAttr(def, 2, m)
		if err != nil {
			return geom.Profile2D{}, err
		}
		outer, err := curvePoints(curve, m)
		if err != nil {
			return geom.Profile2D{}, err
		}
		innerRefs, err := listAttr(def, 3)
		if err != nil {
			return geom.Profile2D{}, err
		}
		voids := make([][]geom.Vec2, 0, len(innerRefs))
		for _, ref := range innerRefs {
			inner, err := m.ResolveRef(ref)
			if err != nil {
				return geom.Profile2D{}, err
			}
			loop, err := curvePoints(inner, m)
			if err != nil {
				return geom.Profile2D{}, err
			}
			voids = append(voids, loop)
		}
		return geom.ArbitraryProfile(outer, voids...)
	}

	return geom.Profile2D{}, errors.Profile(uint32(def.ID),
		"unsupported profile type "+def.Type)
}
