package geom

import (
	"math"

	"github.com/meshgrid/stepmesh/errors"
)

// ProfileKind tags the shape family of a 2D profile.
type ProfileKind uint8

const (
	ProfileRectangle ProfileKind = iota
	ProfileCircle
	ProfileArbitrary
)

// Profile2D is a closed 2D cross-section with optional inner void loops,
// swept into a 3D solid by the extrusion and revolution primitives. The
// outer loop must not self-intersect; triangulation of a self-intersecting
// loop degrades to a fan rather than failing.
type Profile2D struct {
	Outer []Vec2
	Voids [][]Vec2
	Kind  ProfileKind
}

// Default parameters of the circle segmentation rule.
const (
	DefaultSegmentScale = 8.0
	DefaultMaxSegments  = 64
	minCircleSegments   = 8
)

// CircleSegments returns the number of boundary segments used to
// approximate a circle of the given radius with the default rule:
// clamp(8, ceil(radius*8), 64). More segments for larger radii, monotonic
// and deterministic.
func CircleSegments(radius float64) int {
	return CircleSegmentsScaled(radius, DefaultSegmentScale, DefaultMaxSegments)
}

// CircleSegmentsScaled is CircleSegments with a caller-supplied scale and
// cap, used when tessellation options override the defaults.
func CircleSegmentsScaled(radius, scale float64, max int) int {
	if max < minCircleSegments {
		max = minCircleSegments
	}
	n := int(math.Ceil(radius * scale))
	if n < minCircleSegments {
		return minCircleSegments
	}
	if n > max {
		return max
	}
	return n
}

// CirclePoints returns a CCW circle approximation with the given segment
// count, centered at center.
func CirclePoints(center Vec2, radius float64, segments int) []Vec2 {
	pts := make([]Vec2, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = Vec2{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		}
	}
	return pts
}

// RectangleProfile creates a w×h rectangle centered on the origin, matching
// the IFC parameterized profile convention.
func RectangleProfile(w, h float64) (Profile2D, error) {
	if w <= 0 || h <= 0 {
		return Profile2D{}, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Detail("rectangle dimensions must be positive, got %g x %g", w, h).
			Build()
	}
	hw, hh := w/2, h/2
	return Profile2D{
		Kind: ProfileRectangle,
		Outer: []Vec2{
			{-hw, -hh},
			{hw, -hh},
			{hw, hh},
			{-hw, hh},
		},
	}, nil
}

// CircleProfile creates a circle profile centered on the origin using the
// default segmentation rule.
func CircleProfile(r float64) (Profile2D, error) {
	return CircleProfileSegments(r, CircleSegments(r))
}

// CircleProfileSegments creates a circle profile with an explicit segment
// count.
func CircleProfileSegments(r float64, segments int) (Profile2D, error) {
	if r <= 0 {
		return Profile2D{}, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Detail("circle radius must be positive, got %g", r).
			Build()
	}
	if segments < 3 {
		segments = 3
	}
	return Profile2D{
		Kind:  ProfileCircle,
		Outer: CirclePoints(Vec2{}, r, segments),
	}, nil
}

// ArbitraryProfile creates a profile from a decoded point loop with
// optional void loops.
func ArbitraryProfile(outer []Vec2, voids ...[]Vec2) (Profile2D, error) {
	if len(outer) < 3 {
		return Profile2D{}, errors.New(errors.PhaseTessellate, errors.KindProfile).
			Detail("profile boundary has %d points, need at least 3", len(outer)).
			Build()
	}
	return Profile2D{Kind: ProfileArbitrary, Outer: outer, Voids: voids}, nil
}

// normalized returns the profile with the outer loop wound CCW and every
// void loop wound CW, the orientation the extrusion walls rely on.
func (p Profile2D) normalized() Profile2D {
	out := p
	if !IsCCW(p.Outer) {
		out.Outer = Reverse2(p.Outer)
	}
	if len(p.Voids) > 0 {
		out.Voids = make([][]Vec2, len(p.Voids))
		for i, v := range p.Voids {
			if IsCCW(v) {
				out.Voids[i] = Reverse2(v)
			} else {
				out.Voids[i] = v
			}
		}
	}
	return out
}

// Area returns the profile's net area: outer area minus void areas.
func (p Profile2D) Area() float64 {
	a := math.Abs(SignedArea(p.Outer))
	for _, v := range p.Voids {
		a -= math.Abs(SignedArea(v))
	}
	return a
}
