package geom_test

import (
	"errors"
	"math"
	"testing"

	stperrors "github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/geom"
)

// triangleArea2 sums the unsigned area of the indexed triangles over pts.
func triangleArea2(pts []geom.Vec2, tris []uint32) float64 {
	total := 0.0
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := pts[tris[i]], pts[tris[i+1]], pts[tris[i+2]]
		total += math.Abs(b.Sub(a).Cross(c.Sub(a))) / 2
	}
	return total
}

func TestTriangulateSquare(t *testing.T) {
	square := []geom.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	tris, err := geom.TriangulatePolygon(square)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 6 {
		t.Fatalf("got %d indices, want 6", len(tris))
	}
	if a := triangleArea2(square, tris); math.Abs(a-1) > 1e-9 {
		t.Errorf("area = %g, want 1", a)
	}
	// Windings stay CCW.
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := square[tris[i]], square[tris[i+1]], square[tris[i+2]]
		if b.Sub(a).Cross(c.Sub(a)) <= 0 {
			t.Errorf("triangle %d wound clockwise", i/3)
		}
	}
}

func TestTriangulateClockwiseInput(t *testing.T) {
	// CW input is accepted; output triangles still wind CCW.
	square := []geom.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	tris, err := geom.TriangulatePolygon(square)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := square[tris[i]], square[tris[i+1]], square[tris[i+2]]
		if b.Sub(a).Cross(c.Sub(a)) <= 0 {
			t.Errorf("triangle %d wound clockwise", i/3)
		}
	}
}

func TestTriangulateConcave(t *testing.T) {
	// L-shape, area 3.
	l := []geom.Vec2{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}
	tris, err := geom.TriangulatePolygon(l)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 3*(len(l)-2) {
		t.Errorf("got %d indices, want %d", len(tris), 3*(len(l)-2))
	}
	if a := triangleArea2(l, tris); math.Abs(a-3) > 1e-9 {
		t.Errorf("area = %g, want 3", a)
	}
}

func TestTriangulateWithHole(t *testing.T) {
	outer := []geom.Vec2{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
	hole := []geom.Vec2{{1, 1}, {3, 1}, {3, 3}, {1, 3}}

	tris, err := geom.TriangulatePolygonWithHoles(outer, [][]geom.Vec2{hole})
	if err != nil {
		t.Fatal(err)
	}

	// Indices reference outer followed by the hole loop.
	all := append(append([]geom.Vec2{}, outer...), hole...)
	for _, i := range tris {
		if int(i) >= len(all) {
			t.Fatalf("index %d out of range", i)
		}
	}

	// The hole's area never reappears: sum of triangle areas equals
	// outer minus hole.
	want := 16.0 - 4.0
	if a := triangleArea2(all, tris); math.Abs(a-want) > 1e-6 {
		t.Errorf("area = %g, want %g", a, want)
	}

	// No triangle centroid may land inside the hole.
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := all[tris[i]], all[tris[i+1]], all[tris[i+2]]
		cx := (a.X + b.X + c.X) / 3
		cy := (a.Y + b.Y + c.Y) / 3
		if cx > 1 && cx < 3 && cy > 1 && cy < 3 {
			t.Errorf("triangle centroid (%g, %g) inside hole", cx, cy)
		}
	}
}

func TestTriangulateTwoHoles(t *testing.T) {
	outer := []geom.Vec2{{0, 0}, {10, 0}, {10, 4}, {0, 4}}
	holes := [][]geom.Vec2{
		{{1, 1}, {3, 1}, {3, 3}, {1, 3}},
		{{6, 1}, {8, 1}, {8, 3}, {6, 3}},
	}
	tris, err := geom.TriangulatePolygonWithHoles(outer, holes)
	if err != nil {
		t.Fatal(err)
	}
	all := append([]geom.Vec2{}, outer...)
	for _, h := range holes {
		all = append(all, h...)
	}
	want := 40.0 - 4.0 - 4.0
	if a := triangleArea2(all, tris); math.Abs(a-want) > 1e-6 {
		t.Errorf("area = %g, want %g", a, want)
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []geom.Vec2
	}{
		{"two points", []geom.Vec2{{0, 0}, {1, 1}}},
		{"zero area", []geom.Vec2{{0, 0}, {1, 1}, {2, 2}}},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geom.TriangulatePolygon(tt.pts)
			if err == nil {
				t.Fatal("expected a triangulation error")
			}
			var serr *stperrors.Error
			if !errors.As(err, &serr) || serr.Kind != stperrors.KindTriangulation {
				t.Errorf("error: %v", err)
			}
		})
	}
}

func TestTriangulate3D(t *testing.T) {
	// A tilted quad in 3D; indices must map 1:1 to the input order.
	quad := []geom.Vec3{
		{0, 0, 0},
		{2, 0, 1},
		{2, 2, 1},
		{0, 2, 0},
	}
	tris, err := geom.TriangulatePolygon3D(quad)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 6 {
		t.Fatalf("got %d indices, want 6", len(tris))
	}
	for _, i := range tris {
		if int(i) >= len(quad) {
			t.Errorf("index %d out of range", i)
		}
	}
}

func TestPolygonNormalNewell(t *testing.T) {
	// CCW square in the XY plane has normal +Z, robust to slight
	// non-planarity.
	pts := []geom.Vec3{
		{0, 0, 0},
		{1, 0, 0.01},
		{1, 1, 0},
		{0, 1, -0.01},
	}
	n := geom.PolygonNormal(pts)
	if n.Z < 0.99 {
		t.Errorf("normal = %+v, want ~+Z", n)
	}

	if got := geom.PolygonNormal(pts[:2]); got.Length() != 0 {
		t.Errorf("degenerate normal = %+v, want zero", got)
	}
}

func TestPlaneBasisOrthonormal(t *testing.T) {
	for _, n := range []geom.Vec3{
		{0, 0, 1}, {1, 0, 0}, {0, 1, 0},
		geom.V3(1, 1, 1).Normalize(),
	} {
		u, v := geom.PlaneBasis(n)
		if math.Abs(u.Length()-1) > 1e-9 || math.Abs(v.Length()-1) > 1e-9 {
			t.Errorf("basis for %+v not unit: %+v %+v", n, u, v)
		}
		if math.Abs(u.Dot(v)) > 1e-9 || math.Abs(u.Dot(n)) > 1e-9 || math.Abs(v.Dot(n)) > 1e-9 {
			t.Errorf("basis for %+v not orthogonal", n)
		}
	}
}
