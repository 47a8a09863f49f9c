package geom

import (
	"math"
	"sort"

	"github.com/meshgrid/stepmesh/errors"
)

const areaEps = 1e-12

// earVert carries a working-list vertex together with the index it maps to
// in the caller's original point order. Bridge duplicates introduced by hole
// joining share the original index of the vertex they duplicate.
type earVert struct {
	pt  Vec2
	idx uint32
}

// TriangulatePolygon triangulates a simple 2D polygon by ear clipping.
// The returned indices reference the input point order, stride 3, each
// triple wound counterclockwise. Degenerate input (fewer than 3 points,
// zero area) fails with a triangulation error.
func TriangulatePolygon(pts []Vec2) ([]uint32, error) {
	verts, err := polygonVerts(pts, 0)
	if err != nil {
		return nil, err
	}
	return earClip(verts), nil
}

// TriangulatePolygonWithHoles triangulates an outer boundary with inner
// hole loops. Indices reference the concatenation of outer followed by each
// hole loop in order. Hole loops are joined into the outer boundary via
// bridge edges before ear clipping, so the holes' area never appears in the
// output.
func TriangulatePolygonWithHoles(outer []Vec2, holes [][]Vec2) ([]uint32, error) {
	verts, err := polygonVerts(outer, 0)
	if err != nil {
		return nil, err
	}
	if len(holes) == 0 {
		return earClip(verts), nil
	}

	// Hole loops wind clockwise in the merged boundary. Join holes in
	// descending max-X order so earlier bridges cannot occlude later ones.
	base := uint32(len(outer))
	type holeLoop struct {
		verts []earVert
		maxX  float64
	}
	loops := make([]holeLoop, 0, len(holes))
	for _, hole := range holes {
		if len(hole) < 3 {
			return nil, errors.Triangulation("hole loop has %d points, need at least 3", len(hole))
		}
		hv := make([]earVert, len(hole))
		for i, p := range hole {
			hv[i] = earVert{pt: p, idx: base + uint32(i)}
		}
		if IsCCW(hole) {
			hv = reverseVerts(hv)
		}
		maxX := math.Inf(-1)
		for _, v := range hv {
			maxX = math.Max(maxX, v.pt.X)
		}
		loops = append(loops, holeLoop{verts: hv, maxX: maxX})
		base += uint32(len(hole))
	}
	sort.SliceStable(loops, func(i, j int) bool { return loops[i].maxX > loops[j].maxX })

	for _, loop := range loops {
		verts = joinHole(verts, loop.verts)
	}
	return earClip(verts), nil
}

// TriangulatePolygon3D projects a 3D polygon to its best-fit plane
// (Newell's method) and triangulates in 2D. Indices map 1:1 back to the
// original 3D point order.
func TriangulatePolygon3D(pts []Vec3) ([]uint32, error) {
	if len(pts) < 3 {
		return nil, errors.Triangulation("polygon has %d points, need at least 3", len(pts))
	}
	normal := PolygonNormal(pts)
	if normal.Length() < 0.5 {
		return nil, errors.Triangulation("polygon is degenerate, no usable normal")
	}
	return TriangulatePolygon(ProjectToPlane(pts, normal))
}

// polygonVerts validates a boundary loop and builds the CCW working list.
func polygonVerts(pts []Vec2, base uint32) ([]earVert, error) {
	if len(pts) < 3 {
		return nil, errors.Triangulation("polygon has %d points, need at least 3", len(pts))
	}
	if math.Abs(SignedArea(pts)) < areaEps {
		return nil, errors.Triangulation("polygon has zero area")
	}
	verts := make([]earVert, len(pts))
	for i, p := range pts {
		verts[i] = earVert{pt: p, idx: base + uint32(i)}
	}
	if !IsCCW(pts) {
		verts = reverseVerts(verts)
	}
	return verts, nil
}

func reverseVerts(v []earVert) []earVert {
	out := make([]earVert, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}

// earClip removes ears from a CCW boundary until only one triangle remains.
// When no ear can be found (self-intersection or numeric collapse) the
// remainder is fanned so the algorithm always terminates with a usable, if
// degraded, result.
func earClip(verts []earVert) []uint32 {
	var out []uint32
	remaining := make([]earVert, len(verts))
	copy(remaining, verts)

	for len(remaining) > 3 {
		clipped := false
		n := len(remaining)
		for i := 0; i < n; i++ {
			if isEar(remaining, i) {
				prev := remaining[(i-1+n)%n]
				next := remaining[(i+1)%n]
				out = append(out, prev.idx, remaining[i].idx, next.idx)
				remaining = append(remaining[:i], remaining[i+1:]...)
				clipped = true
				break
			}
		}
		if !clipped {
			// No ear found: fan the remainder.
			for i := 1; i < len(remaining)-1; i++ {
				out = append(out, remaining[0].idx, remaining[i].idx, remaining[i+1].idx)
			}
			return out
		}
	}
	if len(remaining) == 3 {
		out = append(out, remaining[0].idx, remaining[1].idx, remaining[2].idx)
	}
	return out
}

// isEar reports whether vertex i is a convex vertex whose triangle contains
// no other remaining vertex.
func isEar(verts []earVert, i int) bool {
	n := len(verts)
	a := verts[(i-1+n)%n].pt
	b := verts[i].pt
	c := verts[(i+1)%n].pt

	if b.Sub(a).Cross(c.Sub(b)) <= areaEps {
		return false // reflex or collinear
	}
	for j := 0; j < n; j++ {
		if j == (i-1+n)%n || j == i || j == (i+1)%n {
			continue
		}
		p := verts[j].pt
		// Bridge duplicates share coordinates with triangle corners.
		if p == a || p == b || p == c {
			continue
		}
		if pointInTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}

// joinHole merges a CW hole loop into a CCW outer boundary with a bridge
// edge, duplicating the two bridge endpoints.
func joinHole(outer, hole []earVert) []earVert {
	// Rightmost hole vertex.
	m := 0
	for i := 1; i < len(hole); i++ {
		if hole[i].pt.X > hole[m].pt.X {
			m = i
		}
	}
	bridge := findBridge(outer, hole[m].pt)

	// outer[:bridge+1] + hole[m:] + hole[:m+1] + outer[bridge:]
	out := make([]earVert, 0, len(outer)+len(hole)+2)
	out = append(out, outer[:bridge+1]...)
	out = append(out, hole[m:]...)
	out = append(out, hole[:m+1]...)
	out = append(out, outer[bridge:]...)
	return out
}

// findBridge locates the outer vertex visible from hole point m along the
// +X ray, following the classic two-step: intersect the ray with the outer
// boundary, then reject candidates hidden behind reflex vertices.
func findBridge(outer []earVert, m Vec2) int {
	n := len(outer)

	// Closest intersection of the +X ray from m with an outer edge.
	bestT := math.Inf(1)
	bestEdge := -1
	var hit Vec2
	for i := 0; i < n; i++ {
		a := outer[i].pt
		b := outer[(i+1)%n].pt
		if (a.Y > m.Y) == (b.Y > m.Y) {
			continue // edge does not straddle the ray
		}
		t := a.X + (m.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if t >= m.X-areaEps && t < bestT {
			bestT = t
			bestEdge = i
			hit = Vec2{X: t, Y: m.Y}
		}
	}
	if bestEdge < 0 {
		// Hole outside the boundary; degrade to the nearest vertex.
		return nearestVertex(outer, m)
	}

	// Candidate: the endpoint of the hit edge with the larger X.
	cand := bestEdge
	if outer[(bestEdge+1)%n].pt.X > outer[bestEdge].pt.X {
		cand = (bestEdge + 1) % n
	}
	p := outer[cand].pt

	// Any reflex vertex inside triangle (m, hit, p) occludes the candidate;
	// pick the occluder closest in angle to the ray, then closest in
	// distance.
	bestAngle := math.Inf(1)
	bestDist := math.Inf(1)
	found := cand
	for i := 0; i < n; i++ {
		if i == cand {
			continue
		}
		q := outer[i].pt
		if !isReflex(outer, i) {
			continue
		}
		if !pointInTriangle(q, m, hit, p) && !pointInTriangle(q, m, p, hit) {
			continue
		}
		dx := q.X - m.X
		dy := math.Abs(q.Y - m.Y)
		if dx <= 0 {
			continue
		}
		angle := dy / dx
		dist := m.Distance(q)
		if angle < bestAngle || (angle == bestAngle && dist < bestDist) {
			bestAngle = angle
			bestDist = dist
			found = i
		}
	}
	return found
}

func isReflex(verts []earVert, i int) bool {
	n := len(verts)
	a := verts[(i-1+n)%n].pt
	b := verts[i].pt
	c := verts[(i+1)%n].pt
	return b.Sub(a).Cross(c.Sub(b)) < 0
}

func nearestVertex(verts []earVert, p Vec2) int {
	best := 0
	bestD := math.Inf(1)
	for i, v := range verts {
		if d := v.pt.Distance(p); d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}
