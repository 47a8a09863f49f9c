package tessellate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stperrors "github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/model"
	"github.com/meshgrid/stepmesh/step"
	"github.com/meshgrid/stepmesh/tessellate"
)

func buildModel(t *testing.T, body string) *model.Model {
	t.Helper()
	m := model.NewModel()
	sc := step.NewScanner([]byte(body))
	for sc.Scan() {
		m.Insert(sc.Entity())
	}
	require.NoError(t, sc.Err())
	return m
}

func TestProcessExtrudedRectangle(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCDIRECTION((0.,0.,1.));
#3=IFCRECTANGLEPROFILEDEF(.AREA.,$,$,2.,1.);
#4=IFCEXTRUDEDAREASOLID(#3,$,#2,3.);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	mesh, err := r.Process(4, m)
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())

	// 2 cap triangles x 2 caps + 4 edges x 2 = 12.
	assert.Equal(t, 12, mesh.TriangleCount())

	min, max := mesh.Bounds()
	size := max.Sub(min)
	assert.InDelta(t, 2, size.X, 1e-9)
	assert.InDelta(t, 1, size.Y, 1e-9)
	assert.InDelta(t, 3, size.Z, 1e-9)
	assert.InDelta(t, 6, size.X*size.Y*size.Z, 1e-9)
}

func TestProcessExtrudedCircle(t *testing.T) {
	m := buildModel(t, `
#1=IFCDIRECTION((0.,0.,1.));
#2=IFCCIRCLEPROFILEDEF(.AREA.,$,$,1.);
#3=IFCEXTRUDEDAREASOLID(#2,$,#1,2.);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	mesh, err := r.Process(3, m)
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())

	// Radius 1 resolves to the 8-segment floor: 6 cap triangles per cap
	// plus 8 wall quads.
	assert.Equal(t, 2*6+8*2, mesh.TriangleCount())
}

func TestProcessExtrudedArbitraryWithVoids(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((0.,0.));
#2=IFCCARTESIANPOINT((4.,0.));
#3=IFCCARTESIANPOINT((4.,4.));
#4=IFCCARTESIANPOINT((0.,4.));
#5=IFCPOLYLINE((#1,#2,#3,#4,#1));
#6=IFCCARTESIANPOINT((1.,1.));
#7=IFCCARTESIANPOINT((3.,1.));
#8=IFCCARTESIANPOINT((3.,3.));
#9=IFCCARTESIANPOINT((1.,3.));
#10=IFCPOLYLINE((#6,#7,#8,#9));
#11=IFCARBITRARYPROFILEDEFWITHVOIDS(.AREA.,$,#5,(#10));
#12=IFCDIRECTION((0.,0.,1.));
#13=IFCEXTRUDEDAREASOLID(#11,$,#12,2.);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	mesh, err := r.Process(13, m)
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())

	// Cap area on both caps is outer minus void: 2 x (16 - 4).
	capArea := 0.0
	wallCount := 0
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := mesh.Positions[mesh.Indices[i]]
		b := mesh.Positions[mesh.Indices[i+1]]
		c := mesh.Positions[mesh.Indices[i+2]]
		face := b.Sub(a).Cross(c.Sub(a))
		if math.Abs(face.X) < 1e-9 && math.Abs(face.Y) < 1e-9 {
			capArea += face.Length() / 2
		} else {
			wallCount++
		}
	}
	assert.InDelta(t, 24, capArea, 1e-6)
	assert.Equal(t, 16, wallCount)
}

func TestProcessRevolved(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((1.,0.));
#2=IFCCARTESIANPOINT((2.,0.));
#3=IFCCARTESIANPOINT((2.,1.));
#4=IFCCARTESIANPOINT((1.,1.));
#5=IFCPOLYLINE((#1,#2,#3,#4));
#6=IFCARBITRARYCLOSEDPROFILEDEF(.AREA.,$,#5);
#7=IFCCARTESIANPOINT((0.,0.,0.));
#8=IFCDIRECTION((0.,1.,0.));
#9=IFCAXIS1PLACEMENT(#7,#8);
#10=IFCREVOLVEDAREASOLID(#6,$,#9,6.283185307179586);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	mesh, err := r.Process(10, m)
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())

	// Maximum radial reach 2 resolves to 16 segments; a full revolution
	// closes without caps: 4 profile edges x 16 x 2 triangles.
	assert.Equal(t, 128, mesh.TriangleCount())
}

func TestProcessSweptDisk(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCCARTESIANPOINT((0.,0.,2.));
#3=IFCPOLYLINE((#1,#2));
#4=IFCSWEPTDISKSOLID(#3,0.25,$,$,$);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	mesh, err := r.Process(4, m)
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())

	// Radius 0.25 resolves to the 8-segment floor: 1 span x 8 x 2 wall
	// triangles plus two 8-fan caps.
	assert.Equal(t, 32, mesh.TriangleCount())
}

func TestProcessFacetedBrep(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCCARTESIANPOINT((1.,0.,0.));
#3=IFCCARTESIANPOINT((1.,1.,0.));
#4=IFCCARTESIANPOINT((0.,1.,0.));
#5=IFCPOLYLOOP((#1,#2,#3,#4));
#6=IFCFACEOUTERBOUND(#5,.T.);
#7=IFCFACE((#6));
#8=IFCCLOSEDSHELL((#7));
#9=IFCFACETEDBREP(#8);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	mesh, err := r.Process(9, m)
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())
	assert.Equal(t, 2, mesh.TriangleCount())

	// A CCW loop in the XY plane faces +Z; windings must agree.
	for _, n := range mesh.Normals {
		assert.InDelta(t, 1, n.Z, 1e-9)
	}
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := mesh.Positions[mesh.Indices[i]]
		b := mesh.Positions[mesh.Indices[i+1]]
		c := mesh.Positions[mesh.Indices[i+2]]
		face := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, face.Z, 0.0)
	}
}

func TestProcessFacetedBrepReversedBound(t *testing.T) {
	// The same square with orientation .F. and a clockwise loop still faces
	// +Z once the bound is reversed.
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCCARTESIANPOINT((1.,0.,0.));
#3=IFCCARTESIANPOINT((1.,1.,0.));
#4=IFCCARTESIANPOINT((0.,1.,0.));
#5=IFCPOLYLOOP((#4,#3,#2,#1));
#6=IFCFACEOUTERBOUND(#5,.F.);
#7=IFCFACE((#6));
#8=IFCCLOSEDSHELL((#7));
#9=IFCFACETEDBREP(#8);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	mesh, err := r.Process(9, m)
	require.NoError(t, err)
	for _, n := range mesh.Normals {
		assert.InDelta(t, 1, n.Z, 1e-9)
	}
}

func TestProcessFacetedBrepFaceWithHole(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCCARTESIANPOINT((4.,0.,0.));
#3=IFCCARTESIANPOINT((4.,4.,0.));
#4=IFCCARTESIANPOINT((0.,4.,0.));
#5=IFCPOLYLOOP((#1,#2,#3,#4));
#6=IFCFACEOUTERBOUND(#5,.T.);
#7=IFCCARTESIANPOINT((1.,1.,0.));
#8=IFCCARTESIANPOINT((3.,1.,0.));
#9=IFCCARTESIANPOINT((3.,3.,0.));
#10=IFCCARTESIANPOINT((1.,3.,0.));
#11=IFCPOLYLOOP((#7,#8,#9,#10));
#12=IFCFACEBOUND(#11,.T.);
#13=IFCFACE((#6,#12));
#14=IFCCLOSEDSHELL((#13));
#15=IFCFACETEDBREP(#14);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	mesh, err := r.Process(15, m)
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())

	// The face area is outer minus hole.
	area := 0.0
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := mesh.Positions[mesh.Indices[i]]
		b := mesh.Positions[mesh.Indices[i+1]]
		c := mesh.Positions[mesh.Indices[i+2]]
		area += b.Sub(a).Cross(c.Sub(a)).Length() / 2
	}
	assert.InDelta(t, 12, area, 1e-6)
}

func TestProcessTriangulatedFaceSet(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINTLIST3D(((0.,0.,0.),(1.,0.,0.),(0.,1.,0.),(0.,0.,1.)));
#2=IFCTRIANGULATEDFACESET(#1,$,.T.,((1,2,3),(1,2,4)),$);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	mesh, err := r.Process(2, m)
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())
	assert.Equal(t, 2, mesh.TriangleCount())
	assert.Equal(t, 6, mesh.VertexCount())
}

func TestProcessTriangulatedFaceSetBadIndex(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINTLIST3D(((0.,0.,0.),(1.,0.,0.),(0.,1.,0.)));
#2=IFCTRIANGULATEDFACESET(#1,$,.T.,((1,2,9)),$);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	_, err := r.Process(2, m)
	require.Error(t, err)
	var serr *stperrors.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, stperrors.KindInvalidAttribute, serr.Kind)
}

func TestProcessUnsupportedType(t *testing.T) {
	m := buildModel(t, `
#1=IFCBLOCK($,1.,1.,1.);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	_, err := r.Process(1, m)
	require.Error(t, err)
	var serr *stperrors.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, stperrors.KindUnsupportedType, serr.Kind)
}

func TestProcessDanglingProfile(t *testing.T) {
	m := buildModel(t, `
#1=IFCDIRECTION((0.,0.,1.));
#2=IFCEXTRUDEDAREASOLID(#99,$,#1,1.);
`)
	r := tessellate.NewRouter(tessellate.Options{})

	_, err := r.Process(2, m)
	require.Error(t, err)
	var serr *stperrors.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, stperrors.KindEntityNotFound, serr.Kind)
}

func TestRouterSupported(t *testing.T) {
	r := tessellate.NewRouter(tessellate.Options{})
	assert.True(t, r.Supported("IFCEXTRUDEDAREASOLID"))
	assert.True(t, r.Supported("IFCTRIANGULATEDFACESET"))
	assert.False(t, r.Supported("IFCBLOCK"))
}

func TestOptionsOverrideSegments(t *testing.T) {
	m := buildModel(t, `
#1=IFCDIRECTION((0.,0.,1.));
#2=IFCCIRCLEPROFILEDEF(.AREA.,$,$,10.);
#3=IFCEXTRUDEDAREASOLID(#2,$,#1,1.);
`)

	coarse := tessellate.NewRouter(tessellate.Options{MaxCircleSegments: 12})
	fine := tessellate.NewRouter(tessellate.Options{})

	cm, err := coarse.Process(3, m)
	require.NoError(t, err)
	fm, err := fine.Process(3, m)
	require.NoError(t, err)
	assert.Less(t, cm.TriangleCount(), fm.TriangleCount())
}
