package model_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stperrors "github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/model"
	"github.com/meshgrid/stepmesh/step"
)

// buildModel scans a body and inserts every record.
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

func TestGetLazyDecode(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCDIRECTION((0.,0.,1.));
`)

	ent, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "IFCCARTESIANPOINT", ent.Type)
	require.Len(t, ent.Attrs, 1)

	coords, ok := ent.Attrs[0].AsList()
	require.True(t, ok)
	require.Len(t, coords, 3)
	x, ok := coords[0].AsFloat()
	require.True(t, ok)
	assert.Equal(t, 0.0, x)
}

func TestGetIdempotent(t *testing.T) {
	m := buildModel(t, `#7=IFCWALL('guid',$,'Name',$,$,$,$,$,.STANDARD.);`)

	a, err := m.Get(7)
	require.NoError(t, err)
	b, err := m.Get(7)
	require.NoError(t, err)

	// Same cached instance, attribute-value-equal regardless of call order.
	assert.Same(t, a, b)
	require.Equal(t, len(a.Attrs), len(b.Attrs))
	for i := range a.Attrs {
		assert.True(t, a.Attrs[i].Equal(b.Attrs[i]))
	}
}

func TestGetConcurrent(t *testing.T) {
	m := buildModel(t, `#7=IFCWALL('guid',$,'Name',$,$,$,$,$,.STANDARD.);`)

	const n = 32
	results := make([]*model.DecodedEntity, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ent, err := m.Get(7)
			if err == nil {
				results[i] = ent
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NotNil(t, results[i])
		assert.Same(t, results[0], results[i], "all readers must share one decode")
	}
}

func TestGetNotFound(t *testing.T) {
	m := buildModel(t, `#1=IFCWALL($);`)

	_, err := m.Get(999)
	require.Error(t, err)
	var serr *stperrors.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, stperrors.KindEntityNotFound, serr.Kind)
	assert.Equal(t, uint32(999), serr.Entity)
}

func TestResolveRef(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((1.,2.,0.));
#2=IFCPOLYLINE((#1,#999));
`)

	line, err := m.Get(2)
	require.NoError(t, err)
	pts, ok := line.Attrs[0].AsList()
	require.True(t, ok)

	pt, err := m.ResolveRef(pts[0])
	require.NoError(t, err)
	assert.Equal(t, "IFCCARTESIANPOINT", pt.Type)

	// Dangling reference fails with entity_not_found, never a default.
	_, err = m.ResolveRef(pts[1])
	var serr *stperrors.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, stperrors.KindEntityNotFound, serr.Kind)

	// Non-reference attribute is rejected outright.
	_, err = m.ResolveRef(line.Attrs[0])
	assert.Error(t, err)
}

func TestReferenceCycleStaysFlat(t *testing.T) {
	// A references B references A. Each Get decodes one entity one level
	// deep, so the cycle is ordinary data.
	m := buildModel(t, `
#1=IFCRELNESTS($,$,$,$,#2,(#1));
#2=IFCRELNESTS($,$,$,$,#1,(#2));
`)

	a, err := m.Get(1)
	require.NoError(t, err)
	ref, ok := a.Attrs[4].AsRef()
	require.True(t, ok)
	assert.Equal(t, step.EntityID(2), ref)

	b, err := m.Get(2)
	require.NoError(t, err)
	ref, ok = b.Attrs[4].AsRef()
	require.True(t, ok)
	assert.Equal(t, step.EntityID(1), ref)
}

func TestFindByType(t *testing.T) {
	m := buildModel(t, `
#3=IFCWALL($);
#1=IFCSLAB($);
#2=IFCWALL($);
`)

	walls := m.FindByType("IFCWALL")
	assert.Equal(t, []step.EntityID{3, 2}, walls, "file order, not id order")
	assert.Empty(t, m.FindByType("ifcwall"), "lookup is case-sensitive")
	assert.Equal(t, []string{"IFCSLAB", "IFCWALL"}, m.Types())
}

func TestDecodeAll(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCDIRECTION((0.,0.,1.));
#3=IFCWALL('guid',$,$,$,$,$,$,$,.STANDARD.);
`)

	require.NoError(t, m.DecodeAll(context.Background(), 4))

	// Everything is now served from cache.
	for _, id := range []step.EntityID{1, 2, 3} {
		ent, err := m.Get(id)
		require.NoError(t, err)
		assert.Equal(t, id, ent.ID)
	}
}

func TestDecodeAllSurfacesPerEntityErrors(t *testing.T) {
	m := buildModel(t, `
#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCBROKEN(.UNTERMINATED);
`)

	err := m.DecodeAll(context.Background(), 2)
	require.Error(t, err, "the malformed entity must surface")

	// The well-formed entity is untouched by its neighbor's failure.
	ent, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "IFCCARTESIANPOINT", ent.Type)
}
