package model

import (
	"context"
	stderrors "errors"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/step"
)

// DecodedEntity is the typed form of one entity record: the id, the type
// name, and the ordered attribute list. Instances are created once per id,
// cached by the Model, and shared read-only with all callers.
type DecodedEntity struct {
	Type  string
	Attrs []AttributeValue
	ID    step.EntityID
}

// Attr returns the attribute at index i, or an invalid-attribute error when
// the entity has fewer attributes.
func (e *DecodedEntity) Attr(i int) (AttributeValue, error) {
	if i < 0 || i >= len(e.Attrs) {
		return AttributeValue{}, errors.InvalidAttribute(uint32(e.ID), i,
			"attribute index out of range")
	}
	return e.Attrs[i], nil
}

// Model owns every entity by id and is the sole mechanism by which one
// entity's reference attributes are dereferenced. Raw records are held for
// the model's lifetime; decoding is lazy and memoized per id with first
// writer wins, so concurrent readers never observe a partially decoded
// entity.
type Model struct {
	mu      sync.RWMutex
	raw     map[step.EntityID]step.RawEntity
	decoded map[step.EntityID]*DecodedEntity
	byType  map[string][]step.EntityID
	seq     map[step.EntityID]int

	spatial    *SpatialNode
	properties map[step.EntityID][]PropertySet
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		raw:     make(map[step.EntityID]step.RawEntity),
		decoded: make(map[step.EntityID]*DecodedEntity),
		byType:  make(map[string][]step.EntityID),
		seq:     make(map[step.EntityID]int),
	}
}

// Insert registers a scanned record. The last record wins when a file
// declares the same id twice. Insert is not safe for concurrent use; it is
// called from the single scanning goroutine.
func (m *Model) Insert(re step.RawEntity) {
	if _, dup := m.raw[re.ID]; !dup {
		m.byType[re.Type] = append(m.byType[re.Type], re.ID)
		m.seq[re.ID] = len(m.seq)
	}
	m.raw[re.ID] = re
}

// Len returns the number of entities in the model.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.raw)
}

// Has reports whether an entity with the given id was scanned.
func (m *Model) Has(id step.EntityID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.raw[id]
	return ok
}

// Types returns every type name present in the model, sorted.
func (m *Model) Types() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.byType))
	for name := range m.byType {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FindByType returns the ids of every entity with the exact given type name
// (case-sensitive, per the STEP uppercase convention), in file order.
func (m *Model) FindByType(name string) []step.EntityID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.byType[name]
	out := make([]step.EntityID, len(ids))
	copy(out, ids)
	return out
}

// Get returns the decoded entity for id, decoding on first access. Each call
// decodes exactly one entity, one level deep: attributes hold ids, never
// resolved entities, so reference cycles cannot recurse. Concurrent calls
// for the same id coalesce to one cached result.
func (m *Model) Get(id step.EntityID) (*DecodedEntity, error) {
	m.mu.RLock()
	if ent, ok := m.decoded[id]; ok {
		m.mu.RUnlock()
		return ent, nil
	}
	re, ok := m.raw[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.EntityNotFound(uint32(id))
	}

	// Tokenize and decode outside the lock; the work is pure, so two racing
	// decoders compute the same value and the first writer wins.
	toks, err := step.Tokenize(re.Args, re.ArgsOffset)
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindSyntax).
			Entity(uint32(id)).
			Cause(err).
			Detail("decode %s", re.Type).
			Build()
	}
	ent := &DecodedEntity{ID: id, Type: re.Type, Attrs: attrsFromTokens(toks)}

	m.mu.Lock()
	if cached, ok := m.decoded[id]; ok {
		m.mu.Unlock()
		return cached, nil
	}
	m.decoded[id] = ent
	m.mu.Unlock()
	return ent, nil
}

// ResolveRef dereferences a reference attribute. This is the single point
// where dangling references are caught: an absent id fails with
// entity_not_found, never a default entity.
func (m *Model) ResolveRef(v AttributeValue) (*DecodedEntity, error) {
	id, ok := v.AsRef()
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseResolve,
			"attribute is not an entity reference")
	}
	return m.Get(id)
}

// DecodeAll eagerly decodes every scanned entity across a worker pool. Each
// decode failure aborts only its own entity; failures are joined into the
// returned error while the rest of the model stays usable.
func (m *Model) DecodeAll(ctx context.Context, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	m.mu.RLock()
	ids := make([]step.EntityID, 0, len(m.raw))
	for id := range m.raw {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	var (
		errMu sync.Mutex
		errs  []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := m.Get(id); err != nil {
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if len(errs) > 0 {
		return errors.Wrap(errors.PhaseDecode, errors.KindSyntax,
			stderrors.Join(errs...), "decode all entities")
	}
	return nil
}

// Spatial returns the root of the containment tree, or nil before
// BuildSpatial has run.
func (m *Model) Spatial() *SpatialNode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.spatial
}

// PropertySets returns the property sets attached to an element, or nil.
func (m *Model) PropertySets(id step.EntityID) []PropertySet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.properties[id]
}

// order returns the scan-order sequence number for an id. Used by the
// spatial builder to apply relationships in file order.
func (m *Model) order(id step.EntityID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seq[id]
}
