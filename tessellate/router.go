package tessellate

import (
	"go.uber.org/zap"

	"github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/geom"
	"github.com/meshgrid/stepmesh/model"
	"github.com/meshgrid/stepmesh/step"
)

// Options tune mesh fidelity. The zero value selects the defaults.
type Options struct {
	// CircleSegmentScale multiplies the radius when choosing circle
	// segment counts; larger means smoother curves.
	CircleSegmentScale float64
	// MaxCircleSegments caps the segment count for any single curve.
	MaxCircleSegments int
}

func (o Options) withDefaults() Options {
	if o.CircleSegmentScale <= 0 {
		o.CircleSegmentScale = geom.DefaultSegmentScale
	}
	if o.MaxCircleSegments <= 0 {
		o.MaxCircleSegments = geom.DefaultMaxSegments
	}
	return o
}

func (o Options) circleSegments(radius float64) int {
	return geom.CircleSegmentsScaled(radius, o.CircleSegmentScale, o.MaxCircleSegments)
}

// Processor turns one geometric entity into a mesh, following references
// through the resolver. Implementations are stateless; a processor may be
// invoked concurrently for different entities.
type Processor interface {
	Process(ent *model.DecodedEntity, m *model.Model) (*geom.Mesh, error)
}

// Router dispatches a geometric entity to the processor matching its type
// name. The processor set is closed: unknown types fail with
// unsupported_type so the caller decides whether to skip or abort.
type Router struct {
	procs map[string]Processor
}

// NewRouter creates a router over the full processor set.
func NewRouter(opts Options) *Router {
	opts = opts.withDefaults()
	return &Router{
		procs: map[string]Processor{
			"IFCEXTRUDEDAREASOLID":   &extrudedAreaSolid{opts: opts},
			"IFCREVOLVEDAREASOLID":   &revolvedAreaSolid{opts: opts},
			"IFCSWEPTDISKSOLID":      &sweptDiskSolid{opts: opts},
			"IFCFACETEDBREP":         &facetedBrep{},
			"IFCTRIANGULATEDFACESET": &triangulatedFaceSet{},
		},
	}
}

// Supported reports whether a type name has a processor.
func (r *Router) Supported(typeName string) bool {
	_, ok := r.procs[typeName]
	return ok
}

// Process tessellates the entity with the given id. Per-entity failures are
// isolated: an error here says nothing about any other entity in the model.
func (r *Router) Process(id step.EntityID, m *model.Model) (*geom.Mesh, error) {
	ent, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	proc, ok := r.procs[ent.Type]
	if !ok {
		return nil, errors.UnsupportedType(uint32(id), ent.Type)
	}
	mesh, err := proc.Process(ent, m)
	if err != nil {
		Logger().Debug("tessellation failed",
			zap.Uint32("entity", uint32(id)),
			zap.String("type", ent.Type),
			zap.Error(err))
		return nil, err
	}
	if verr := mesh.Validate(); verr != nil {
		return nil, errors.Wrap(errors.PhaseTessellate, errors.KindTriangulation,
			verr, "processor produced an invalid mesh")
	}
	return mesh, nil
}
