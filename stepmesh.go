package stepmesh

import (
	"context"
	"os"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meshgrid/stepmesh/geom"
	"github.com/meshgrid/stepmesh/model"
	"github.com/meshgrid/stepmesh/step"
	"github.com/meshgrid/stepmesh/tessellate"
)

// Options configure a parse run. The zero value is usable.
type Options struct {
	// Progress, when set, receives phase names and completion fractions.
	// It is called synchronously from the parsing goroutine.
	Progress step.ProgressFunc

	// DecodeWorkers bounds the eager decode pass; 0 means one per CPU and
	// a negative value skips eager decoding entirely, leaving every entity
	// to decode lazily on first access.
	DecodeWorkers int

	// Logger replaces the default no-op logger across all packages.
	Logger *zap.Logger

	// SkipSpatial and SkipProperties drop the respective extraction passes
	// for callers that only need raw geometry.
	SkipSpatial    bool
	SkipProperties bool
}

// Parse scans a STEP file's bytes into a fully indexed model. Structural
// errors in individual records are tolerated: well-formed entities around
// them still land in the model, and the joined structural errors are
// returned alongside it. The model is nil only when nothing could be
// scanned at all.
func Parse(ctx context.Context, data []byte, opts Options) (*model.Model, error) {
	if opts.Logger != nil {
		step.SetLogger(opts.Logger)
		model.SetLogger(opts.Logger)
		tessellate.SetLogger(opts.Logger)
	}

	body, _ := step.DataSection(data)

	m := model.NewModel()
	sc := step.NewScanner(body)
	if opts.Progress != nil {
		sc.SetProgress(opts.Progress)
	}
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.Insert(sc.Entity())
	}
	scanErr := sc.Err()
	if m.Len() == 0 && scanErr != nil {
		return nil, scanErr
	}

	if opts.DecodeWorkers >= 0 {
		if err := m.DecodeAll(ctx, opts.DecodeWorkers); err != nil {
			// Per-entity decode failures resurface on Get; the model stays
			// usable for everything that did decode.
			model.Logger().Debug("eager decode reported failures", zap.Error(err))
		}
	}

	if !opts.SkipSpatial {
		if _, err := m.BuildSpatial(); err != nil {
			return nil, err
		}
	}
	if !opts.SkipProperties {
		if _, err := m.BuildProperties(); err != nil {
			return nil, err
		}
	}

	if opts.Progress != nil {
		opts.Progress("index", 1.0)
	}
	return m, scanErr
}

// ParseFile reads and parses the STEP file at path.
func ParseFile(ctx context.Context, path string, opts Options) (*model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, data, opts)
}

// Result pairs one geometric entity with its mesh or failure. Failed
// entities never abort a batch; callers filter on Err.
type Result struct {
	Mesh *geom.Mesh
	Err  error
	ID   step.EntityID
}

// GeometricEntities lists the ids of every entity the router can
// tessellate, in file order.
func GeometricEntities(m *model.Model, r *tessellate.Router) []step.EntityID {
	var ids []step.EntityID
	for _, typeName := range m.Types() {
		if !r.Supported(typeName) {
			continue
		}
		ids = append(ids, m.FindByType(typeName)...)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TessellateAll meshes every supported geometric entity with a bounded
// worker pool, returning one result per entity in input order.
func TessellateAll(ctx context.Context, m *model.Model, r *tessellate.Router, workers int) []Result {
	ids := GeometricEntities(m, r)
	results := make([]Result, len(ids))

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{ID: id, Err: err}
				return nil
			}
			mesh, err := r.Process(id, m)
			results[i] = Result{ID: id, Mesh: mesh, Err: err}
			return nil
		})
	}
	// Workers never return errors; failures ride in the results.
	_ = g.Wait()
	return results
}
