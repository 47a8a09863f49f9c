// Package stepmesh parses STEP/IFC building models and turns their
// geometric entities into GPU-ready triangle meshes.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	stepmesh/            Root package with the Parse and TessellateAll facade
//	├── step/            STEP text scanning and argument tokenization
//	├── model/           Lazy entity decoding, reference resolution, spatial
//	│                    tree and property set extraction
//	├── geom/            Triangulation, profiles, and sweep primitives
//	├── tessellate/      Geometry router and per-type mesh processors
//	├── errors/          Structured error types for debugging
//	├── config/          TOML configuration
//	└── cmd/stepview/    Command line inspector and viewer
//
// # Quick Start
//
// Parse a file and mesh everything it contains:
//
//	m, err := stepmesh.ParseFile(ctx, "building.ifc", stepmesh.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	router := tessellate.NewRouter(tessellate.Options{})
//	for _, res := range stepmesh.TessellateAll(ctx, m, router, 0) {
//	    if res.Err != nil {
//	        continue // skip entities that failed, render the rest
//	    }
//	    upload(res.Mesh.Data())
//	}
//
// Individual entities decode lazily: model.Get decodes on first access and
// caches the result, so inspecting one wall of a gigabyte file never
// decodes the rest.
package stepmesh
