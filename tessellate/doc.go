// Package tessellate turns geometric entities into triangle meshes. A
// Router dispatches each entity to the processor matching its type name:
// extruded area solids, revolved area solids, swept disk solids, faceted
// breps, and triangulated face sets. Processors follow references back
// through the model and build meshes with the geom primitives; an entity
// with no matching processor fails with an unsupported-type error so the
// caller decides whether to skip or abort.
//
// Per-entity failures are isolated. Processing one entity never mutates the
// model, so a failed entity can simply be skipped while the rest of a file
// renders.
package tessellate
