// Package model owns the reference-resolved entity graph built from a
// scanned STEP file: lazy memoized decoding of raw records into attribute
// lists, lookup by id and by type name, single-point reference resolution,
// the spatial containment tree, and property/quantity set extraction.
//
// Attributes never hold resolved entities, only ids, so cyclic references in
// the input stay ordinary data. Decoding is safe to parallelize: the cache
// uses first-writer-wins semantics and readers never observe a partially
// decoded entity.
package model
