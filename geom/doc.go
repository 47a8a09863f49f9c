// Package geom implements the computational geometry shared by the mesh
// processors: 2D/3D vectors, Newell-method polygon normals, best-fit-plane
// projection, ear-clipping triangulation with hole support via bridge
// edges, 2D profiles with voids, and the sweep primitives (linear
// extrusion, revolution, swept disk) that materialize profiles into
// triangle meshes.
//
// Every produced Mesh satisfies one load-bearing invariant: triangle
// windings are counterclockwise when viewed from outside the solid, with
// one normal per vertex.
package geom
