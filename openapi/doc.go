// Package openapi implements the OpenAPI 3.1 Emitter (spec.md §4.7): it
// walks a Semantic Schema and produces a kin-openapi `openapi3.T`
// document, then a deterministic byte encoding of it.
//
// Enum representation maps to the same oneOf shapes documented in
// compat/doc.go and implemented in compat/project.go's
// taggedUnion/adjacentUnion/untaggedUnion/externalUnion — this package
// mirrors those choices rather than re-deriving them, since both
// packages answer the same underlying question ("what JSON shape does
// this Semantic enum produce") from the same Semantic Schema. Where
// compat projects to a restricted map[string]any profile for
// compatibility comparison, this package builds the full `openapi3.T`
// object graph kin-openapi validates and serializes, reusing
// `$ref`/`components.schemas` (compat intentionally never refs, see its
// doc comment) since a single OpenAPI document, unlike compat's two
// independent schemas, has one shared document to ref into.
//
// Byte determinism (spec.md §8, §6.4 "alphabetical within each object")
// is satisfied by a single mechanism: canonicaljson.Marshal (RFC 8785
// JCS) on the final `openapi3.T`, rather than a hand-rolled key sort
// layered on top of kin-openapi's own JSON marshaling.
package openapi
