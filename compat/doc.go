// Package compat implements the Schema Compatibility Checker: given two
// compilations of the same function (typically successive reflections of an
// evolving interface), it reports whether the newer compilation is a
// compatible evolution of the older one.
//
// The comparison is not a general-purpose JSON Schema subsumption check.
// Each Semantic Schema type is first projected to a JSON-Schema-shaped
// map[string]any (project.go) restricted to a fixed profile of keywords —
// the same restricted profile the normalizer in this package accepts
// (normalize.go's inScopeKeywords) — and the compatibility rules (rules.go,
// allof.go) only ever see that profile. Anything wider fails closed with
// OutsideProfileError; this package is intentionally not a validator for
// runtime payloads (spec.md's Non-goals: "full JSON Schema validation of
// runtime payloads" is out of scope, here and everywhere else).
//
// Two directions are distinguished throughout, matching how the same type
// plays different roles depending which side of the wire it sits on:
//   - InputCompatible(old, new): can a caller built against old's input
//     shape still construct a request that satisfies new? (new may only
//     relax what old required.)
//   - OutputCompatible(old, new): can a caller built against old's output
//     shape still parse a response shaped by new? (new may only narrow what
//     old promised.)
//
// Projection approximations, documented where they depart from full JSON
// Schema fidelity:
//   - Tuple (fixed-arity heterogeneous array) is widened to a plain array
//     schema with unconstrained items, since positional item typing
//     (prefixItems) is outside the accepted keyword profile.
//   - A cyclic back-reference (a type reachable from itself through a
//     non-indirected chain cannot occur post-normalization, but an
//     indirected cycle such as Option<Self> can) projects its repeated
//     occurrence as an unconstrained schema ({}) rather than expanding
//     forever.
//   - Untagged enum variants project as a bare oneOf of each variant's own
//     field shape, mirroring the OpenAPI Emitter's documented choice for the
//     same representation (openapi/doc.go).
package compat
