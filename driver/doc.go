// Package driver implements the Driver (spec.md §4.8): the single
// entrypoint that orchestrates Schema IR parsing, Normalization,
// optional Monomorphization, per-target Lowering → Syntax IR
// construction → Rendering, and the optional OpenAPI Emitter, returning
// an ordered list of (path, contents) artifacts plus every diagnostic collected
// along the way.
//
// Per-target work runs concurrently via golang.org/x/sync/errgroup
// (spec.md §5 explicitly permits this: lowering and rendering only read
// the immutable Semantic Schema, so targets produce independent
// outputs with no shared mutable state). Cancellation is cooperative: ctx
// is checked between phases, not inside them, matching spec.md §5's "no
// suspension points exist inside the core" — the core transformation
// itself never blocks, only the Driver's phase boundaries do.
//
// Every Compile call gets its own google/uuid correlation ID, carried on
// every zap.Logger line that call emits. This is strictly an observability
// aid: it never influences artifact bytes, preserving spec.md §8's "output
// bytes are a function of (Schema IR bytes, configuration)" invariant.
package driver
