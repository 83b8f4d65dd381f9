// Package primforge builds prim indexes: given a namespace path and a
// root layer stack, it composes every reference, payload, inherit,
// specialize, variant, and relocation arc reachable from that path into
// a strength-ordered graph of opinion sources, then exposes that graph's
// query surface (pcpindex.PrimIndex) for callers to ask which layers
// contribute to the composed prim and in what order.
//
// BuildPrimIndex is the only entry point; it wires pcpbuild's
// task-driven builder and pcpindex's finalization/query pass together
// per the Inputs/Outputs contract. Layers and layer stacks are supplied
// by the caller (parsing, asset resolution, and index caching across
// requests are the caller's concern, not this package's); see the
// layer package for the interfaces a caller's implementation must
// satisfy.
package primforge
