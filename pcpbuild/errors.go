package pcpbuild

import "errors"

// Sentinel errors for arc evaluation. Each is wrapped into a
// CompositionError (with the offending site attached) before being
// accumulated into a Builder's Errors slice; see §7's "never returned as
// hard failures" policy.
var (
	// ErrArcCycle indicates AddArc's cycle check found the new site is an
	// ancestor or descendant, within the same layer stack, of a node
	// already on the path from the graph root (or an outer stack frame).
	ErrArcCycle = errors.New("pcpbuild: arc introduces a cycle")

	// ErrArcPermissionDenied indicates a newly inserted node's strongest
	// spec declared private permission; its subtree is marked inert.
	ErrArcPermissionDenied = errors.New("pcpbuild: arc permission denied")

	// ErrInvalidReferenceOffset indicates a reference or payload's layer
	// offset has a negative Scale, which would run the referenced
	// layer's timeline backwards.
	ErrInvalidReferenceOffset = errors.New("pcpbuild: invalid reference layer offset")

	// ErrInvalidAssetPath indicates a reference or payload's asset path
	// could not be resolved to an openable layer.
	ErrInvalidAssetPath = errors.New("pcpbuild: invalid asset path")

	// ErrInternalAssetPath indicates an internal reference (empty asset
	// path) was combined with a prim path that does not exist in the
	// referencing node's own layer stack.
	ErrInternalAssetPath = errors.New("pcpbuild: internal reference prim path not found")

	// ErrMutedAssetPath indicates the resolved asset path names a layer in
	// the caller's muted-layer set.
	ErrMutedAssetPath = errors.New("pcpbuild: asset path is muted")

	// ErrOpinionAtRelocationSource indicates a spec was found at a
	// relocation source path itself, which the "salted earth" policy
	// forbids. Specs below the source path are not checked.
	ErrOpinionAtRelocationSource = errors.New("pcpbuild: opinion authored at relocation source")

	// ErrUnresolvedPrimPath indicates a reference or payload's prim path
	// was empty and the target layer's defaultPrim metadata was also
	// empty (or absent). It is reported as soon as the reference or
	// payload is evaluated; it is not deferred to a later stage.
	ErrUnresolvedPrimPath = errors.New("pcpbuild: unresolved prim path")

	// ErrArcCapacityExceeded indicates the per-build arc count exceeded
	// MaxArcsPerBuild, a denial-of-service backstop against pathological
	// list-edit compositions; reported at most once per build.
	ErrArcCapacityExceeded = errors.New("pcpbuild: arc capacity exceeded")
)

// MaxArcsPerBuild bounds the number of arcs a single Builder may add,
// guarding against a runaway composition (e.g. a variant set whose
// fallback list never terminates) consuming unbounded memory. Each nested
// Builder of an ancestral recursion keeps its own count, so the bound
// applies per recursion level, not across a whole top-level Build.
const MaxArcsPerBuild = 1 << 20
