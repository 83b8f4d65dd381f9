package pcpgraph

import "github.com/arborcomp/primforge/mapexpr"

// ArcKind labels the composition operation that brought a node into the
// graph.
type ArcKind int

const (
	// ArcRoot marks the single node with no parent.
	ArcRoot ArcKind = iota
	// ArcReference is an authored or implied reference arc.
	ArcReference
	// ArcPayload is an authored or implied payload (deferred reference) arc.
	ArcPayload
	// ArcInherit is an authored or implied (class-following) inherit arc.
	ArcInherit
	// ArcVariant selects an alternative opinion branch.
	ArcVariant
	// ArcRelocate renames a subtree within a layer stack.
	ArcRelocate
	// ArcSpecialize is an authored or implied (class-following) specialize arc.
	ArcSpecialize
)

// String renders an ArcKind for diagnostics.
func (k ArcKind) String() string {
	switch k {
	case ArcRoot:
		return "Root"
	case ArcReference:
		return "Reference"
	case ArcPayload:
		return "Payload"
	case ArcInherit:
		return "Inherit"
	case ArcVariant:
		return "Variant"
	case ArcRelocate:
		return "Relocate"
	case ArcSpecialize:
		return "Specialize"
	default:
		return "Unknown"
	}
}

// strengthRank maps an ArcKind to its position in the total strength
// order of §4.3 point 1: Root < Reference = Payload < Inherit < Variant <
// Relocate < Specialize. Reference and Payload share a rank because
// neither is ever a sibling of the other at the same origin in practice,
// but the comparator must still treat them as equal-strength per spec.
func (k ArcKind) strengthRank() int {
	switch k {
	case ArcRoot:
		return 0
	case ArcReference, ArcPayload:
		return 1
	case ArcInherit:
		return 2
	case ArcVariant:
		return 3
	case ArcRelocate:
		return 4
	case ArcSpecialize:
		return 5
	default:
		return 6
	}
}

// CompareArcKindStrength returns -1/0/1 per the fixed arc-kind strength
// order, independent of any other sibling-ordering key.
func CompareArcKindStrength(a, b ArcKind) int {
	ar, br := a.strengthRank(), b.strengthRank()
	switch {
	case ar < br:
		return -1
	case ar > br:
		return 1
	default:
		return 0
	}
}

// IsSpecialize reports whether k is the specialize arc kind.
func (k ArcKind) IsSpecialize() bool { return k == ArcSpecialize }

// Arc is a labeled directed edge from a node to its parent.
type Arc struct {
	Kind ArcKind

	// Parent is the node this arc points to. Invalid for the root arc.
	Parent NodeIndex

	// Origin is the node from which this arc was implied; equals Parent
	// for authored arcs.
	Origin NodeIndex

	// MapToParent maps paths from this arc's source namespace to the
	// parent's namespace.
	MapToParent mapexpr.Expression

	// SiblingNumAtOrigin indexes this arc among sibling arcs at Origin;
	// lower is stronger.
	SiblingNumAtOrigin int

	// NamespaceDepth is the absolute namespace depth (excluding variant
	// selections) of the prim that introduced this arc.
	NamespaceDepth int
}
