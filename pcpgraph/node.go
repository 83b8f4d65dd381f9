package pcpgraph

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pathkit"
)

// NodeIndex addresses a node within a Graph's pool. It is a stable index,
// not a pointer: indices survive pool copy-on-write cloning.
type NodeIndex int32

// InvalidNodeIndex is the sentinel "no such node" value — the one index
// value MaxNodes's finite width reserves, per §4.2.
const InvalidNodeIndex NodeIndex = -1

// MaxNodes is the largest node pool size this engine supports; beyond it
// InsertChild reports ErrIndexCapacityExceeded.
const MaxNodes = 1<<31 - 2

// MaxNamespaceDepth bounds Arc.NamespaceDepth's finite-width storage.
const MaxNamespaceDepth = 1<<15 - 1

// Permission is the public/private visibility of a node's opinions.
type Permission int

const (
	// PermissionPublic opinions are visible to all stronger nodes.
	PermissionPublic Permission = iota
	// PermissionPrivate opinions may only be consumed by their own subtree.
	PermissionPrivate
)

// sharedNodeFields is the part of a node's state that is safe to share,
// copy-on-write, across Graph clones. mapToRoot is recomputed when a
// subgraph is spliced under a new parent, and SetPermission,
// SetHasSymmetry, SetSpecContributionRestrictedDepth and Reindex write to
// it after insertion, each first unsharing the pool from any clone.
type sharedNodeFields struct {
	arc         Arc
	layerStack  layer.Stack
	mapToRoot   mapexpr.Expression
	permission  Permission
	hasSymmetry bool

	specContributionRestrictedDepth int

	firstChild   NodeIndex
	lastChild    NodeIndex
	nextSibling  NodeIndex
	prevSibling  NodeIndex
	parentIndex  NodeIndex
	strengthOrd  int // assigned by Finalize's layout pass
}

// unsharedNodeFields is the part of a node's state that is deep-copied on
// every Graph clone and never shared, because it mutates independently
// per-graph as indexing proceeds (site path descends a level per
// AppendChildNameToAllSites call, flags are set by this graph's own
// Builder pass).
type unsharedNodeFields struct {
	sitePath        pathkit.Path
	hasSpecs        bool
	inert           bool
	culled          bool
	permissionDenied bool
	isDueToAncestor bool
}

// NodeRef is a lightweight, read-mostly accessor bound to one node of one
// Graph. It is a value type — cheap to pass, safe to compare with ==.
type NodeRef struct {
	Graph *Graph
	Index NodeIndex
}

// IsValid reports whether r addresses a real node.
func (r NodeRef) IsValid() bool {
	return r.Graph != nil && r.Index != InvalidNodeIndex && int(r.Index) < r.Graph.NodeCount()
}

// Equals reports whether r and other address the same node of the same
// Graph.
func (r NodeRef) Equals(other NodeRef) bool {
	return r.Graph == other.Graph && r.Index == other.Index
}

func (r NodeRef) shared() *sharedNodeFields {
	return &r.Graph.pool.nodes[r.Index]
}

func (r NodeRef) unshared() *unsharedNodeFields {
	return &r.Graph.unshared[r.Index]
}

// ArcKind returns the kind of arc that brought this node in.
func (r NodeRef) ArcKind() ArcKind { return r.shared().arc.Kind }

// Arc returns the full arc record for this node.
func (r NodeRef) Arc() Arc { return r.shared().arc }

// ParentNode returns the node's parent, or an invalid NodeRef for the root.
func (r NodeRef) ParentNode() NodeRef {
	return NodeRef{Graph: r.Graph, Index: r.shared().parentIndex}
}

// OriginNode returns the node this arc was implied from (equals
// ParentNode for authored arcs).
func (r NodeRef) OriginNode() NodeRef {
	return NodeRef{Graph: r.Graph, Index: r.shared().arc.Origin}
}

// RootNode returns the graph's single root node.
func (r NodeRef) RootNode() NodeRef {
	return NodeRef{Graph: r.Graph, Index: r.Graph.rootIndex}
}

// NamespaceDepth returns the introducing arc's namespace depth.
func (r NodeRef) NamespaceDepth() int { return r.shared().arc.NamespaceDepth }

// SiblingNumAtOrigin returns the arc's sibling ordinal at its origin.
func (r NodeRef) SiblingNumAtOrigin() int { return r.shared().arc.SiblingNumAtOrigin }

// MapToParent returns the arc's source-to-parent map expression.
func (r NodeRef) MapToParent() mapexpr.Expression { return r.shared().arc.MapToParent }

// MapToRoot returns the cached source-to-root map expression.
func (r NodeRef) MapToRoot() mapexpr.Expression { return r.shared().mapToRoot }

// LayerStack returns the layer stack this node targets.
func (r NodeRef) LayerStack() layer.Stack { return r.shared().layerStack }

// Path returns the node's current site path.
func (r NodeRef) Path() pathkit.Path { return r.unshared().sitePath }

// Site returns the node's full (layer stack, path) site.
func (r NodeRef) Site() layer.StackSite {
	return layer.StackSite{Stack: r.LayerStack(), Path: r.Path()}
}

// Permission returns the node's visibility.
func (r NodeRef) Permission() Permission { return r.shared().permission }

// HasSymmetry reports whether the node's strongest spec declared symmetry.
func (r NodeRef) HasSymmetry() bool { return r.shared().hasSymmetry }

// SetPermission sets the node's visibility, read from its strongest spec
// once the node's site is known (the root node is always public; a later
// caller may narrow it after insertion).
func (r NodeRef) SetPermission(p Permission) {
	r.Graph.ensureUnsharedPool()
	r.shared().permission = p
}

// SetHasSymmetry sets whether the node's strongest spec declared symmetry.
func (r NodeRef) SetHasSymmetry(v bool) {
	r.Graph.ensureUnsharedPool()
	r.shared().hasSymmetry = v
}

// HasSpecs reports whether this node's site carries any opinions.
func (r NodeRef) HasSpecs() bool { return r.unshared().hasSpecs }

// SetHasSpecs sets the has-specs bit.
func (r NodeRef) SetHasSpecs(v bool) { r.Graph.ensureUnsharedPool(); r.unshared().hasSpecs = v }

// Inert reports whether the node is present for dependency tracking only.
func (r NodeRef) Inert() bool { return r.unshared().inert }

// SetInert sets this node's inert bit; its descendants are not changed.
func (r NodeRef) SetInert(v bool) { r.Graph.ensureUnsharedPool(); r.unshared().inert = v }

// Culled reports the node's culled bit.
func (r NodeRef) Culled() bool { return r.unshared().culled }

// SetCulled sets the node's culled bit.
func (r NodeRef) SetCulled(v bool) { r.Graph.ensureUnsharedPool(); r.unshared().culled = v }

// PermissionDenied reports whether a stronger node tried to contribute
// opinions across a private boundary.
func (r NodeRef) PermissionDenied() bool { return r.unshared().permissionDenied }

// SetPermissionDenied sets the permission-violation bit.
func (r NodeRef) SetPermissionDenied(v bool) {
	r.Graph.ensureUnsharedPool()
	r.unshared().permissionDenied = v
}

// IsDueToAncestor reports whether this node was copied in from the
// ancestral subgraph rather than introduced at this path.
func (r NodeRef) IsDueToAncestor() bool { return r.unshared().isDueToAncestor }

// SetIsDueToAncestor sets the ancestral-origin bit.
func (r NodeRef) SetIsDueToAncestor(v bool) {
	r.Graph.ensureUnsharedPool()
	r.unshared().isDueToAncestor = v
}

// SpecContributionRestrictedDepth returns the namespace depth at/below
// which this node may no longer contribute opinions (0 = unrestricted).
func (r NodeRef) SpecContributionRestrictedDepth() int {
	return r.shared().specContributionRestrictedDepth
}

// SetSpecContributionRestrictedDepth sets the restriction depth.
func (r NodeRef) SetSpecContributionRestrictedDepth(d int) {
	r.Graph.ensureUnsharedPool()
	r.shared().specContributionRestrictedDepth = d
}

// StrengthOrder returns the node's position assigned by the last
// Graph.Reindex call, or 0 if Reindex has never run.
func (r NodeRef) StrengthOrder() int { return r.shared().strengthOrd }

// CanContributeSpecsAt reports whether, given
// SpecContributionRestrictedDepth, this node may contribute an opinion at
// a path with the given namespace depth.
func (r NodeRef) CanContributeSpecsAt(depth int) bool {
	d := r.SpecContributionRestrictedDepth()

	return d == 0 || depth < d
}

// CanContributeSpecs reports whether this node may contribute an opinion
// at its own current site, given any restriction a permission-enforcement
// pass has placed on it.
func (r NodeRef) CanContributeSpecs() bool {
	return r.CanContributeSpecsAt(r.Path().NamespaceDepth())
}

// DepthBelowIntroduction returns how many namespace levels this node's
// current path sits below the depth at which its arc was introduced: zero
// at the arc's own introduction point, greater at a descendant reached by
// appending child names to an already-composed ancestral subgraph
// (Graph.AppendChildNameToAllSites). An introduction-point node (depth
// zero) is never culled: it is the node that makes the arc discoverable
// at all.
func (r NodeRef) DepthBelowIntroduction() int {
	return r.Path().NamespaceDepth() - r.NamespaceDepth()
}

// FirstChild returns the strongest child, or an invalid NodeRef if none.
func (r NodeRef) FirstChild() NodeRef {
	return NodeRef{Graph: r.Graph, Index: r.shared().firstChild}
}

// LastChild returns the weakest child, or an invalid NodeRef if none.
func (r NodeRef) LastChild() NodeRef {
	return NodeRef{Graph: r.Graph, Index: r.shared().lastChild}
}

// NextSibling returns the next-weaker sibling, or invalid if r is weakest.
func (r NodeRef) NextSibling() NodeRef {
	return NodeRef{Graph: r.Graph, Index: r.shared().nextSibling}
}

// PrevSibling returns the next-stronger sibling, or invalid if r is strongest.
func (r NodeRef) PrevSibling() NodeRef {
	return NodeRef{Graph: r.Graph, Index: r.shared().prevSibling}
}

// Children returns r's children, strongest first.
func (r NodeRef) Children() []NodeRef {
	var out []NodeRef
	for c := r.FirstChild(); c.IsValid(); c = c.NextSibling() {
		out = append(out, c)
	}

	return out
}
