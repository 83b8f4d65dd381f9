package pcpbuild

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/pcpgraph"
)

// StackFrame links one recursive Build invocation back to the AddArc call
// that required it (an arc whose IncludeAncestralOpinions option is set,
// §4.4.1 step 4). Cycle detection and variant-selection resolution walk
// PreviousFrame to see across the recursion boundary, per §4.4.3: without
// this linkage a recursive ancestral build would look cycle-free even
// when, combined with its caller's graph, it is not.
type StackFrame struct {
	// RequestedSite is the site the nested Build call was asked to index.
	RequestedSite layer.StackSite

	// ParentNode is the node, in the outer graph, that the nested build's
	// result will be spliced under via InsertChildSubgraph.
	ParentNode pcpgraph.NodeRef

	// ArcToParent is the arc that will connect the nested subgraph's root
	// to ParentNode.
	ArcToParent pcpgraph.Arc

	// PreviousFrame is the next frame out, or nil at the outermost call.
	PreviousFrame *StackFrame

	// SkipDuplicateNodes carries the duplicate-check option across the
	// recursion boundary so a nested build applies the same policy as its
	// caller.
	SkipDuplicateNodes bool
}

// ancestorSites yields every (layer stack, path) pair reachable by walking
// up from node to the graph root, then continuing across PreviousFrame
// linkage into outer graphs. Used by the cycle and duplicate checks.
func (f *StackFrame) ancestorSites(node pcpgraph.NodeRef, visit func(layer.StackSite) bool) {
	for n := node; n.IsValid(); n = n.ParentNode() {
		if !visit(n.Site()) {
			return
		}
	}
	if f == nil {
		return
	}
	f.PreviousFrame.ancestorSites(f.ParentNode, visit)
}
