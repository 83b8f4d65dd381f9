package pcpindex

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/pcpgraph"
)

// cullGraph marks every node that contributes no observable opinion as
// culled (§4.5's "Culling"). Specializes hierarchies are handled first,
// weakest-to-strongest among the graph root's own specialize children,
// because those nodes are propagated copies of an origin subtree that the
// general pass below never descends into (it would double-process the
// specializes structure otherwise); the propagated copy's computed culled
// bit is copied onto its origin before the general pass runs over the
// rest of the graph.
func cullGraph(root pcpgraph.NodeRef) {
	rootSite := root.Site()

	var specializeChildren []pcpgraph.NodeRef
	for c := root.FirstChild(); c.IsValid(); c = c.NextSibling() {
		if c.ArcKind() == pcpgraph.ArcSpecialize {
			specializeChildren = append(specializeChildren, c)
		}
	}
	for i := len(specializeChildren) - 1; i >= 0; i-- {
		cullSubtreeFully(specializeChildren[i], root, rootSite)
		copyCulledToOrigin(specializeChildren[i])
	}

	cullSubtreeSkippingSpecializes(root, root, rootSite)
}

// cullSubtreeFully culls node's subtree bottom-up with no exemption for
// nested specializes children, used only for the specializes-hierarchy
// first pass above (which exists precisely to compute that structure once
// and copy it elsewhere, rather than skip it).
func cullSubtreeFully(node, root pcpgraph.NodeRef, rootSite layer.StackSite) {
	for c := node.FirstChild(); c.IsValid(); c = c.NextSibling() {
		cullSubtreeFully(c, root, rootSite)
	}
	if nodeCanBeCulled(node, root, rootSite) {
		node.SetCulled(true)
	}
}

// copyCulledToOrigin walks node's subtree and, for each node whose origin
// differs from itself, copies the already-computed culled bit onto that
// origin node. The origin usually lives outside this subtree entirely (it
// is the authored arc this one was implied or propagated from).
func copyCulledToOrigin(node pcpgraph.NodeRef) {
	origin := node.OriginNode()
	if origin.IsValid() && !origin.Equals(node) {
		origin.SetCulled(node.Culled())
	}
	for c := node.FirstChild(); c.IsValid(); c = c.NextSibling() {
		copyCulledToOrigin(c)
	}
}

// cullSubtreeSkippingSpecializes is the general culling pass: bottom-up,
// but it does not recurse into a specializes-arc child, since that
// child's culled bit (and its whole subtree's) was already decided by the
// first pass in cullGraph.
func cullSubtreeSkippingSpecializes(node, root pcpgraph.NodeRef, rootSite layer.StackSite) {
	for c := node.FirstChild(); c.IsValid(); c = c.NextSibling() {
		if c.ArcKind() == pcpgraph.ArcSpecialize {
			continue
		}
		cullSubtreeSkippingSpecializes(c, root, rootSite)
	}
	if node.Culled() {
		return
	}
	if nodeCanBeCulled(node, root, rootSite) {
		node.SetCulled(true)
	}
}

// nodeCanBeCulled reports whether node has no observable opinion and
// carries none of the exemptions that keep an otherwise-opinion-free node
// around: the graph root itself, an arc's own introduction point
// (DepthBelowIntroduction == 0), a node with symmetry, a local inherit
// node whose layer stack is the index's own root layer stack, or any node
// with an un-culled child.
func nodeCanBeCulled(node, root pcpgraph.NodeRef, rootSite layer.StackSite) bool {
	if node.Culled() {
		return true
	}
	if node.Equals(root) {
		return false
	}
	if node.DepthBelowIntroduction() == 0 {
		return false
	}
	if node.HasSymmetry() {
		return false
	}
	if node.ArcKind() == pcpgraph.ArcInherit && node.LayerStack() == rootSite.Stack {
		return false
	}
	for c := node.FirstChild(); c.IsValid(); c = c.NextSibling() {
		if !c.Culled() {
			return false
		}
	}

	return !(node.HasSpecs() && node.CanContributeSpecs())
}
