package pcpbuild

import "github.com/arborcomp/primforge/pcpgraph"

// evalImpliedSpecializes propagates a Specialize arc toward the graph
// root, so specializes opinions rank by their propagated position rather
// than their authored namespace depth (§4.4.2's Implied Specializes,
// "the single most intricate pass" of the composition algorithm).
//
// This implementation covers two of the original three phases: direct
// propagation to root when a Specialize arc is authored, and
// re-propagation when a later arc is added beneath an already-propagated
// specializes subtree (triggered from AddArc's post-insert check rather
// than from a third dedicated phase here). Re-propagation that would
// require walking back to a propagated node's own origin subtree and
// rebuilding its descendants from scratch is not implemented; see
// DESIGN.md.
func (b *Builder) evalImpliedSpecializes(node pcpgraph.NodeRef) {
	b.propagateSpecializeToRoot(node)
}

// propagateSpecializeToRoot adds a Specialize arc directly under the
// graph root equivalent to the one that introduced specNode, so the
// opinions specNode's subtree contributes are visible at root-level
// specializes strength rather than the (possibly much deeper) namespace
// depth they were authored at.
func (b *Builder) propagateSpecializeToRoot(specNode pcpgraph.NodeRef) {
	parent := specNode.ParentNode()
	if !parent.IsValid() {
		return
	}

	root := specNode.Graph.Root()
	if parent.Equals(root) {
		// Already propagated as far as it can go.
		return
	}

	mapExpr := specNode.MapToParent().Compose(parent.MapToRoot()).AddRootIdentity()

	propagated, err := b.AddArc(root, specNode.Site(), mapExpr, pcpgraph.ArcSpecialize, specNode.SiblingNumAtOrigin(), specNode.NamespaceDepth(), AddArcOptions{
		DirectNodeContributesSpecs: true,
		IncludeAncestralOpinions:   false,
		Origin:                     specNode,
	})
	if err != nil || !propagated.IsValid() {
		return
	}

	// specNode's own position is no longer where this subtree's opinions
	// are collected from: the node just added at root strength now
	// stands in for it, so specNode itself must stop contributing or
	// every property would be composed twice (and in the wrong order,
	// since a depth-first strong-to-weak walk would still visit
	// specNode's original, deeply nested position before reaching its
	// root-level sibling).
	specNode.SetHasSpecs(false)
}
