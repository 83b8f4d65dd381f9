package pcpbuild

import "github.com/arborcomp/primforge/pcpgraph"

// evalImpliedClasses propagates srcChild, a freshly authored Inherit arc,
// to every other node of the graph that reaches srcChild's parent's own
// prim identity by a different path — e.g. a sibling reference arc's copy
// of the same prim. srcParent and srcChild itself are never destinations:
// srcChild's own mapToRootPath trivially equals srcParent's, so without
// this exclusion the scan would try to imply the arc back onto the node
// that already carries it. Inherit and Specialize nodes are never
// destinations either: a class arc maps the class onto the identity of
// the node that carries it, so the class node itself would otherwise be
// picked as a destination for its own arc. Each real destination gets an
// equivalent arc to the same site, whose map expression is srcChild's
// map-to-parent followed by the transfer function between the two
// contexts, plus a root identity (§4.4.2's Implied Classes).
func (b *Builder) evalImpliedClasses(srcChild pcpgraph.NodeRef) {
	b.implyClassesFrom(srcChild, srcChild.ParentNode())
}

func (b *Builder) implyClassesFrom(srcChild, srcParent pcpgraph.NodeRef) {
	srcParentRoot, ok := mapToRootPath(srcParent)
	if !ok {
		return
	}

	var destinations []pcpgraph.NodeRef
	srcParent.Graph.ForEachNodeStrongToWeak(func(dest pcpgraph.NodeRef) bool {
		if dest.Equals(srcParent) || dest.Equals(srcChild) {
			return true
		}
		if dest.ArcKind() == pcpgraph.ArcInherit || dest.ArcKind() == pcpgraph.ArcSpecialize {
			return true
		}
		destRoot, ok := mapToRootPath(dest)
		if !ok || !destRoot.Equals(srcParentRoot) {
			return true
		}
		destinations = append(destinations, dest)

		return true
	})

	for _, dest := range destinations {
		// transferFunc carries a path expressed in srcParent's namespace
		// into dest's namespace: apply srcParent's own map-to-root, then
		// undo dest's map-to-root.
		transferFunc := srcParent.MapToRoot().Compose(dest.MapToRoot().Inverse())
		// srcChild.MapToParent already maps the class target's namespace
		// into srcParent's namespace; composing transferFunc after it
		// carries the result the rest of the way into dest's namespace.
		mapExpr := srcChild.MapToParent().Compose(transferFunc).AddRootIdentity()

		_, _ = b.AddArc(dest, srcChild.Site(), mapExpr, srcChild.ArcKind(), srcChild.SiblingNumAtOrigin(), srcChild.NamespaceDepth(), AddArcOptions{
			DirectNodeContributesSpecs: false,
			IncludeAncestralOpinions:   false,
			Origin:                     srcChild,
		})
	}
}
