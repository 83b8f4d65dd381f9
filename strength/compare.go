package strength

import (
	"github.com/arborcomp/primforge/pcpgraph"
)

// CompareSiblings reports the strength relationship between two sibling
// nodes (common children of the same parent): -1 if a is stronger, 1 if b
// is stronger, 0 if no rule ranks one above the other (always the case
// when a and b are the same node, and also for non-siblings). Panics-free callers should only invoke this with true siblings;
// CompareSiblingsChecked returns ErrNotSiblings instead for defensive
// callers.
func CompareSiblings(a, b pcpgraph.NodeRef) int {
	result, err := CompareSiblingsChecked(a, b)
	if err != nil {
		return 0
	}

	return result
}

// CompareSiblingsChecked is CompareSiblings with an explicit error return
// for the not-siblings case, used by diagnostic assertions.
func CompareSiblingsChecked(a, b pcpgraph.NodeRef) (int, error) {
	if !a.ParentNode().Equals(b.ParentNode()) {
		return 0, ErrNotSiblings
	}
	if a.Equals(b) {
		return 0, nil
	}

	if rc := pcpgraph.CompareArcKindStrength(a.ArcKind(), b.ArcKind()); rc != 0 {
		return rc, nil
	}

	if a.ArcKind().IsSpecialize() {
		return compareSpecializeSiblings(a, b), nil
	}

	return compareOrdinarySiblings(a, b), nil
}

// compareOrdinarySiblings handles every non-specialize arc kind: deeper
// namespace wins, then origin strength, then sibling arc number.
func compareOrdinarySiblings(a, b pcpgraph.NodeRef) int {
	if a.NamespaceDepth() > b.NamespaceDepth() {
		return -1
	}
	if a.NamespaceDepth() < b.NamespaceDepth() {
		return 1
	}

	aOrigin, bOrigin := a.OriginNode(), b.OriginNode()
	if !aOrigin.Equals(bOrigin) {
		if result := originIsStronger(a.RootNode(), aOrigin, bOrigin); result != 0 {
			return result
		}
	}

	return compareSiblingArcNumber(a, b)
}

func compareSiblingArcNumber(a, b pcpgraph.NodeRef) int {
	if a.SiblingNumAtOrigin() < b.SiblingNumAtOrigin() {
		return -1
	}
	if a.SiblingNumAtOrigin() > b.SiblingNumAtOrigin() {
		return 1
	}

	return 0
}

// compareSpecializeSiblings reproduces the specializes-arc special case:
// because specialize nodes get propagated to the root of the graph, the
// usual "deeper namespace wins" rule only applies when the two arcs'
// origin roots are not nested within one another.
func compareSpecializeSiblings(a, b pcpgraph.NodeRef) int {
	aRoot, aDist := originRootNode(a)
	bRoot, bDist := originRootNode(b)

	if !originsAreNestedArcs(aRoot, bRoot) {
		if a.NamespaceDepth() > b.NamespaceDepth() {
			return -1
		}
		if a.NamespaceDepth() < b.NamespaceDepth() {
			return 1
		}
	}

	aOrigin, bOrigin := a.OriginNode(), b.OriginNode()
	aAuthored := aOrigin.Equals(a.ParentNode())
	bAuthored := bOrigin.Equals(b.ParentNode())

	if aOrigin.Equals(bOrigin) {
		if !aAuthored && !bAuthored {
			return compareImpliedVsPropagatedOptional(a, aOrigin, b, bOrigin)
		}

		return compareSiblingArcNumber(a, b)
	}

	if !aRoot.Equals(bRoot) {
		if result := originIsStronger(a.RootNode(), aRoot, bRoot); result != 0 {
			return result
		}

		return 0
	}

	aDepth, bDepth := 0, 0
	if !aAuthored {
		aDepth = namespaceDepthForClassHierarchy(aOrigin)
	}
	if !bAuthored {
		bDepth = namespaceDepthForClassHierarchy(bOrigin)
	}
	if aDepth < bDepth {
		return -1
	}
	if bDepth < aDepth {
		return 1
	}

	if aDist > bDist {
		return -1
	}
	if bDist > aDist {
		return 1
	}

	if a.LayerStack() == a.RootNode().LayerStack() &&
		b.LayerStack() == b.RootNode().LayerStack() &&
		!aAuthored && !bAuthored {
		if result := compareImpliedVsPropagatedOptional(a, aOrigin, b, bOrigin); result != 0 {
			return result
		}
	}

	if result := originIsStronger(a.RootNode(), aOrigin, bOrigin); result != 0 {
		return result
	}

	return 0
}

// compareImpliedVsPropagatedOptional distinguishes, for two specialize
// nodes sharing an origin and both implied (neither authored directly),
// the node implied straight to the root (stronger, its site differs from
// its origin's site) from the node merely propagated there for ordering
// purposes (its site equals its origin's site). Returns 0 if neither
// pattern applies.
func compareImpliedVsPropagatedOptional(a pcpgraph.NodeRef, aOrigin pcpgraph.NodeRef, b pcpgraph.NodeRef, bOrigin pcpgraph.NodeRef) int {
	aImplied := !a.Site().Equals(aOrigin.Site())
	bImplied := !b.Site().Equals(bOrigin.Site())
	if aImplied && !bImplied {
		return -1
	}
	if !aImplied && bImplied {
		return 1
	}

	return 0
}

// originRootNode walks the chain of origins for node and returns the
// start of that chain, along with the number of origin hops taken.
func originRootNode(n pcpgraph.NodeRef) (pcpgraph.NodeRef, int) {
	dist := 0
	cur := n
	for !cur.OriginNode().Equals(cur.ParentNode()) {
		cur = cur.OriginNode()
		dist++
	}

	return cur, dist
}

// originsAreNestedArcs reports whether a is an ancestor of b, or b an
// ancestor of a, walking parent links.
func originsAreNestedArcs(a, b pcpgraph.NodeRef) bool {
	for n := a; n.IsValid(); n = n.ParentNode() {
		if n.Equals(b) {
			return true
		}
	}
	for n := b; n.IsValid(); n = n.ParentNode() {
		if n.Equals(a) {
			return true
		}
	}

	return false
}

// namespaceDepthForClassHierarchy returns the namespace depth of the node
// that inherits or specializes the class hierarchy n belongs to: the
// instance node found by walking up n's origin chain past any inherit,
// specialize, or relocate arcs to the node that introduced the class
// reference.
func namespaceDepthForClassHierarchy(n pcpgraph.NodeRef) int {
	instance := n
	for {
		origin := instance.OriginNode()
		if origin.Equals(instance.ParentNode()) {
			break
		}
		k := instance.ArcKind()
		if k != pcpgraph.ArcInherit && k != pcpgraph.ArcSpecialize && k != pcpgraph.ArcRelocate {
			break
		}
		instance = origin
	}
	for instance.ArcKind() == pcpgraph.ArcRelocate {
		instance = instance.ParentNode()
	}

	return instance.NamespaceDepth()
}

// originIsStronger performs a strength-order (pre-order, strongest-first)
// traversal of root's whole subtree looking for a or b, and reports which
// is found first: -1 if a, 1 if b, 0 if neither appears under root.
func originIsStronger(root, a, b pcpgraph.NodeRef) int {
	if root.Equals(a) {
		return -1
	}
	if root.Equals(b) {
		return 1
	}
	for c := root.FirstChild(); c.IsValid(); c = c.NextSibling() {
		if result := originIsStronger(c, a, b); result != 0 {
			return result
		}
	}

	return 0
}

// CompareNodes reports the strength relationship between any two nodes of
// the same graph: -1 if a is stronger, 1 if b is stronger, 0 if equal.
func CompareNodes(a, b pcpgraph.NodeRef) int {
	result, err := CompareNodesChecked(a, b)
	if err != nil {
		return 0
	}

	return result
}

// CompareNodesChecked is CompareNodes with an explicit error return for
// the not-same-graph case.
func CompareNodesChecked(a, b pcpgraph.NodeRef) (int, error) {
	if !a.RootNode().Equals(b.RootNode()) {
		return 0, ErrNotSameGraph
	}
	if a.Equals(b) {
		return 0, nil
	}

	aChain := collectToRoot(a)
	bChain := collectToRoot(b)

	return compareChains(a, aChain, b, bChain), nil
}

func collectToRoot(n pcpgraph.NodeRef) []pcpgraph.NodeRef {
	var out []pcpgraph.NodeRef
	for cur := n; cur.IsValid(); cur = cur.ParentNode() {
		out = append(out, cur)
	}

	return out
}

// compareChains finds the lowest common parent along two root-ward
// chains and compares the diverging pair of siblings beneath it.
func compareChains(a pcpgraph.NodeRef, aChain []pcpgraph.NodeRef, b pcpgraph.NodeRef, bChain []pcpgraph.NodeRef) int {
	if len(bChain) < len(aChain) {
		return -compareChains(b, bChain, a, aChain)
	}

	// Walk both chains from the root end (last element) inward, looking
	// for the first index where they diverge.
	ai, bi := len(aChain)-1, len(bChain)-1
	for ai >= 0 {
		if !aChain[ai].Equals(bChain[bi]) {
			break
		}
		ai--
		bi--
	}

	if ai < 0 {
		// aChain is a subset of bChain: a is an ancestor of b, so a wins.
		return -1
	}

	return CompareSiblings(aChain[ai], bChain[bi])
}
