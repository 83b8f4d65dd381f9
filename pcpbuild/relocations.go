package pcpbuild

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pcpgraph"
)

// evalNodeRelocations adds a Relocate arc from node's relocation source to
// node itself, when node's path is a relocation target (§4.4.2's
// Relocations evaluator). An authored opinion found directly at the
// source path, rather than composed through the relocation, is an error:
// ErrOpinionAtRelocationSource.
func (b *Builder) evalNodeRelocations(node pcpgraph.NodeRef) {
	stack := node.LayerStack()
	if stack == nil || !stack.HasRelocates() {
		return
	}
	sourcePath, ok := stack.RelocatesTargetToSource()[node.Path().String()]
	if !ok {
		return
	}

	sourceSite := layer.StackSite{Stack: stack, Path: sourcePath}
	if composeSiteHasPrimSpecs(sourceSite) {
		b.reportError(ErrOpinionAtRelocationSource, sourceSite)
	}

	mapExpr := mapexpr.NewConstant([]mapexpr.PathMapEntry{
		{Source: sourcePath, Target: node.Path()},
	}, mapexpr.IdentityOffset).AddRootIdentity()

	_, _ = b.AddArc(node, sourceSite, mapExpr, pcpgraph.ArcRelocate, 0, node.Path().NamespaceDepth(), AddArcOptions{
		DirectNodeContributesSpecs: true,
		IncludeAncestralOpinions:   true,
	})
}

// evalImpliedRelocations re-expresses a relocation one level further from
// the node that introduced it, so a relocated subtree's own descendants
// keep tracking their renamed ancestor as the recursion descends into
// them (§4.4.2's Implied Relocations, a one-step grandparent propagation
// rather than the full transitive closure a deeper rename chain would
// need).
func (b *Builder) evalImpliedRelocations(node pcpgraph.NodeRef) {
	parent := node.ParentNode()
	if !parent.IsValid() || parent.ArcKind() != pcpgraph.ArcRelocate {
		return
	}
	grandparent := parent.ParentNode()
	if !grandparent.IsValid() {
		return
	}

	mapExpr := node.MapToParent().Compose(parent.MapToParent())

	_, _ = b.AddArc(grandparent, node.Site(), mapExpr, pcpgraph.ArcRelocate, node.SiblingNumAtOrigin(), node.NamespaceDepth(), AddArcOptions{
		DirectNodeContributesSpecs: false,
		IncludeAncestralOpinions:   false,
		Origin:                     node,
	})
}
