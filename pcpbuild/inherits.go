package pcpbuild

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpgraph"
)

// evalNodeInherits composes node's authored inherits list and adds one
// class arc per target (§4.4.2's Inherits evaluator).
func (b *Builder) evalNodeInherits(node pcpgraph.NodeRef) {
	b.evalClassArcs(node, FieldInherits, pcpgraph.ArcInherit)
}

// evalNodeSpecializes is evalNodeInherits's counterpart for specializes,
// sharing the same class-arc machinery; the strength ordering comes from
// strength.CompareSiblings, and evalImpliedSpecializes both relocates a
// specialize arc's strength position to root and, once it does,
// suppresses the authored node's own contribution in favor of the
// propagated copy.
func (b *Builder) evalNodeSpecializes(node pcpgraph.NodeRef) {
	b.evalClassArcs(node, FieldSpecializes, pcpgraph.ArcSpecialize)
}

func (b *Builder) evalClassArcs(node pcpgraph.NodeRef, field string, kind pcpgraph.ArcKind) {
	ops, _ := getClassListOps(node.Site(), field)
	for i, op := range ops {
		b.addClassArc(node, op, kind, i)
	}
}

// addClassArc validates the class target and adds an arc whose map
// expression identifies the target's namespace to the inheriting node's
// namespace, with a root identity so references into the class still
// resolve (§4.4.2: "an identity-plus-{target→source} map expression").
//
// IncludeAncestralOpinions is true only when the target sits below a
// root prim (a "subroot" class, namespace depth above 1): a root-level
// class's own ancestral
// opinions, if any, are already covered because every node's own
// Build call already recurses over its own ancestors.
func (b *Builder) addClassArc(node pcpgraph.NodeRef, op layer.ClassListOp, kind pcpgraph.ArcKind, siblingNum int) {
	if op.PrimPath.IsRoot() || op.PrimPath.HasVariantSelection() {
		b.reportError(pathkit.ErrInvalidPrimPath, node.Site())
		return
	}

	mapExpr := mapexpr.NewConstant([]mapexpr.PathMapEntry{
		{Source: op.PrimPath, Target: node.Path()},
	}, mapexpr.IdentityOffset).AddRootIdentity()

	subroot := op.PrimPath.NamespaceDepth() > 1

	sourceSite := layer.StackSite{Stack: node.LayerStack(), Path: op.PrimPath}

	_, _ = b.AddArc(node, sourceSite, mapExpr, kind, siblingNum, node.Path().NamespaceDepth(), AddArcOptions{
		DirectNodeContributesSpecs: true,
		IncludeAncestralOpinions:   subroot,
	})
}
