package pcpbuild

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpgraph"
)

// evalNodeReferences composes node's authored references and adds one arc
// per entry, strongest-authored first (§4.4.2's References evaluator).
func (b *Builder) evalNodeReferences(node pcpgraph.NodeRef) {
	ops, _ := getReferenceListOps(node.Site(), FieldReferences)
	for i, op := range ops {
		b.addReferenceOrPayloadArc(node, op, pcpgraph.ArcReference, i)
	}
}

// evalNodePayloads composes node's authored payloads, honoring
// Options.IncludedPayloads / IncludePayloadPredicate to decide whether
// each is actually included (§4.4.2's Payloads evaluator, "deferred
// reference with an inclusion gate").
func (b *Builder) evalNodePayloads(node pcpgraph.NodeRef) {
	ops, found := getReferenceListOps(node.Site(), FieldPayloads)
	if !found {
		return
	}
	b.HasPayloads = true

	for i, op := range ops {
		included, state := b.payloadIncluded(node.Path())
		b.PayloadState = state
		if !included {
			continue
		}
		b.addReferenceOrPayloadArc(node, op, pcpgraph.ArcPayload, i)
	}
}

// payloadIncluded decides whether a payload at path should be composed,
// per Options.IncludedPayloads (checked first) and then
// IncludePayloadPredicate.
func (b *Builder) payloadIncluded(path pathkit.Path) (bool, PayloadState) {
	if b.opts.IncludedPayloads != nil {
		if b.opts.IncludedPayloads.contains(path) {
			return true, IncludedByIncludeSet
		}
		return false, ExcludedByIncludeSet
	}
	if b.opts.IncludePayloadPredicate != nil {
		if b.opts.IncludePayloadPredicate(path) {
			return true, IncludedByPredicate
		}
		return false, ExcludedByPredicate
	}

	return true, NoPayload
}

// addReferenceOrPayloadArc resolves one reference/payload list-op to a
// target site and calls AddArc, handling both internal references
// (AssetPath empty, same layer stack) and external ones (via
// Options.ResolveAssetStack).
func (b *Builder) addReferenceOrPayloadArc(node pcpgraph.NodeRef, op layer.ReferenceListOp, kind pcpgraph.ArcKind, siblingNum int) {
	// A zero Scale means the list-op left Offset unset; treat it as the
	// identity scale rather than a malformed offset. A negative Scale
	// would make the referenced layer's timeline run backwards, which
	// this engine rejects outright.
	if op.Offset.Scale < 0 {
		b.reportError(ErrInvalidReferenceOffset, node.Site())
		return
	}
	if op.Offset.Scale == 0 {
		op.Offset.Scale = 1
	}

	var targetStack layer.Stack
	if op.AssetPath == "" {
		targetStack = node.LayerStack()
	} else {
		if b.opts.MutedLayerIdentifiers[op.AssetPath] {
			b.reportError(ErrMutedAssetPath, node.Site())
			return
		}
		if b.opts.ResolveAssetStack == nil {
			b.reportError(ErrInvalidAssetPath, node.Site())
			return
		}
		stack, err := b.opts.ResolveAssetStack(op.AssetPath, node.Site())
		if err != nil || stack == nil {
			b.reportError(ErrInvalidAssetPath, node.Site())
			return
		}
		if b.opts.MutedLayerIdentifiers[stack.Identifier().RootLayer] {
			b.reportError(ErrMutedAssetPath, node.Site())
			return
		}
		targetStack = stack
	}

	targetPath := op.PrimPath
	if targetPath.IsRoot() {
		if len(targetStack.Layers()) == 0 {
			b.reportError(ErrUnresolvedPrimPath, node.Site())
			return
		}
		targetPath = targetStack.Layers()[0].GetDefaultPrim()
		if targetPath.IsRoot() {
			b.reportError(ErrUnresolvedPrimPath, node.Site())
			return
		}
	}

	offset := op.Offset
	if len(targetStack.Layers()) > 0 && node.LayerStack() != nil && len(node.LayerStack().Layers()) > 0 {
		srcTCPS := node.LayerStack().Layers()[0].GetTimeCodesPerSecond()
		dstTCPS := targetStack.Layers()[0].GetTimeCodesPerSecond()
		if srcTCPS > 0 && dstTCPS > 0 && srcTCPS != dstTCPS {
			offset.Scale *= dstTCPS / srcTCPS
		}
	}

	mapExpr := mapexpr.NewConstant([]mapexpr.PathMapEntry{
		{Source: targetPath, Target: node.Path()},
	}, mapexpr.Offset{Scale: offset.Scale, Delay: offset.Delay}).AddRootIdentity()

	sourceSite := layer.StackSite{Stack: targetStack, Path: targetPath}

	_, _ = b.AddArc(node, sourceSite, mapExpr, kind, siblingNum, node.Path().NamespaceDepth(), AddArcOptions{
		DirectNodeContributesSpecs: true,
		IncludeAncestralOpinions:   true,
		SkipDuplicateNodes:         false,
	})
}
