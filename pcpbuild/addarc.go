package pcpbuild

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpgraph"
	"github.com/arborcomp/primforge/pcptask"
	"github.com/arborcomp/primforge/strength"
)

// AddArcOptions governs one AddArc call's policy, varying per arc kind
// (§4.4.1's step-by-step description names each of these).
type AddArcOptions struct {
	// DirectNodeContributesSpecs is false for an implied-class or
	// implied-relocation node, which contributes no opinions of its own;
	// authored arcs and specializes propagated to the root pass true.
	// AddArc forces it false when the source site is at or under a
	// relocation source.
	DirectNodeContributesSpecs bool

	// IncludeAncestralOpinions recurses Build on sourceSite's parent
	// chain before splicing, per references/payloads's always-true rule
	// and inherits/specializes's subroot-only rule.
	IncludeAncestralOpinions bool

	// SkipDuplicateNodes suppresses re-insertion when sourceSite already
	// has a node elsewhere in the graph.
	SkipDuplicateNodes bool

	// SkipTasksForExpressedArcs prevents scanArcs from re-discovering
	// stages the caller has already scheduled by other means (e.g. a
	// variant arc's own authored-selection bookkeeping).
	SkipTasksForExpressedArcs map[pcptask.Stage]bool

	// Origin, when valid, is the node this arc was implied from (the
	// class/specialize/relocation node that propagated it); left
	// invalid for an authored arc, which defaults to Parent per
	// pcpgraph.Arc's own documented contract.
	Origin pcpgraph.NodeRef
}

// siblingLess adapts strength.CompareSiblings to pcpgraph.SiblingLess.
func (b *Builder) siblingLess() pcpgraph.SiblingLess {
	g := b.Graph

	return func(a, c pcpgraph.NodeIndex) bool {
		return strength.CompareSiblings(g.Node(a), g.Node(c)) < 0
	}
}

// AddArc is the central operation every per-arc evaluator calls: it
// inserts a new node under parent, sourced from sourceSite via mapExpr,
// checks for cycles and duplicates, recurses to build ancestral opinions
// when requested, and finally scans the new node for its own arcs.
func (b *Builder) AddArc(
	parent pcpgraph.NodeRef,
	sourceSite layer.StackSite,
	mapExpr mapexpr.Expression,
	kind pcpgraph.ArcKind,
	siblingNum, namespaceDepth int,
	opts AddArcOptions,
) (pcpgraph.NodeRef, error) {
	if b.arcCount >= MaxArcsPerBuild {
		err := ErrArcCapacityExceeded
		b.reportCapacity(err, parent.Site())
		return pcpgraph.NodeRef{}, err
	}

	// Step 1: cycle check. An arc that would introduce a node whose site
	// already appears among parent's own ancestors (in this graph, or
	// across the StackFrame linkage into an enclosing ancestral build)
	// is rejected outright.
	cyclic := false
	b.frame.ancestorSites(parent, func(s layer.StackSite) bool {
		if s.Equals(sourceSite) {
			cyclic = true
			return false
		}
		return true
	})
	if cyclic {
		b.reportError(ErrArcCycle, sourceSite)
		return pcpgraph.NodeRef{}, ErrArcCycle
	}

	// Step 2: duplicate check. A second arc resolving to a site already
	// present elsewhere in this graph is either skipped (when the caller
	// asked for SkipDuplicateNodes) or allowed to proceed: USD permits
	// diamond-shaped composition to insert the same site twice when the
	// arcs reach it by different paths.
	if opts.SkipDuplicateNodes {
		if _, exists := b.Graph.GetNodeUsingSite(sourceSite); exists {
			return pcpgraph.NodeRef{}, nil
		}
	}

	// Step 3: relocation exclusion ("salted earth"). A site at or under a
	// path that the layer stack relocates away from is still added, but
	// the new node contributes no specs of its own; its opinions are only
	// reachable at the relocated target.
	if sourceSite.Stack != nil && sourceSite.Stack.HasRelocates() {
		for src := range sourceSite.Stack.RelocatesSourceToTarget() {
			if srcPath, perr := pathkit.ParsePath(src); perr == nil && srcPath.HasPrefix(sourceSite.Path) {
				opts.DirectNodeContributesSpecs = false
				break
			}
		}
	}

	origin := pcpgraph.InvalidNodeIndex
	if opts.Origin.IsValid() {
		origin = opts.Origin.Index
	}
	arc := pcpgraph.Arc{
		Kind:               kind,
		MapToParent:        mapExpr,
		SiblingNumAtOrigin: siblingNum,
		NamespaceDepth:     namespaceDepth,
		Origin:             origin,
	}

	var (
		newIdx pcpgraph.NodeIndex
		err    error
	)

	// Step 4: insertion. A direct (non-ancestral) arc inserts a single
	// node; IncludeAncestralOpinions instead recurses Build over
	// sourceSite's full ancestral chain and splices the resulting
	// subgraph in as one new arc.
	if !opts.IncludeAncestralOpinions {
		newIdx, err = b.Graph.InsertChild(parent.Index, sourceSite, arc, b.siblingLess())
	} else {
		nestedFrame := &StackFrame{
			RequestedSite:      sourceSite,
			ParentNode:         parent,
			ArcToParent:        arc,
			PreviousFrame:      b.frame,
			SkipDuplicateNodes: opts.SkipDuplicateNodes,
		}
		nested := Build(sourceSite, b.opts.ForAncestralRecursion(), nestedFrame)
		b.absorb(nested)
		newIdx, err = b.Graph.InsertChildSubgraph(parent.Index, nested.Graph, arc, b.siblingLess())
	}
	if err != nil {
		b.reportCapacity(err, sourceSite)
		return pcpgraph.NodeRef{}, err
	}
	b.arcCount++

	newNode := b.Graph.Node(newIdx)
	newNode.SetHasSpecs(opts.DirectNodeContributesSpecs && sourceSite.Stack != nil && composeSiteHasPrimSpecs(sourceSite))

	// Step 5: post-insert checks, skipped in USD mode. The new node's
	// permission and symmetry are read from its strongest authoring
	// layer; an arc whose target declared itself private is reported as
	// ErrArcPermissionDenied, and the new node and its subtree are marked
	// inert rather than silently composed.
	if !b.opts.Usd {
		applyPermissionAndSymmetry(newNode, sourceSite)
		if newNode.Permission() == pcpgraph.PermissionPrivate {
			newNode.SetPermissionDenied(true)
			b.reportError(ErrArcPermissionDenied, sourceSite)
			var markInert func(n pcpgraph.NodeRef)
			markInert = func(n pcpgraph.NodeRef) {
				n.SetInert(true)
				for _, c := range n.Children() {
					markInert(c)
				}
			}
			markInert(newNode)
		}
	}

	// Step 6: task enqueue. The new node's own site is scanned for
	// further arcs, except for stages the caller has already expressed
	// by other means.
	if !opts.IncludeAncestralOpinions {
		b.scanArcs(newNode, opts.SkipTasksForExpressedArcs)
	}

	// A Specialize arc, wherever authored, is propagated toward the
	// graph root immediately (§4.4.2's Implied Specializes); re-
	// propagation for descendants of an already-propagated subtree is
	// triggered the same way when their own topmost ancestor turns out
	// to be a Specialize node (see evalImpliedSpecializes).
	if kind == pcpgraph.ArcSpecialize {
		b.push(pcptask.Task{Stage: pcptask.StageImpliedSpecializes, Node: newIdx})
	} else if topmostAncestorIsSpecialize(newNode) {
		b.push(pcptask.Task{Stage: pcptask.StageImpliedSpecializes, Node: newIdx})
	}

	// An authored Inherit arc implies an equivalent arc at every other
	// node of the graph that reaches the same prim identity as this arc's
	// parent by a different path (§4.4.2's Implied Classes). An already-
	// implied arc (Origin valid) does not itself re-propagate: every
	// destination reachable from its own parent's identity was already
	// found by the wave that implied it in the first place, and re-
	// scanning from here would just rediscover the original source node
	// as a spurious "other path" to the same identity.
	if kind == pcpgraph.ArcInherit && !opts.Origin.IsValid() {
		b.push(pcptask.Task{Stage: pcptask.StageImpliedClasses, Node: newIdx})
	}

	return newNode, nil
}

// composeSiteHasPrimSpecs reports whether any layer of site's stack
// carries a spec at site's path.
func composeSiteHasPrimSpecs(site layer.StackSite) bool {
	if site.Stack == nil {
		return false
	}
	for _, l := range site.Stack.Layers() {
		if l.HasSpec(site.Path) {
			return true
		}
	}

	return false
}

// applyPermissionAndSymmetry sets node's permission and symmetry bits
// from the strongest layer that authors them at sourceSite.
func applyPermissionAndSymmetry(node pcpgraph.NodeRef, sourceSite layer.StackSite) {
	if sourceSite.Stack == nil {
		return
	}
	for _, l := range sourceSite.Stack.Layers() {
		if v, ok := l.HasField(sourceSite.Path, FieldPermission); ok {
			if p, ok := v.(pcpgraph.Permission); ok {
				node.SetPermission(p)
			}
			break
		}
	}
	for _, l := range sourceSite.Stack.Layers() {
		if v := l.GetField(sourceSite.Path, FieldSymmetryFunction); v != nil {
			node.SetHasSymmetry(true)
			break
		}
	}
}

// topmostAncestorIsSpecialize reports whether node's topmost non-root
// ancestor was introduced by a Specialize arc, the trigger this
// implementation uses to re-propagate specializes to the root when a new
// arc is authored beneath an already-propagated specializes subtree.
func topmostAncestorIsSpecialize(node pcpgraph.NodeRef) bool {
	topmost := node
	for p := node.ParentNode(); p.IsValid() && p.ArcKind() != pcpgraph.ArcRoot; p = p.ParentNode() {
		topmost = p
	}

	return topmost.IsValid() && topmost.ArcKind() == pcpgraph.ArcSpecialize
}
