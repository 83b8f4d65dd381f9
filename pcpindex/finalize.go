package pcpindex

import "github.com/arborcomp/primforge/pcpgraph"

// FinalizeOptions governs one Finalize call (§4.5).
type FinalizeOptions struct {
	// Cull runs the culling pass; a caller that already built the graph
	// with culling disabled (pcpbuild.Options has no such knob today, but
	// a future incremental-rebuild path might) can skip it here too.
	Cull bool

	// Usd disables permission enforcement and suppresses prim-stack
	// retention, matching pcpbuild.Options.Usd's own effect on symmetry
	// and list-ordering bookkeeping (§6).
	Usd bool
}

// SpecEntry names one (node, layer) pair contributing a concrete spec to
// a finalized index's prim stack, in strong→weak order.
type SpecEntry struct {
	NodeIndex  pcpgraph.NodeIndex
	LayerIndex int
}

// PrimIndex is the finalized output of one prim-index build: the graph in
// strength-order layout, its prim stack, and any composition errors
// finalization itself discovered (currently only permission violations;
// build-time errors live on the Builder that produced Graph).
type PrimIndex struct {
	Graph        *pcpgraph.Graph
	PrimStack    []SpecEntry
	Instanceable bool
	LocalErrors  []*CompositionError
	finalized    bool
}

// Finalized reports whether Finalize has run on this index at least once.
func (idx *PrimIndex) Finalized() bool { return idx.finalized }

// Finalize culls, enforces permissions, lays the pool out in strength
// order, erases now-unreachable culled nodes, and collects the prim
// stack, in that order (§4.5). It is safe to call more than once:
// Testable Property 9 requires a second Finalize to be a no-op.
func Finalize(g *pcpgraph.Graph, opts FinalizeOptions) *PrimIndex {
	idx := &PrimIndex{Graph: g}

	root := g.Root()

	if opts.Cull {
		cullGraph(root)
	}

	if !opts.Usd {
		enforcePermissions(root, func(detail PermissionDeniedDetail) {
			idx.LocalErrors = append(idx.LocalErrors, newPermissionError(detail))
		})
	}

	layoutStrengthOrder(g)

	if opts.Cull {
		eraseCulledNodes(g)
	}

	if !opts.Usd {
		idx.PrimStack = collectPrimStack(g.Root())
	}

	idx.finalized = true

	return idx
}

// layoutStrengthOrder assigns every node its strength-order index by a
// depth-first, strongest-first walk of the child lists, then permutes the
// pool into that order so strength order and pool order coincide
// (§4.5's "Strength-order layout").
func layoutStrengthOrder(g *pcpgraph.Graph) {
	var order []pcpgraph.NodeIndex
	g.ForEachNodeStrongToWeak(func(n pcpgraph.NodeRef) bool {
		order = append(order, n.Index)

		return true
	})
	g.Reindex(order)
}

// eraseCulledNodes drops every culled node that no surviving node needs
// as an origin, preserving origin chains so strength-order comparisons
// among the nodes that remain are unaffected (§4.5's "Erasure of culled
// nodes").
//
// A node starts erasable iff it is culled. Then, for every node i, its
// origin chain is walked from i toward its authored link (the point
// where Origin == Parent); the first non-erasable node found along that
// walk means every erasable node from there on is actually still needed
// (some stronger, kept node depends on it via the origin chain) — so it,
// and its whole ancestor chain up to the nearest already-unerasable node,
// are marked un-erasable too. This can revisit the same chain from
// several starting nodes; that's expected; see
// _ComputeEraseCulledNodeIndexMapping for the source of this shape.
func eraseCulledNodes(g *pcpgraph.Graph) {
	n := g.NodeCount()
	canErase := make([]bool, n)
	for i := 0; i < n; i++ {
		canErase[i] = g.Node(pcpgraph.NodeIndex(i)).Culled()
	}

	for i := 0; i < n; i++ {
		node := g.Node(pcpgraph.NodeIndex(i))
		if !node.OriginNode().IsValid() {
			continue
		}

		subsequentOriginsCannotBeCulled := false
		for nIdx := i; ; {
			cur := g.Node(pcpgraph.NodeIndex(nIdx))
			if !canErase[nIdx] {
				subsequentOriginsCannotBeCulled = true
			} else if subsequentOriginsCannotBeCulled {
				for pIdx := nIdx; pIdx != int(pcpgraph.InvalidNodeIndex) && canErase[pIdx]; {
					canErase[pIdx] = false
					p := g.Node(pcpgraph.NodeIndex(pIdx)).ParentNode()
					if !p.IsValid() {
						break
					}
					pIdx = int(p.Index)
				}
			}

			origin := cur.OriginNode()
			parent := cur.ParentNode()
			if origin.Equals(parent) {
				break
			}
			nIdx = int(origin.Index)
		}
	}

	var order []pcpgraph.NodeIndex
	for i := 0; i < n; i++ {
		if !canErase[i] {
			order = append(order, pcpgraph.NodeIndex(i))
		}
	}
	g.Reindex(order)
}

// collectPrimStack scans the finalized graph strong→weak, recording a
// SpecEntry for every layer where a non-culled, spec-contributing node's
// path carries a spec (§4.5's "Spec collection").
func collectPrimStack(root pcpgraph.NodeRef) []SpecEntry {
	var stack []SpecEntry
	root.Graph.ForEachNodeStrongToWeak(func(node pcpgraph.NodeRef) bool {
		if node.Culled() || node.Inert() || !node.HasSpecs() || !node.CanContributeSpecs() {
			return true
		}
		layers := node.LayerStack().Layers()
		for i, l := range layers {
			if l.HasSpec(node.Path()) {
				stack = append(stack, SpecEntry{NodeIndex: node.Index, LayerIndex: i})
			}
		}

		return true
	})

	return stack
}
