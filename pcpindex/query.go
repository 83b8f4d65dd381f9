package pcpindex

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpbuild"
	"github.com/arborcomp/primforge/pcpgraph"
)

// RangeKind selects a contiguous slice of a finalized graph's node pool,
// grounded on PcpRangeType. Every kind but All/WeakerThanRoot/Root/
// AllInherits/StrongerThanPayload names a single arc kind and locality
// (same layer stack as its parent, or a different one reached across a
// reference/payload) and is found as the run of the root node's direct
// children matching that kind — contiguous because strength order groups
// same-kind arc-kind siblings together.
type RangeKind int

const (
	// RangeAll is every node of the graph.
	RangeAll RangeKind = iota
	// RangeRoot is just the root node.
	RangeRoot
	// RangeWeakerThanRoot is every node but the root.
	RangeWeakerThanRoot
	// RangeAllInherits is every direct child of the root introduced by an
	// Inherit arc, local or global.
	RangeAllInherits
	// RangeStrongerThanPayload is every node stronger than the root's
	// first Payload child (i.e. everything composed before any payload is
	// brought in).
	RangeStrongerThanPayload
	// RangeLocalInherit is direct Inherit children of the root whose
	// layer stack matches the root's own.
	RangeLocalInherit
	// RangeGlobalInherit is direct Inherit children of the root whose
	// layer stack differs from the root's own.
	RangeGlobalInherit
	// RangeVariant is direct Variant children of the root.
	RangeVariant
	// RangeReference is direct Reference children of the root.
	RangeReference
	// RangePayload is direct Payload children of the root.
	RangePayload
	// RangeLocalSpecializes is direct Specialize children of the root
	// whose layer stack matches the root's own.
	RangeLocalSpecializes
	// RangeGlobalSpecializes is direct Specialize children of the root
	// whose layer stack differs from the root's own.
	RangeGlobalSpecializes
)

// GetRootNode returns idx's root node.
func (idx *PrimIndex) GetRootNode() pcpgraph.NodeRef {
	return idx.Graph.Root()
}

// GetNodeRange returns the [start, end) pool-index range of nodes
// matching kind, valid only after Finalize has laid the pool out in
// strength order.
func (idx *PrimIndex) GetNodeRange(kind RangeKind) (int, int) {
	n := idx.Graph.NodeCount()
	root := idx.Graph.Root()

	switch kind {
	case RangeAll:
		return 0, n
	case RangeRoot:
		return 0, 1
	case RangeWeakerThanRoot:
		return 1, n
	case RangeAllInherits:
		return findDirectChildRange(root, n, func(c pcpgraph.NodeRef) bool {
			return c.ArcKind() == pcpgraph.ArcInherit
		})
	case RangeStrongerThanPayload:
		start, _ := findDirectChildRange(root, n, func(c pcpgraph.NodeRef) bool {
			return c.ArcKind() == pcpgraph.ArcPayload
		})

		return 0, start
	case RangeLocalInherit:
		return findDirectChildRange(root, n, isLocal(pcpgraph.ArcInherit, root))
	case RangeGlobalInherit:
		return findDirectChildRange(root, n, isGlobal(pcpgraph.ArcInherit, root))
	case RangeVariant:
		return findDirectChildRange(root, n, func(c pcpgraph.NodeRef) bool {
			return c.ArcKind() == pcpgraph.ArcVariant
		})
	case RangeReference:
		return findDirectChildRange(root, n, func(c pcpgraph.NodeRef) bool {
			return c.ArcKind() == pcpgraph.ArcReference
		})
	case RangePayload:
		return findDirectChildRange(root, n, func(c pcpgraph.NodeRef) bool {
			return c.ArcKind() == pcpgraph.ArcPayload
		})
	case RangeLocalSpecializes:
		return findDirectChildRange(root, n, isLocal(pcpgraph.ArcSpecialize, root))
	case RangeGlobalSpecializes:
		return findDirectChildRange(root, n, isGlobal(pcpgraph.ArcSpecialize, root))
	default:
		return n, n
	}
}

// GetPrimRange is GetNodeRange translated into NodeRef values.
func (idx *PrimIndex) GetPrimRange(kind RangeKind) []pcpgraph.NodeRef {
	start, end := idx.GetNodeRange(kind)

	out := make([]pcpgraph.NodeRef, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, idx.Graph.Node(pcpgraph.NodeIndex(i)))
	}

	return out
}

func isLocal(kind pcpgraph.ArcKind, root pcpgraph.NodeRef) func(pcpgraph.NodeRef) bool {
	return func(c pcpgraph.NodeRef) bool {
		return c.ArcKind() == kind && c.LayerStack() == root.LayerStack()
	}
}

func isGlobal(kind pcpgraph.ArcKind, root pcpgraph.NodeRef) func(pcpgraph.NodeRef) bool {
	return func(c pcpgraph.NodeRef) bool {
		return c.ArcKind() == kind && c.LayerStack() != root.LayerStack()
	}
}

// findDirectChildRange finds the contiguous run of root's direct children
// matching pred, grounded on _FindDirectChildRange: it scans root's
// children strongest-first for the first match, then continues until a
// non-match (or the end of the child list) to find the run's end. Pool
// indices work here only because Finalize's strength-order layout makes
// pool position and strength order coincide.
func findDirectChildRange(root pcpgraph.NodeRef, numNodes int, pred func(pcpgraph.NodeRef) bool) (int, int) {
	for c := root.FirstChild(); c.IsValid(); c = c.NextSibling() {
		if !pred(c) {
			continue
		}
		start := int(c.Index)
		end := numNodes
		for next := c.NextSibling(); next.IsValid(); next = next.NextSibling() {
			if !pred(next) {
				end = int(next.Index)
				break
			}
		}

		return start, end
	}

	return numNodes, numNodes
}

// GetNodeProvidingSpec scans idx's nodes strong→weak for the first whose
// path matches path and whose layer stack contains layer, gated by
// CanContributeSpecs (a node past a permission-denied boundary never
// provides a spec even if its layer stack has one).
func (idx *PrimIndex) GetNodeProvidingSpec(l layer.Layer, path pathkit.Path) (pcpgraph.NodeRef, bool) {
	var found pcpgraph.NodeRef
	ok := false
	idx.Graph.ForEachNodeStrongToWeak(func(node pcpgraph.NodeRef) bool {
		if node.Culled() || !node.CanContributeSpecs() || !node.Path().Equals(path) {
			return true
		}
		for _, candidate := range node.LayerStack().Layers() {
			if candidate == l {
				found, ok = node, true

				return false
			}
		}

		return true
	})

	return found, ok
}

// ComposeAuthoredVariantSelections merges every node's own authored
// variant-selection field across idx's prim stack, first insertion
// winning per variant set (strong→weak order, so the strongest node's
// selection always wins for a set both it and a weaker node name).
func (idx *PrimIndex) ComposeAuthoredVariantSelections() map[string]string {
	result := map[string]string{}
	idx.Graph.ForEachNodeStrongToWeak(func(node pcpgraph.NodeRef) bool {
		if node.Culled() || !node.CanContributeSpecs() {
			return true
		}
		site := node.Site()
		if site.Stack == nil {
			return true
		}
		for _, l := range site.Stack.Layers() {
			v, ok := l.HasField(site.Path, pcpbuild.FieldVariantSelection)
			if !ok {
				continue
			}
			sels, ok := v.(map[string]string)
			if !ok {
				continue
			}
			for set, sel := range sels {
				if sel == "" {
					continue
				}
				if _, exists := result[set]; !exists {
					result[set] = sel
				}
			}
		}

		return true
	})

	return result
}
