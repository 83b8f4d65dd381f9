package pcpgraph

import (
	"fmt"

	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/mapexpr"
)

// SiblingLess orders two sibling nodes by composition strength: it must
// report whether a is strictly stronger than b. Graph accepts this as a
// parameter rather than importing the strength package directly, so that
// the node graph has no dependency on strength ordering; pcpbuild
// supplies strength.CompareSiblings as this callback.
type SiblingLess func(a, b NodeIndex) bool

// Graph is the node graph for a single prim index under construction. Its
// node pool may be shared, copy-on-write, with other Graph values (e.g.
// when a subgraph built for one arc is reused as the starting point for a
// sibling arc); Clone is O(1) and the first mutating call after a Clone
// pays to unshare the pool.
type Graph struct {
	pool      *sharedPool
	unshared  []unsharedNodeFields
	rootIndex NodeIndex
	usdMode   bool
}

// NewGraph creates a graph containing only its root node, at rootSite,
// with the root arc.
func NewGraph(rootSite layer.StackSite, usdMode bool) *Graph {
	g := &Graph{
		pool:      newSharedPool(),
		rootIndex: 0,
		usdMode:   usdMode,
	}
	g.pool.nodes = append(g.pool.nodes, sharedNodeFields{
		arc: Arc{
			Kind:   ArcRoot,
			Parent: InvalidNodeIndex,
			Origin: InvalidNodeIndex,
		},
		layerStack:  rootSite.Stack,
		mapToRoot:   mapexpr.Identity(),
		firstChild:  InvalidNodeIndex,
		lastChild:   InvalidNodeIndex,
		nextSibling: InvalidNodeIndex,
		prevSibling: InvalidNodeIndex,
		parentIndex: InvalidNodeIndex,
	})
	g.unshared = append(g.unshared, unsharedNodeFields{sitePath: rootSite.Path})

	return g
}

// UsdMode reports whether this graph was built in USD mode. pcpgraph
// applies no restriction of its own based on it; pcpindex's name
// composition reads it to skip relocation and restatement handling.
func (g *Graph) UsdMode() bool { return g.usdMode }

// NodeCount returns the number of nodes currently in the pool.
func (g *Graph) NodeCount() int { return len(g.pool.nodes) }

// Root returns the graph's root node.
func (g *Graph) Root() NodeRef { return NodeRef{Graph: g, Index: g.rootIndex} }

// Node returns a NodeRef for the given index. The caller must only pass
// indices obtained from this graph (or a graph it shares a pool with).
func (g *Graph) Node(i NodeIndex) NodeRef { return NodeRef{Graph: g, Index: i} }

// Clone returns a graph that shares this graph's node pool until either
// graph next mutates it, and holds an independent deep copy of the
// per-node unshared fields.
func (g *Graph) Clone() *Graph {
	unsharedCopy := make([]unsharedNodeFields, len(g.unshared))
	copy(unsharedCopy, g.unshared)

	return &Graph{
		pool:      g.pool.retain(),
		unshared:  unsharedCopy,
		rootIndex: g.rootIndex,
		usdMode:   g.usdMode,
	}
}

// ensureUnsharedPool performs the copy-on-write step: if g's pool is
// shared with another Graph, g gets its own private copy before any
// mutating accessor proceeds.
func (g *Graph) ensureUnsharedPool() {
	if g.pool.isShared() {
		old := g.pool
		g.pool = old.clone()
		old.release()
	}
}

func (g *Graph) nodeCapacityCheck() error {
	if len(g.pool.nodes) >= MaxNodes {
		return ErrIndexCapacityExceeded
	}

	return nil
}

func (g *Graph) validIndex(i NodeIndex) bool {
	return i != InvalidNodeIndex && int(i) < len(g.pool.nodes)
}

// InsertChild adds a single new node as a child of parent, at site, via
// arc, keeping parent's children ordered strongest-first according to
// less. It returns the new node's index.
func (g *Graph) InsertChild(parent NodeIndex, site layer.StackSite, arc Arc, less SiblingLess) (NodeIndex, error) {
	if !g.validIndex(parent) {
		return InvalidNodeIndex, ErrInvalidParent
	}
	if arc.NamespaceDepth > MaxNamespaceDepth {
		return InvalidNodeIndex, ErrArcNamespaceDepthCapacityExceeded
	}
	if err := g.nodeCapacityCheck(); err != nil {
		return InvalidNodeIndex, err
	}

	g.ensureUnsharedPool()

	arc.Parent = parent
	if arc.Origin == InvalidNodeIndex {
		arc.Origin = parent
	}

	newIndex := NodeIndex(len(g.pool.nodes))
	mapToRoot := arc.MapToParent
	if parentMTR, ok := g.nodeMapToRootExpr(parent); ok {
		mapToRoot = arc.MapToParent.Compose(parentMTR)
	}

	g.pool.nodes = append(g.pool.nodes, sharedNodeFields{
		arc:         arc,
		layerStack:  site.Stack,
		mapToRoot:   mapToRoot,
		firstChild:  InvalidNodeIndex,
		lastChild:   InvalidNodeIndex,
		nextSibling: InvalidNodeIndex,
		prevSibling: InvalidNodeIndex,
		parentIndex: parent,
	})
	g.unshared = append(g.unshared, unsharedNodeFields{sitePath: site.Path})

	g.spliceIntoSiblingOrder(parent, newIndex, less)

	return newIndex, nil
}

func (g *Graph) nodeMapToRootExpr(i NodeIndex) (mapexpr.Expression, bool) {
	mtr := g.pool.nodes[i].mapToRoot
	if mtr.IsNil() {
		return mapexpr.Expression{}, false
	}

	return mtr, true
}

// spliceIntoSiblingOrder inserts child into parent's child list at the
// position less dictates, maintaining strongest-first order.
func (g *Graph) spliceIntoSiblingOrder(parent, child NodeIndex, less SiblingLess) {
	p := &g.pool.nodes[parent]

	if p.firstChild == InvalidNodeIndex {
		p.firstChild = child
		p.lastChild = child

		return
	}

	cur := p.firstChild
	var prev NodeIndex = InvalidNodeIndex
	for cur != InvalidNodeIndex {
		if less(child, cur) {
			break
		}
		prev = cur
		cur = g.pool.nodes[cur].nextSibling
	}

	c := &g.pool.nodes[child]
	c.prevSibling = prev
	c.nextSibling = cur

	if prev == InvalidNodeIndex {
		p.firstChild = child
	} else {
		g.pool.nodes[prev].nextSibling = child
	}

	if cur == InvalidNodeIndex {
		p.lastChild = child
	} else {
		g.pool.nodes[cur].prevSibling = child
	}
}

// InsertChildSubgraph splices an entire pre-built subgraph under parent
// as a single new arc, appending a copy of each of subgraph's nodes to
// g's pool (subgraph's pool is not shared). The subgraph's own root becomes the
// new child node; subgraph's remaining nodes are appended to g's pool
// unchanged aside from index translation.
func (g *Graph) InsertChildSubgraph(parent NodeIndex, subgraph *Graph, arc Arc, less SiblingLess) (NodeIndex, error) {
	if !g.validIndex(parent) {
		return InvalidNodeIndex, ErrInvalidParent
	}
	if len(g.pool.nodes)+subgraph.NodeCount() > MaxNodes {
		return InvalidNodeIndex, ErrIndexCapacityExceeded
	}

	g.ensureUnsharedPool()

	offset := NodeIndex(len(g.pool.nodes))
	translate := func(i NodeIndex) NodeIndex {
		if i == InvalidNodeIndex {
			return InvalidNodeIndex
		}

		return i + offset
	}

	for idx, n := range subgraph.pool.nodes {
		nn := n
		nn.firstChild = translate(n.firstChild)
		nn.lastChild = translate(n.lastChild)
		nn.nextSibling = translate(n.nextSibling)
		nn.prevSibling = translate(n.prevSibling)
		if NodeIndex(idx) == subgraph.rootIndex {
			nn.parentIndex = parent
			nn.arc = arc
			nn.arc.Parent = parent
			if nn.arc.Origin == InvalidNodeIndex {
				nn.arc.Origin = parent
			}
		} else {
			nn.parentIndex = translate(n.parentIndex)
			nn.arc.Parent = translate(n.arc.Parent)
			nn.arc.Origin = translate(n.arc.Origin)
		}
		g.pool.nodes = append(g.pool.nodes, nn)
		g.unshared = append(g.unshared, subgraph.unshared[idx])
	}

	newChildRoot := offset + subgraph.rootIndex
	if parentMTR, ok := g.nodeMapToRootExpr(parent); ok {
		g.pool.nodes[newChildRoot].mapToRoot = arc.MapToParent.Compose(parentMTR)
	}

	g.spliceIntoSiblingOrder(parent, newChildRoot, less)

	return newChildRoot, nil
}

// GetNodeUsingSite performs a linear scan for a node already targeting
// site, returning it so that a would-be duplicate arc can be detected
// instead of inserted again.
func (g *Graph) GetNodeUsingSite(site layer.StackSite) (NodeIndex, bool) {
	for i := range g.pool.nodes {
		if g.pool.nodes[i].layerStack == site.Stack && g.unshared[i].sitePath.Equals(site.Path) {
			return NodeIndex(i), true
		}
	}

	return InvalidNodeIndex, false
}

// AppendChildNameToAllSites descends every node's stored site path by one
// component, childName, used when the prim index being built moves one
// level deeper in namespace and every contributing site must track the
// move.
func (g *Graph) AppendChildNameToAllSites(childName string) error {
	g.ensureUnsharedPool()

	for i := range g.unshared {
		next, err := g.unshared[i].sitePath.AppendChild(childName)
		if err != nil {
			return err
		}
		g.unshared[i].sitePath = next
	}

	return nil
}

// ForEachNodeStrongToWeak walks every node of the graph in strength
// order (a pre-order traversal of the strongest-first child lists),
// calling visit for each. Traversal stops early if visit returns false.
func (g *Graph) ForEachNodeStrongToWeak(visit func(NodeRef) bool) {
	var walk func(NodeIndex) bool
	walk = func(i NodeIndex) bool {
		if !visit(NodeRef{Graph: g, Index: i}) {
			return false
		}
		for c := g.pool.nodes[i].firstChild; c != InvalidNodeIndex; c = g.pool.nodes[c].nextSibling {
			if !walk(c) {
				return false
			}
		}

		return true
	}
	walk(g.rootIndex)
}

// ForEachNodeWeakToStrong walks every node in the reverse of strength
// order.
func (g *Graph) ForEachNodeWeakToStrong(visit func(NodeRef) bool) {
	var nodes []NodeIndex
	g.ForEachNodeStrongToWeak(func(r NodeRef) bool {
		nodes = append(nodes, r.Index)

		return true
	})
	for i := len(nodes) - 1; i >= 0; i-- {
		if !visit(NodeRef{Graph: g, Index: nodes[i]}) {
			return
		}
	}
}

// Reindex rebuilds the pool so that position i holds the node currently
// at old index order[i], dropping any node whose old index is absent
// from order and remapping every internal index reference (parent,
// arc.Parent, arc.Origin, the graph's own root) to the new numbering.
// order must be in strength order (e.g. produced by
// ForEachNodeStrongToWeak, optionally filtered) and ancestor-closed: a
// node's parent must also appear in order whenever the node itself
// does, since a dropped node cannot be reparented to. Sibling links are
// not remapped directly; they are rebuilt from the surviving
// parent-child relationships instead, which reproduces the original
// strongest-first order because order itself is a preorder walk
// (pcpindex's layout and erasure passes are both single calls to this,
// grounded on dfs's post-order recursion generalized to an explicit
// index assignment).
func (g *Graph) Reindex(order []NodeIndex) {
	g.ensureUnsharedPool()

	oldToNew := make(map[NodeIndex]NodeIndex, len(order))
	for newIdx, oldIdx := range order {
		oldToNew[oldIdx] = NodeIndex(newIdx)
	}
	remap := func(i NodeIndex) NodeIndex {
		if i == InvalidNodeIndex {
			return InvalidNodeIndex
		}
		if n, ok := oldToNew[i]; ok {
			return n
		}

		return InvalidNodeIndex
	}

	newNodes := make([]sharedNodeFields, len(order))
	newUnshared := make([]unsharedNodeFields, len(order))
	for newIdx, oldIdx := range order {
		n := g.pool.nodes[oldIdx]
		n.parentIndex = remap(n.parentIndex)
		n.arc.Parent = remap(n.arc.Parent)
		n.arc.Origin = remap(n.arc.Origin)
		n.firstChild = InvalidNodeIndex
		n.lastChild = InvalidNodeIndex
		n.nextSibling = InvalidNodeIndex
		n.prevSibling = InvalidNodeIndex
		n.strengthOrd = newIdx
		newNodes[newIdx] = n
		newUnshared[newIdx] = g.unshared[oldIdx]
	}

	for i := range newNodes {
		p := newNodes[i].parentIndex
		if p == InvalidNodeIndex {
			continue
		}
		if newNodes[p].firstChild == InvalidNodeIndex {
			newNodes[p].firstChild = NodeIndex(i)
		} else {
			newNodes[newNodes[p].lastChild].nextSibling = NodeIndex(i)
			newNodes[i].prevSibling = newNodes[p].lastChild
		}
		newNodes[p].lastChild = NodeIndex(i)
	}

	g.pool.nodes = newNodes
	g.unshared = newUnshared
	g.rootIndex = remap(g.rootIndex)
}

// String renders a short diagnostic summary of the graph's shape.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph{nodes=%d, root=%d}", g.NodeCount(), g.rootIndex)
}
