package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborcomp/primforge/diagnostic"
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/layerfixture"
	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpgraph"
	"github.com/arborcomp/primforge/strength"
)

func newTestGraph(t *testing.T) *pcpgraph.Graph {
	t.Helper()
	stack := layerfixture.NewStack([]layer.Layer{layerfixture.NewLayer("root.yaml")})
	site := layer.StackSite{Stack: stack, Path: pathkit.AbsoluteRootPath}

	return pcpgraph.NewGraph(site, true)
}

func insert(t *testing.T, g *pcpgraph.Graph, parent pcpgraph.NodeIndex, name string, kind pcpgraph.ArcKind, siblingNum int) pcpgraph.NodeIndex {
	t.Helper()
	stack := g.Node(parent).LayerStack()
	path := pathkit.MustPrimPath(name)
	idx, err := g.InsertChild(parent, layer.StackSite{Stack: stack, Path: path}, pcpgraph.Arc{
		Kind:               kind,
		MapToParent:        mapexpr.Identity(),
		SiblingNumAtOrigin: siblingNum,
		NamespaceDepth:     1,
	}, func(a, b pcpgraph.NodeIndex) bool {
		return strength.CompareSiblings(g.Node(a), g.Node(b)) < 0
	})
	require.NoError(t, err)

	return idx
}

func TestAssertStrictOrder_AcceptsDistinctSiblings(t *testing.T) {
	g := newTestGraph(t)
	root := g.Root().Index

	a := insert(t, g, root, "A", pcpgraph.ArcReference, 0)
	b := insert(t, g, root, "B", pcpgraph.ArcReference, 1)
	c := insert(t, g, root, "C", pcpgraph.ArcInherit, 0)

	elems := []pcpgraph.NodeRef{g.Node(a), g.Node(b), g.Node(c)}
	require.NoError(t, diagnostic.AssertStrictOrder(elems, strength.CompareSiblings))
}

func TestAssertStrictOrder_RejectsConstantComparator(t *testing.T) {
	g := newTestGraph(t)
	root := g.Root().Index

	a := insert(t, g, root, "A", pcpgraph.ArcReference, 0)
	b := insert(t, g, root, "B", pcpgraph.ArcReference, 1)

	elems := []pcpgraph.NodeRef{g.Node(a), g.Node(b)}
	err := diagnostic.AssertStrictOrder(elems, func(pcpgraph.NodeRef, pcpgraph.NodeRef) int { return 0 })
	require.ErrorIs(t, err, diagnostic.ErrNotStrictOrder)
}

func TestCheckSiblingOrder_PassesForWellFormedChildren(t *testing.T) {
	g := newTestGraph(t)
	root := g.Root().Index

	insert(t, g, root, "A", pcpgraph.ArcReference, 0)
	insert(t, g, root, "B", pcpgraph.ArcInherit, 0)

	require.NoError(t, diagnostic.CheckSiblingOrder(g.Root()))
}

func TestCheckGraph_WalksEveryNode(t *testing.T) {
	g := newTestGraph(t)
	root := g.Root().Index

	child := insert(t, g, root, "Child", pcpgraph.ArcReference, 0)
	insert(t, g, child, "Grandchild", pcpgraph.ArcInherit, 0)

	require.NoError(t, diagnostic.CheckGraph(g))
}
