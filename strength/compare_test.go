package strength_test

import (
	"testing"

	"github.com/stretchr/testify/require"

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

func TestCompareSiblings_ArcKindDominates(t *testing.T) {
	g := newTestGraph(t)
	root := g.Root().Index

	refIdx := insert(t, g, root, "Ref", pcpgraph.ArcReference, 0)
	inhIdx := insert(t, g, root, "Inh", pcpgraph.ArcInherit, 0)

	result := strength.CompareSiblings(g.Node(refIdx), g.Node(inhIdx))
	require.Equal(t, -1, result, "reference must be stronger than inherit")
}

func TestCompareSiblings_SameArcKindOrdersBySiblingNumber(t *testing.T) {
	g := newTestGraph(t)
	root := g.Root().Index

	first := insert(t, g, root, "First", pcpgraph.ArcReference, 0)
	second := insert(t, g, root, "Second", pcpgraph.ArcReference, 1)

	require.Equal(t, -1, strength.CompareSiblings(g.Node(first), g.Node(second)))
	require.Equal(t, 1, strength.CompareSiblings(g.Node(second), g.Node(first)))
}

func TestCompareSiblings_RejectsNonSiblings(t *testing.T) {
	g := newTestGraph(t)
	root := g.Root().Index
	child := insert(t, g, root, "Child", pcpgraph.ArcReference, 0)
	grandchild := insert(t, g, child, "Grandchild", pcpgraph.ArcReference, 0)

	_, err := strength.CompareSiblingsChecked(g.Node(root), g.Node(grandchild))
	require.ErrorIs(t, err, strength.ErrNotSiblings)
}

func TestCompareNodes_AncestorIsStronger(t *testing.T) {
	g := newTestGraph(t)
	root := g.Root().Index
	child := insert(t, g, root, "Child", pcpgraph.ArcReference, 0)
	grandchild := insert(t, g, child, "Grandchild", pcpgraph.ArcReference, 0)

	result := strength.CompareNodes(g.Node(child), g.Node(grandchild))
	require.Equal(t, -1, result)
}

func TestCompareNodes_DivergingSiblingsUnderCommonAncestor(t *testing.T) {
	g := newTestGraph(t)
	root := g.Root().Index
	child := insert(t, g, root, "Child", pcpgraph.ArcReference, 0)
	a := insert(t, g, child, "A", pcpgraph.ArcReference, 0)
	b := insert(t, g, child, "B", pcpgraph.ArcInherit, 0)

	result := strength.CompareNodes(g.Node(a), g.Node(b))
	require.Equal(t, -1, result, "reference-sourced descendant stronger than inherit-sourced one")
}

func TestCompareNodes_Identity(t *testing.T) {
	g := newTestGraph(t)
	require.Equal(t, 0, strength.CompareNodes(g.Root(), g.Root()))
}
