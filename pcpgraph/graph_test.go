package pcpgraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/layerfixture"
	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpgraph"
)

func byNamespaceDepthThenSibling(g *pcpgraph.Graph) pcpgraph.SiblingLess {
	return func(a, b pcpgraph.NodeIndex) bool {
		na, nb := g.Node(a), g.Node(b)
		rc := pcpgraph.CompareArcKindStrength(na.ArcKind(), nb.ArcKind())
		if rc != 0 {
			return rc < 0
		}

		return na.SiblingNumAtOrigin() < nb.SiblingNumAtOrigin()
	}
}

func testRootSite(t *testing.T) layer.StackSite {
	t.Helper()
	stack := layerfixture.NewStack([]layer.Layer{layerfixture.NewLayer("root.yaml")})

	return layer.StackSite{Stack: stack, Path: pathkit.AbsoluteRootPath}
}

func TestNewGraph_SingleRootNode(t *testing.T) {
	site := testRootSite(t)
	g := pcpgraph.NewGraph(site, true)

	require.Equal(t, 1, g.NodeCount())
	require.Equal(t, pcpgraph.ArcRoot, g.Root().ArcKind())
	require.False(t, g.Root().ParentNode().IsValid())
}

func TestInsertChild_OrdersSiblingsByArcStrength(t *testing.T) {
	site := testRootSite(t)
	g := pcpgraph.NewGraph(site, true)
	less := byNamespaceDepthThenSibling(g)

	refSite := layer.StackSite{Stack: site.Stack, Path: pathkit.MustPrimPath("Ref")}
	inhSite := layer.StackSite{Stack: site.Stack, Path: pathkit.MustPrimPath("Inh")}

	_, err := g.InsertChild(g.Root().Index, inhSite, pcpgraph.Arc{
		Kind:        pcpgraph.ArcInherit,
		MapToParent: mapexpr.Identity(),
	}, less)
	require.NoError(t, err)

	_, err = g.InsertChild(g.Root().Index, refSite, pcpgraph.Arc{
		Kind:        pcpgraph.ArcReference,
		MapToParent: mapexpr.Identity(),
	}, less)
	require.NoError(t, err)

	first := g.Root().FirstChild()
	require.Equal(t, pcpgraph.ArcReference, first.ArcKind())
	second := first.NextSibling()
	require.Equal(t, pcpgraph.ArcInherit, second.ArcKind())
	require.False(t, second.NextSibling().IsValid())
}

func TestClone_SharesPoolUntilMutated(t *testing.T) {
	site := testRootSite(t)
	g := pcpgraph.NewGraph(site, true)
	less := byNamespaceDepthThenSibling(g)

	clone := g.Clone()

	childSite := layer.StackSite{Stack: site.Stack, Path: pathkit.MustPrimPath("Child")}
	_, err := clone.InsertChild(clone.Root().Index, childSite, pcpgraph.Arc{
		Kind:        pcpgraph.ArcReference,
		MapToParent: mapexpr.Identity(),
	}, less)
	require.NoError(t, err)

	require.Equal(t, 1, g.NodeCount())
	require.Equal(t, 2, clone.NodeCount())
}

func TestAppendChildNameToAllSites(t *testing.T) {
	site := testRootSite(t)
	g := pcpgraph.NewGraph(site, true)

	require.NoError(t, g.AppendChildNameToAllSites("Foo"))
	require.Equal(t, "/Foo", g.Root().Path().String())
}

func TestGetNodeUsingSite_FindsExistingNode(t *testing.T) {
	site := testRootSite(t)
	g := pcpgraph.NewGraph(site, true)

	idx, ok := g.GetNodeUsingSite(site)
	require.True(t, ok)
	require.Equal(t, g.Root().Index, idx)

	other := layer.StackSite{Stack: site.Stack, Path: pathkit.MustPrimPath("NotThere")}
	_, ok = g.GetNodeUsingSite(other)
	require.False(t, ok)
}
