package pcpindex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/layerfixture"
	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpgraph"
	"github.com/arborcomp/primforge/pcpindex"
)

func arbitraryLess(g *pcpgraph.Graph) pcpgraph.SiblingLess {
	return func(a, b pcpgraph.NodeIndex) bool {
		na, nb := g.Node(a), g.Node(b)

		return pcpgraph.CompareArcKindStrength(na.ArcKind(), nb.ArcKind()) < 0
	}
}

// A node introduced by an arc (DepthBelowIntroduction == 0) is never
// culled even without its own spec; a node reached one namespace level
// below that introduction, with no spec and no children of its own, is.
func TestFinalize_CullsNodeBelowItsIntroductionWithNoOpinion(t *testing.T) {
	rootLayer := layerfixture.NewLayer("root.usd")
	rootStack := layerfixture.NewStack([]layer.Layer{rootLayer})
	otherLayer := layerfixture.NewLayer("other.usd")
	otherStack := layerfixture.NewStack([]layer.Layer{otherLayer})

	rootSite := layer.StackSite{Stack: rootStack, Path: pathkit.MustPrimPath("Foo")}
	g := pcpgraph.NewGraph(rootSite, false)
	less := arbitraryLess(g)

	childSite := layer.StackSite{Stack: otherStack, Path: pathkit.MustPrimPath("Other")}
	_, err := g.InsertChild(g.Root().Index, childSite, pcpgraph.Arc{
		Kind:           pcpgraph.ArcReference,
		MapToParent:    mapexpr.Identity(),
		NamespaceDepth: 1,
	}, less)
	require.NoError(t, err)
	require.Equal(t, 2, g.NodeCount())

	require.NoError(t, g.AppendChildNameToAllSites("Sub"))

	idx := pcpindex.Finalize(g, pcpindex.FinalizeOptions{Cull: true})

	require.Equal(t, 1, idx.Graph.NodeCount(), "the reference node below its own introduction carries no opinion and is erased")
}

func TestFinalize_DoesNotCullArcIntroductionNodeEvenWithoutSpec(t *testing.T) {
	rootLayer := layerfixture.NewLayer("root.usd")
	rootStack := layerfixture.NewStack([]layer.Layer{rootLayer})
	otherLayer := layerfixture.NewLayer("other.usd")
	otherStack := layerfixture.NewStack([]layer.Layer{otherLayer})

	rootSite := layer.StackSite{Stack: rootStack, Path: pathkit.MustPrimPath("Foo")}
	g := pcpgraph.NewGraph(rootSite, false)
	less := arbitraryLess(g)

	childSite := layer.StackSite{Stack: otherStack, Path: pathkit.MustPrimPath("Other")}
	_, err := g.InsertChild(g.Root().Index, childSite, pcpgraph.Arc{
		Kind:           pcpgraph.ArcReference,
		MapToParent:    mapexpr.Identity(),
		NamespaceDepth: 1,
	}, less)
	require.NoError(t, err)

	idx := pcpindex.Finalize(g, pcpindex.FinalizeOptions{Cull: true})

	require.Equal(t, 2, idx.Graph.NodeCount(), "the reference arc's own introduction point is kept regardless of its own opinion")
}
