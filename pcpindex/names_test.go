package pcpindex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/layerfixture"
	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpbuild"
	"github.com/arborcomp/primforge/pcpindex"
)

func TestComputePrimChildNames_MergesAcrossReferenceInDiscoveryOrder(t *testing.T) {
	root := layerfixture.NewLayer("root.usd",
		layerfixture.WithSpec(pathkit.MustPrimPath("Foo"), map[string]layer.Value{
			pcpbuild.FieldReferences: []layer.ReferenceListOp{
				{PrimPath: pathkit.MustPrimPath("Class")},
			},
			pcpbuild.FieldPrimChildren: []string{"C"},
		}),
		layerfixture.WithSpec(pathkit.MustPrimPath("Class"), map[string]layer.Value{
			pcpbuild.FieldPrimChildren: []string{"A", "B"},
		}),
	)
	stack := layerfixture.NewStack([]layer.Layer{root})

	b := pcpbuild.Build(layer.StackSite{Stack: stack, Path: pathkit.MustPrimPath("Foo")}, pcpbuild.DefaultOptions(), nil)
	require.Empty(t, b.Errors)

	idx := pcpindex.Finalize(b.Graph, pcpindex.FinalizeOptions{Cull: true})

	names, prohibited := idx.ComputePrimChildNames(nil)

	require.Equal(t, []string{"A", "B", "C"}, names)
	require.Empty(t, prohibited)
}

func TestComputePrimChildNames_RestatementReordersNames(t *testing.T) {
	l := layerfixture.NewLayer("root.usd",
		layerfixture.WithSpec(pathkit.MustPrimPath("Foo"), map[string]layer.Value{
			pcpbuild.FieldPrimChildren: []string{"A", "B", "C"},
			pcpbuild.FieldPrimOrder:    []string{"C", "A"},
		}),
	)
	stack := layerfixture.NewStack([]layer.Layer{l})

	b := pcpbuild.Build(layer.StackSite{Stack: stack, Path: pathkit.MustPrimPath("Foo")}, pcpbuild.DefaultOptions(), nil)
	require.Empty(t, b.Errors)

	idx := pcpindex.Finalize(b.Graph, pcpindex.FinalizeOptions{Cull: true})

	names, _ := idx.ComputePrimChildNames(nil)

	require.Equal(t, []string{"C", "A", "B"}, names)
}

func TestComputePrimChildNames_RelocationRenamesAndProhibits(t *testing.T) {
	// "Old" is contributed by a weaker, referenced site; /Foo's own
	// layer stack relocates it to "New" as the walk reaches /Foo itself.
	l := layerfixture.NewLayer("root.usd",
		layerfixture.WithSpec(pathkit.MustPrimPath("Foo"), map[string]layer.Value{
			pcpbuild.FieldReferences: []layer.ReferenceListOp{
				{PrimPath: pathkit.MustPrimPath("Class")},
			},
		}),
		layerfixture.WithSpec(pathkit.MustPrimPath("Class"), map[string]layer.Value{
			pcpbuild.FieldPrimChildren: []string{"Old"},
		}),
	)
	stack := layerfixture.NewStack([]layer.Layer{l}, layerfixture.WithRelocates(map[string]string{
		"/Foo/Old": "/Foo/New",
	}))

	b := pcpbuild.Build(layer.StackSite{Stack: stack, Path: pathkit.MustPrimPath("Foo")}, pcpbuild.DefaultOptions(), nil)
	require.Empty(t, b.Errors)

	idx := pcpindex.Finalize(b.Graph, pcpindex.FinalizeOptions{Cull: true})

	names, prohibited := idx.ComputePrimChildNames(nil)

	require.Equal(t, []string{"New"}, names)
	require.True(t, prohibited["Old"])
}

func TestComputePrimPropertyNames_IgnoresRelocationsAndProhibitedNames(t *testing.T) {
	l := layerfixture.NewLayer("root.usd",
		layerfixture.WithSpec(pathkit.MustPrimPath("Foo"), map[string]layer.Value{
			pcpbuild.FieldPropertyChildren: []string{"size", "color"},
		}),
	)
	stack := layerfixture.NewStack([]layer.Layer{l})

	b := pcpbuild.Build(layer.StackSite{Stack: stack, Path: pathkit.MustPrimPath("Foo")}, pcpbuild.DefaultOptions(), nil)
	require.Empty(t, b.Errors)

	idx := pcpindex.Finalize(b.Graph, pcpindex.FinalizeOptions{Cull: true})

	names := idx.ComputePrimPropertyNames()

	require.Equal(t, []string{"size", "color"}, names)
}
