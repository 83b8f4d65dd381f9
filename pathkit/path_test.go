package pathkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborcomp/primforge/pathkit"
)

func TestParsePath_RootAndPrim(t *testing.T) {
	root, err := pathkit.ParsePath("/")
	require.NoError(t, err)
	require.True(t, root.IsRoot())
	require.Equal(t, "/", root.String())

	p, err := pathkit.ParsePath("/A/B")
	require.NoError(t, err)
	require.False(t, p.IsRoot())
	require.Equal(t, []string{"A", "B"}, p.Components())
	require.Equal(t, 2, p.NamespaceDepth())
	require.Equal(t, "B", p.Name())
}

func TestParsePath_VariantSelection(t *testing.T) {
	p, err := pathkit.ParsePath("/A{shadingStyle=red}")
	require.NoError(t, err)
	require.True(t, p.HasVariantSelection())
	require.Equal(t, 1, p.NamespaceDepth(), "variant selections must not add namespace depth")
	require.Equal(t, []pathkit.VariantSelection{{Set: "shadingStyle", Selection: "red"}}, p.Variants())

	stripped := p.StripAllVariantSelections()
	require.False(t, stripped.HasVariantSelection())
	require.True(t, stripped.Equals(pathkit.MustPrimPath("A")))
}

func TestParsePath_Invalid(t *testing.T) {
	_, err := pathkit.ParsePath("A/B")
	require.ErrorIs(t, err, pathkit.ErrInvalidPrimPath)

	_, err = pathkit.ParsePath("/A//B")
	require.ErrorIs(t, err, pathkit.ErrEmptyComponent)
}

func TestParentPath(t *testing.T) {
	p := pathkit.MustPrimPath("A", "B", "C")
	parent, ok := p.ParentPath()
	require.True(t, ok)
	require.True(t, parent.Equals(pathkit.MustPrimPath("A", "B")))

	root, ok := pathkit.AbsoluteRootPath.ParentPath()
	require.False(t, ok)
	require.True(t, root.IsRoot())
}

func TestParentPath_VariantSelectionStripsSuffixOnly(t *testing.T) {
	p := pathkit.MustPrimPath("A").AppendVariantSelection("s", "x")
	parent, ok := p.ParentPath()
	require.True(t, ok)
	require.True(t, parent.Equals(pathkit.MustPrimPath("A")))
}

func TestAppendChild(t *testing.T) {
	p := pathkit.MustPrimPath("A")
	child, err := p.AppendChild("B")
	require.NoError(t, err)
	require.True(t, child.Equals(pathkit.MustPrimPath("A", "B")))

	_, err = p.AppendChild("")
	require.ErrorIs(t, err, pathkit.ErrEmptyComponent)
}

func TestHasPrefix(t *testing.T) {
	a := pathkit.MustPrimPath("A")
	ab := pathkit.MustPrimPath("A", "B")
	require.True(t, a.HasPrefix(ab))
	require.True(t, a.HasPrefix(a))
	require.False(t, ab.HasPrefix(a))
}

func TestIsVariantSelectionSiblingOf(t *testing.T) {
	a := pathkit.MustPrimPath("A")
	av := a.AppendVariantSelection("v", "x")
	require.True(t, a.IsVariantSelectionSiblingOf(av))

	b := pathkit.MustPrimPath("B")
	require.False(t, a.IsVariantSelectionSiblingOf(b))
}

func TestGetCommonPrefix(t *testing.T) {
	a := pathkit.MustPrimPath("A", "B", "C")
	b := pathkit.MustPrimPath("A", "B", "D")
	common := a.GetCommonPrefix(b)
	require.True(t, common.Equals(pathkit.MustPrimPath("A", "B")))
}
