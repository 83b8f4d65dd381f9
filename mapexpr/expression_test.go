package mapexpr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pathkit"
)

func TestIdentity(t *testing.T) {
	fn, err := mapexpr.Identity().Evaluate()
	require.NoError(t, err)
	require.True(t, fn.IsConstantIdentity())
	require.True(t, fn.HasRootIdentity())

	p := pathkit.MustPrimPath("A", "B")
	out, ok := fn.MapSourceToTarget(p)
	require.True(t, ok)
	require.True(t, out.Equals(p))
}

func TestConstant_PrefixRewrite(t *testing.T) {
	expr := mapexpr.NewConstant([]mapexpr.PathMapEntry{
		{Source: pathkit.MustPrimPath("B"), Target: pathkit.MustPrimPath("A")},
	}, mapexpr.IdentityOffset)
	fn, err := expr.Evaluate()
	require.NoError(t, err)

	out, ok := fn.MapSourceToTarget(pathkit.MustPrimPath("B", "Child"))
	require.True(t, ok)
	require.True(t, out.Equals(pathkit.MustPrimPath("A", "Child")))

	_, ok = fn.MapSourceToTarget(pathkit.MustPrimPath("Other"))
	require.False(t, ok, "path outside the domain must report false, not error")

	back, ok := fn.MapTargetToSource(pathkit.MustPrimPath("A", "Child"))
	require.True(t, ok)
	require.True(t, back.Equals(pathkit.MustPrimPath("B", "Child")))
}

func TestCompose_AppliesLeftThenRight(t *testing.T) {
	childToParent := mapexpr.NewConstant([]mapexpr.PathMapEntry{
		{Source: pathkit.MustPrimPath("Ref"), Target: pathkit.MustPrimPath("Model")},
	}, mapexpr.IdentityOffset)
	parentToRoot := mapexpr.NewConstant([]mapexpr.PathMapEntry{
		{Source: pathkit.MustPrimPath("Model"), Target: pathkit.MustPrimPath("World", "Model")},
	}, mapexpr.IdentityOffset)

	composed := childToParent.Compose(parentToRoot)
	fn, err := composed.Evaluate()
	require.NoError(t, err)

	out, ok := fn.MapSourceToTarget(pathkit.MustPrimPath("Ref", "Instance"))
	require.True(t, ok)
	require.True(t, out.Equals(pathkit.MustPrimPath("World", "Model", "Instance")))
}

func TestInverse(t *testing.T) {
	expr := mapexpr.NewConstant([]mapexpr.PathMapEntry{
		{Source: pathkit.MustPrimPath("B"), Target: pathkit.MustPrimPath("A")},
	}, mapexpr.IdentityOffset)
	fn, err := expr.Inverse().Evaluate()
	require.NoError(t, err)

	out, ok := fn.MapSourceToTarget(pathkit.MustPrimPath("A", "X"))
	require.True(t, ok)
	require.True(t, out.Equals(pathkit.MustPrimPath("B", "X")))
}

func TestAddRootIdentity(t *testing.T) {
	expr := mapexpr.NewConstant([]mapexpr.PathMapEntry{
		{Source: pathkit.MustPrimPath("B"), Target: pathkit.MustPrimPath("A")},
	}, mapexpr.IdentityOffset)
	fn, err := expr.Evaluate()
	require.NoError(t, err)
	_, ok := fn.MapSourceToTarget(pathkit.AbsoluteRootPath)
	require.False(t, ok, "plain constant map has no root rule")

	fnRooted, err := expr.AddRootIdentity().Evaluate()
	require.NoError(t, err)
	require.True(t, fnRooted.HasRootIdentity())
	out, ok := fnRooted.MapSourceToTarget(pathkit.AbsoluteRootPath)
	require.True(t, ok)
	require.True(t, out.IsRoot())
}

func TestVariable_Unbound(t *testing.T) {
	_, err := mapexpr.NewVariable("x").Evaluate()
	require.ErrorIs(t, err, mapexpr.ErrUnboundVariable)
}

func TestVariable_Bound(t *testing.T) {
	env := map[string]mapexpr.Expression{"x": mapexpr.Identity()}
	fn, err := mapexpr.NewVariable("x").EvaluateWithEnv(env)
	require.NoError(t, err)
	require.True(t, fn.IsConstantIdentity())
}

func TestOffset_ComposeAndInverse(t *testing.T) {
	a := mapexpr.Offset{Scale: 2, Delay: 1}
	b := mapexpr.Offset{Scale: 3, Delay: -1}
	composed := a.Compose(b)
	require.InDelta(t, b.MapTime(a.MapTime(10)), composed.MapTime(10), 1e-9)

	inv := a.Inverse()
	require.InDelta(t, 10, inv.MapTime(a.MapTime(10)), 1e-9)
}
