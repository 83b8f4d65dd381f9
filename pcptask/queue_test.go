package pcptask_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborcomp/primforge/pcpgraph"
	"github.com/arborcomp/primforge/pcptask"
)

func TestQueue_PopsInStageOrder(t *testing.T) {
	q := pcptask.NewQueue()
	q.Push(pcptask.Task{Stage: pcptask.StageNodeDynamicPayloads, Node: 1})
	q.Push(pcptask.Task{Stage: pcptask.StageNodeRelocations, Node: 2})
	q.Push(pcptask.Task{Stage: pcptask.StageNodeReferences, Node: 3})

	first, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, pcptask.StageNodeRelocations, first.Stage)

	second, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, pcptask.StageNodeReferences, second.Stage)

	third, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, pcptask.StageNodeDynamicPayloads, third.Stage)

	_, ok = q.Pop()
	require.False(t, ok)
}

func TestQueue_SameStageFIFOOnZeroTiebreak(t *testing.T) {
	q := pcptask.NewQueue()
	q.Push(pcptask.Task{Stage: pcptask.StageNodeReferences, Node: 1})
	q.Push(pcptask.Task{Stage: pcptask.StageNodeReferences, Node: 2})

	first, _ := q.Pop()
	second, _ := q.Pop()
	require.Equal(t, pcpgraph.NodeIndex(1), first.Node)
	require.Equal(t, pcpgraph.NodeIndex(2), second.Node)
}

func TestQueue_HigherTiebreakFirst(t *testing.T) {
	q := pcptask.NewQueue()
	q.Push(pcptask.Task{Stage: pcptask.StageNodeVariantSetsAuthored, Node: 1, Tiebreak: 5})
	q.Push(pcptask.Task{Stage: pcptask.StageNodeVariantSetsAuthored, Node: 2, Tiebreak: 10})

	first, _ := q.Pop()
	require.Equal(t, pcpgraph.NodeIndex(2), first.Node)
}

func TestQueue_DeduplicatesImpliedClasses(t *testing.T) {
	q := pcptask.NewQueue()
	inserted := q.Push(pcptask.Task{Stage: pcptask.StageImpliedClasses, Node: 7})
	require.True(t, inserted)

	insertedAgain := q.Push(pcptask.Task{Stage: pcptask.StageImpliedClasses, Node: 7})
	require.False(t, insertedAgain)
	require.Equal(t, 1, q.Len())
}

func TestQueue_RetryVariantTasksPromotesFallback(t *testing.T) {
	q := pcptask.NewQueue()
	q.Push(pcptask.Task{Stage: pcptask.StageNodeVariantSetsFallback, Node: 3, VariantSet: "shadingStyle"})
	q.Push(pcptask.Task{Stage: pcptask.StageNodeReferences, Node: 4})

	promoted := q.RetryVariantTasks(3, "shadingStyle")
	require.Equal(t, 1, promoted)

	first, _ := q.Pop()
	require.Equal(t, pcptask.StageNodeVariantSetsAuthored, first.Stage)
}
