package pcptask

import (
	"container/heap"

	"github.com/arborcomp/primforge/pcpgraph"
)

// Queue is a max-heap of Task ordered by (Stage priority, Tiebreak,
// insertion order), with insertion-time deduplication for stages whose
// DedupKey is non-empty.
type Queue struct {
	h       taskHeap
	seen    map[string]struct{}
	nextSeq int64
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{seen: make(map[string]struct{})}
}

// Len reports the number of pending tasks.
func (q *Queue) Len() int { return len(q.h) }

// Push enqueues t, returning false without inserting it if t's DedupKey
// is non-empty and a task with the same key is already pending.
func (q *Queue) Push(t Task) bool {
	if key := t.DedupKey(); key != "" {
		if _, ok := q.seen[key]; ok {
			return false
		}
		q.seen[key] = struct{}{}
	}
	t.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.h, t)

	return true
}

// Pop removes and returns the highest-priority pending task.
func (q *Queue) Pop() (Task, bool) {
	if len(q.h) == 0 {
		return Task{}, false
	}
	t := heap.Pop(&q.h).(Task)
	if key := t.DedupKey(); key != "" {
		delete(q.seen, key)
	}

	return t, true
}

// RetryVariantTasks promotes every pending fallback/none-found variant
// task for node and variantSet back to its authored-stage counterpart,
// used when a later arc introduces an authored selection for a variant
// set that an earlier pass had already fallen back on. It returns the
// number of tasks promoted.
func (q *Queue) RetryVariantTasks(node pcpgraph.NodeIndex, variantSet string) int {
	promoted := 0
	for i := range q.h {
		t := &q.h[i]
		if t.Node != node || t.VariantSet != variantSet {
			continue
		}
		switch t.Stage {
		case StageNodeVariantSetsFallback, StageNodeVariantSetsNoneFound:
			t.Stage = StageNodeVariantSetsAuthored
			promoted++
		case StageNodeAncestralVariantSetsFallback, StageNodeAncestralVariantSetsNoneFound:
			t.Stage = StageNodeAncestralVariantSetsAuthored
			promoted++
		}
	}
	if promoted > 0 {
		heap.Init(&q.h)
	}

	return promoted
}

// taskHeap implements heap.Interface over []Task, ordered highest
// Stage-priority first, then highest Tiebreak first, then lowest
// insertion sequence first (FIFO among otherwise-equal tasks).
type taskHeap []Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	pi, pj := h[i].Stage.priority(), h[j].Stage.priority()
	if pi != pj {
		return pi > pj
	}
	if h[i].Tiebreak != h[j].Tiebreak {
		return h[i].Tiebreak > h[j].Tiebreak
	}

	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x interface{}) { *h = append(*h, x.(Task)) }

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}
