// Package pcptask provides the priority task queue the builder uses to
// schedule the evaluators that expand a prim index's node graph one arc
// at a time. Queue is a container/heap-backed max-heap of Task ordered
// by Stage, with a kind-specific tiebreak within a stage — grounded on
// dijkstra's nodePQ/heap.Interface implementation (Len, Less, Swap,
// Push, Pop), generalized from a min-heap of (dist, id) pairs ordered
// for "process nearest first" to a max-heap of (stage, tiebreak) pairs
// ordered for "process highest-priority stage first", using the same
// lazy style: nothing is ever decrease-keyed in place, entries are
// pushed and stale ones are simply never looked at again because each
// stage only ever runs once per node.
package pcptask
