// Package pcpgraph implements the prim index's node graph: the data
// structure recording, for one namespace path, every layer-stack site
// that contributes (or might contribute) opinions, and the arc that
// brought each site into the graph.
//
// A Graph owns a pool of nodes addressed by stable NodeIndex values
// rather than pointers, so cycles in the *ownership* sense never arise
// even though the composition arcs themselves may describe cyclic
// references elsewhere in the scene (cycle detection lives one layer up,
// in pcpbuild, which walks this graph). The pool is shared across related
// Graphs (e.g. an ancestral subgraph reused by several children) via
// copy-on-write: cloning a Graph is O(1) until the clone's first mutating
// call, which then pays to unshare its pool. This mirrors core.Graph's
// own RWMutex-guarded vertex/edge maps, generalized from "lock before
// mutate" to "clone before mutate" because pcpgraph's sharing is between
// distinct Graph values built sequentially on one goroutine, not between
// concurrent readers of one Graph.
package pcpgraph
