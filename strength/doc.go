// Package strength implements the total strength order over prim index
// nodes: given any two nodes of the same graph, which one's opinions win.
// Sibling comparison (CompareSiblings) is what pcpgraph.Graph.InsertChild
// uses, via the SiblingLess callback, to keep each node's children sorted
// strongest-first as they are inserted; CompareNodes extends that to any
// two nodes anywhere in the graph by walking both paths to the shared
// root and comparing the diverging pair of siblings.
//
// The specializes arc kind requires special handling throughout, because
// specializes nodes are propagated to the root of the graph (see
// pcpbuild's implied-specializes pass) independently of the namespace
// depth at which they were authored; a plain "deeper wins" rule would
// rank them wrong.
package strength
