package pcpgraph

import "errors"

// Sentinel errors for node-graph construction.
var (
	// ErrIndexCapacityExceeded indicates the pool has reached MaxNodes;
	// the per-node index field has a finite width and one value is
	// reserved for InvalidNodeIndex.
	ErrIndexCapacityExceeded = errors.New("pcpgraph: node index capacity exceeded")

	// ErrArcNamespaceDepthCapacityExceeded indicates arc.NamespaceDepth
	// overflowed the field's finite width.
	ErrArcNamespaceDepthCapacityExceeded = errors.New("pcpgraph: arc namespace depth capacity exceeded")

	// ErrInvalidParent indicates an operation referenced a NodeIndex that
	// is not a valid node of the graph it was used against.
	ErrInvalidParent = errors.New("pcpgraph: invalid parent node")
)
