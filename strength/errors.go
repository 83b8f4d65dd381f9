package strength

import "errors"

// ErrNotSiblings indicates CompareSiblings was called with two nodes that
// do not share a parent.
var ErrNotSiblings = errors.New("strength: nodes are not siblings")

// ErrNotSameGraph indicates CompareNodes was called with two nodes whose
// root nodes differ.
var ErrNotSameGraph = errors.New("strength: nodes are not part of the same prim index")
