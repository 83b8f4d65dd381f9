package diagnostic

import "errors"

// ErrNotStrictOrder indicates AssertStrictOrder found two distinct
// elements that compared equal, or a comparator result that violates
// antisymmetry or transitivity over the given set.
var ErrNotStrictOrder = errors.New("diagnostic: comparator is not a strict total order over the given set")

// ErrDuplicateSiblings indicates two distinct sibling nodes compared
// equal under strength.CompareSiblings.
var ErrDuplicateSiblings = errors.New("diagnostic: duplicate sibling strength")
