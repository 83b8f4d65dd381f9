package diagnostic

import (
	"fmt"

	"github.com/arborcomp/primforge/pcpgraph"
)

// AssertStrictOrder checks that cmp is a strict total order over elems:
// antisymmetric (cmp(a,b) == -cmp(b,a)), distinct elements never compare
// equal, and transitive (a<b and b<c implies a<c). It is O(n^3) and
// meant for test fixtures, not production call sites.
func AssertStrictOrder(elems []pcpgraph.NodeRef, cmp func(a, b pcpgraph.NodeRef) int) error {
	n := len(elems)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			fwd := cmp(elems[i], elems[j])
			rev := cmp(elems[j], elems[i])
			if fwd != -rev {
				return fmt.Errorf("%w: cmp(%d,%d)=%d but cmp(%d,%d)=%d, want negation",
					ErrNotStrictOrder, i, j, fwd, j, i, rev)
			}
			if fwd == 0 && !elems[i].Equals(elems[j]) {
				return fmt.Errorf("%w: distinct elements %d and %d compare equal", ErrNotStrictOrder, i, j)
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if cmp(elems[i], elems[j]) >= 0 {
				continue
			}
			for k := 0; k < n; k++ {
				if cmp(elems[j], elems[k]) < 0 && cmp(elems[i], elems[k]) >= 0 {
					return fmt.Errorf("%w: %d<%d and %d<%d but not %d<%d", ErrNotStrictOrder, i, j, j, k, i, k)
				}
			}
		}
	}

	return nil
}
