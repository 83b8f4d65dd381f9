package diagnostic

import (
	"fmt"

	"github.com/arborcomp/primforge/pcpgraph"
	"github.com/arborcomp/primforge/strength"
)

// CheckSiblingOrder walks parent's children and reports the first pair
// that strength.CompareSiblings ranks equal, which can only happen for a
// builder bug (InsertChild's SiblingLess callback should have kept that
// from ever being inserted in the first place).
func CheckSiblingOrder(parent pcpgraph.NodeRef) error {
	children := parent.Children()
	for i := 0; i < len(children); i++ {
		for j := i + 1; j < len(children); j++ {
			rc, err := strength.CompareSiblingsChecked(children[i], children[j])
			if err != nil {
				return fmt.Errorf("diagnostic: CheckSiblingOrder: %w", err)
			}
			if rc == 0 {
				return fmt.Errorf("%w: children %d and %d of %s", ErrDuplicateSiblings, i, j, parent.Path())
			}
		}
	}

	return nil
}

// CheckGraph runs CheckSiblingOrder at every node of g, strongest to
// weakest, returning the first violation found.
func CheckGraph(g *pcpgraph.Graph) error {
	var firstErr error
	g.ForEachNodeStrongToWeak(func(n pcpgraph.NodeRef) bool {
		if err := CheckSiblingOrder(n); err != nil {
			firstErr = err
			return false
		}

		return true
	})

	return firstErr
}
