package pcptask

import (
	"strconv"

	"github.com/arborcomp/primforge/pcpgraph"
)

// Task is one unit of scheduled work: evaluate stage's arc-expansion
// logic at node. Tiebreak breaks ties between same-stage tasks, larger
// first: pcpbuild derives it from the node's pool index (earlier-inserted
// node first) for reference, payload, inherit, specialize, variant and
// dynamic-payload tasks and leaves it zero otherwise, in which case
// insertion order alone decides.
type Task struct {
	Stage     Stage
	Node      pcpgraph.NodeIndex
	Tiebreak  int64
	VariantSet string

	seq int64
}

// DedupKey returns the key used to suppress duplicate ImpliedClasses and
// ImpliedSpecializes tasks for the same node; other stages return "",
// meaning "never deduplicated".
func (t Task) DedupKey() string {
	switch t.Stage {
	case StageImpliedClasses, StageImpliedSpecializes:
		return t.Stage.String() + ":" + nodeKey(t.Node)
	default:
		return ""
	}
}

func nodeKey(n pcpgraph.NodeIndex) string {
	return strconv.Itoa(int(n))
}
