package pcptask

// Stage identifies which evaluator pass a Task belongs to. Stages run in
// the fixed order below, strongest (highest-priority) first; within a
// stage, Task.Tiebreak (and, failing that, insertion order) decides
// which of several pending tasks for that stage runs next.
type Stage int

const (
	StageNodeRelocations Stage = iota
	StageImpliedRelocations
	StageNodeReferences
	StageNodePayloads
	StageNodeInherits
	StageImpliedClasses
	StageNodeSpecializes
	StageNodeAncestralVariantSetsAuthored
	StageNodeAncestralVariantSetsFallback
	StageNodeAncestralVariantSetsNoneFound
	StageNodeAncestralDynamicPayloads
	StageImpliedSpecializes
	StageNodeVariantSetsAuthored
	StageNodeVariantSetsFallback
	StageNodeVariantSetsNoneFound
	StageNodeDynamicPayloads
	StageUnresolvedPrimPathError
	StageNone
)

// stageCount is one past the last real stage value, used to invert stage
// order into heap priority (lower Stage value = runs first = higher
// heap priority).
const stageCount = int(StageNone) + 1

// priority returns s's heap priority: larger runs first.
func (s Stage) priority() int { return stageCount - int(s) }

// String renders a Stage for diagnostics.
func (s Stage) String() string {
	switch s {
	case StageNodeRelocations:
		return "EvalNodeRelocations"
	case StageImpliedRelocations:
		return "EvalImpliedRelocations"
	case StageNodeReferences:
		return "EvalNodeReferences"
	case StageNodePayloads:
		return "EvalNodePayloads"
	case StageNodeInherits:
		return "EvalNodeInherits"
	case StageImpliedClasses:
		return "EvalImpliedClasses"
	case StageNodeSpecializes:
		return "EvalNodeSpecializes"
	case StageNodeAncestralVariantSetsAuthored:
		return "EvalNodeAncestralVariantSetsAuthored"
	case StageNodeAncestralVariantSetsFallback:
		return "EvalNodeAncestralVariantSetsFallback"
	case StageNodeAncestralVariantSetsNoneFound:
		return "EvalNodeAncestralVariantSetsNoneFound"
	case StageNodeAncestralDynamicPayloads:
		return "EvalNodeAncestralDynamicPayloads"
	case StageImpliedSpecializes:
		return "EvalImpliedSpecializes"
	case StageNodeVariantSetsAuthored:
		return "EvalNodeVariantSetsAuthored"
	case StageNodeVariantSetsFallback:
		return "EvalNodeVariantSetsFallback"
	case StageNodeVariantSetsNoneFound:
		return "EvalNodeVariantSetsNoneFound"
	case StageNodeDynamicPayloads:
		return "EvalNodeDynamicPayloads"
	case StageUnresolvedPrimPathError:
		return "EvalUnresolvedPrimPathError"
	case StageNone:
		return "None"
	default:
		return "Unknown"
	}
}
