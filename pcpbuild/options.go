package pcpbuild

import (
	"sync"

	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/pathkit"
)

// PayloadState records why a given payload arc was, or was not, included
// in the built index, surfaced on Builder.PayloadState and ultimately on
// primforge.Outputs.PayloadState (§6).
type PayloadState int

const (
	// NoPayload means the indexed prim has no authored payload.
	NoPayload PayloadState = iota
	// IncludedByIncludeSet means Options.IncludedPayloads named this path.
	IncludedByIncludeSet
	// ExcludedByIncludeSet means IncludedPayloads is set but omits this path.
	ExcludedByIncludeSet
	// IncludedByPredicate means Options.IncludePayloadPredicate returned true.
	IncludedByPredicate
	// ExcludedByPredicate means the predicate returned false.
	ExcludedByPredicate
)

// String renders a PayloadState for diagnostics.
func (s PayloadState) String() string {
	switch s {
	case NoPayload:
		return "NoPayload"
	case IncludedByIncludeSet:
		return "IncludedByIncludeSet"
	case ExcludedByIncludeSet:
		return "ExcludedByIncludeSet"
	case IncludedByPredicate:
		return "IncludedByPredicate"
	case ExcludedByPredicate:
		return "ExcludedByPredicate"
	default:
		return "Unknown"
	}
}

// IncludedPayloads is the request-scoped set of payload paths to include,
// shareable read-mostly across concurrent builds per §5; Mu, when
// non-nil, is locked for every read so a caller may safely mutate Set
// between builds under the same mutex.
type IncludedPayloads struct {
	Mu  *sync.RWMutex
	Set map[string]struct{}
}

func (p *IncludedPayloads) contains(path pathkit.Path) bool {
	if p == nil || p.Set == nil {
		return false
	}
	if p.Mu != nil {
		p.Mu.RLock()
		defer p.Mu.RUnlock()
	}
	_, ok := p.Set[path.String()]

	return ok
}

// Options configures one Build invocation, top-level or recursive.
type Options struct {
	// VariantFallbacks gives, per variant set name, an ordered list of
	// fallback variant names to try when no selection is authored.
	VariantFallbacks map[string][]string

	// IncludedPayloads, if non-nil, restricts payload inclusion to the
	// named paths (PayloadState IncludedByIncludeSet/ExcludedByIncludeSet).
	IncludedPayloads *IncludedPayloads

	// IncludePayloadPredicate, if non-nil, decides payload inclusion by
	// path when IncludedPayloads is nil (PayloadState
	// IncludedByPredicate/ExcludedByPredicate).
	IncludePayloadPredicate func(pathkit.Path) bool

	// Usd disables permission/symmetry/list-ordering bookkeeping, per §6.
	Usd bool

	// FileFormatTarget is passed through to dynamic file-format argument
	// generation as the requested rendering target.
	FileFormatTarget string

	// EvaluateVariants and EvaluateDynamicPayloads, when false, suppress
	// their respective stages — set false on the nested Build call §4.4.1
	// step 4 makes for an ancestral (IncludeAncestralOpinions) arc, per
	// §4.4.3: those concerns belong to the enclosing build.
	EvaluateVariants        bool
	EvaluateDynamicPayloads bool

	// ResolveAssetStack resolves an external reference/payload's asset
	// path, as authored at referencingSite, to an already-constructed
	// layer stack. Asset resolution and layer-stack construction are both
	// out of scope (§1); a nil ResolveAssetStack means every external
	// (non-internal) reference or payload fails with ErrInvalidAssetPath.
	ResolveAssetStack func(assetPath string, referencingSite layer.StackSite) (layer.Stack, error)

	// MutedLayerIdentifiers names root-layer identifiers (layer.Identifier.RootLayer)
	// that must not be composed into the index; a reference or payload
	// resolving to one of these fails with ErrMutedAssetPath.
	MutedLayerIdentifiers map[string]bool

	// DynamicFileFormatClassifier reports whether a payload's asset path
	// names a dynamic file format, gating DynamicFileFormatPlugin
	// invocation.
	DynamicFileFormatClassifier layer.DynamicFileFormatClassifier

	// DynamicFileFormatPlugin generates file-format arguments for payloads
	// the classifier flags as dynamic.
	DynamicFileFormatPlugin layer.DynamicFileFormatPlugin
}

// DefaultOptions returns Options with every stage enabled, suitable for a
// top-level Build call; a caller overrides VariantFallbacks/Usd/etc.
// after copying it.
func DefaultOptions() Options {
	return Options{EvaluateVariants: true, EvaluateDynamicPayloads: true}
}

// ForAncestralRecursion returns a copy of o with variants and dynamic
// payloads disabled, for the nested Build call an ancestral arc makes.
func (o Options) ForAncestralRecursion() Options {
	out := o
	out.EvaluateVariants = false
	out.EvaluateDynamicPayloads = false

	return out
}
