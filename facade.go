package primforge

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpbuild"
	"github.com/arborcomp/primforge/pcpgraph"
	"github.com/arborcomp/primforge/pcpindex"
)

// Inputs configures one BuildPrimIndex call.
type Inputs struct {
	// Cache resolves an external reference/payload's asset path, as
	// authored at referencingSite, to an already-constructed layer
	// stack. Layer-stack construction and caching of computed indexes
	// across requests are both the caller's concern; this is the single
	// collaborator hook the engine consumes for it (mirrors
	// pcpbuild.Options.ResolveAssetStack).
	Cache func(assetPath string, referencingSite layer.StackSite) (layer.Stack, error)

	// VariantFallbacks gives, per variant set name, an ordered list of
	// fallback variant names to try when no selection is authored.
	VariantFallbacks map[string][]string

	// IncludedPayloads, if non-nil, restricts payload inclusion to the
	// named paths; may be shared across concurrent builds, guarded by
	// its own Mu.
	IncludedPayloads *pcpbuild.IncludedPayloads

	// IncludePayloadPredicate, if non-nil, decides payload inclusion by
	// path when IncludedPayloads is nil.
	IncludePayloadPredicate func(pathkit.Path) bool

	// Cull runs pcpindex's culling pass over the built graph.
	Cull bool

	// Usd disables permission enforcement, symmetry bookkeeping, and
	// list-ordering restatement, and suppresses prim-stack retention.
	Usd bool

	// FileFormatTarget is passed through to dynamic file-format argument
	// generation as the requested rendering target.
	FileFormatTarget string

	// MutedLayerIdentifiers names root-layer identifiers that must not
	// be composed into the index.
	MutedLayerIdentifiers map[string]bool

	// DynamicFileFormatClassifier and DynamicFileFormatPlugin implement
	// the dynamic file-format plugin contract (§6): the classifier gates
	// whether a payload's asset path is dynamic, the plugin generates
	// its file-format arguments.
	DynamicFileFormatClassifier layer.DynamicFileFormatClassifier
	DynamicFileFormatPlugin     layer.DynamicFileFormatPlugin

	// InstanceableFilter, when non-nil, restricts
	// Outputs.ComputePrimChildNames's traversal to nodes it returns true
	// for — the hook an instancing layer built on top of this engine
	// would use to keep its prototype-sharing invariant; this package
	// has no opinion on what "instanceable" means and never evaluates
	// the filter itself during Build.
	InstanceableFilter func(pcpgraph.NodeRef) bool
}

// CompositionError is the common interface every error kind this package
// accumulates satisfies, so a caller can filter Outputs.AllErrors
// generically instead of type-switching per concrete error type.
type CompositionError interface {
	error
	Kind() string
	Site() layer.StackSite
}

// Outputs is the result of one BuildPrimIndex call.
type Outputs struct {
	PrimIndex *pcpindex.PrimIndex
	AllErrors []CompositionError

	PayloadState                  pcpbuild.PayloadState
	HasPayloads                   bool
	DynamicFileFormatDependency   *pcpbuild.DynamicFileFormatDependency
	ExpressionVariablesDependency *pcpbuild.ExpressionVariablesDependency
	CulledDependencies            []pcpbuild.CulledDependency

	instanceableFilter func(pcpgraph.NodeRef) bool
}

// ComputePrimChildNames composes the name children of the indexed prim,
// applying the InstanceableFilter the caller passed to BuildPrimIndex, if
// any.
func (o *Outputs) ComputePrimChildNames() (nameOrder []string, prohibited map[string]bool) {
	return o.PrimIndex.ComputePrimChildNames(o.instanceableFilter)
}

// BuildPrimIndex composes path within rootLayerStack into a prim index,
// per Inputs, returning the finalized index plus every error and
// dependency the build accumulated along the way. The returned error is
// always nil: per §7, composition errors are never hard failures, only
// accumulated into Outputs.AllErrors.
func BuildPrimIndex(path pathkit.Path, rootLayerStack layer.Stack, inputs Inputs) (*Outputs, error) {
	opts := pcpbuild.DefaultOptions()
	opts.VariantFallbacks = inputs.VariantFallbacks
	opts.IncludedPayloads = inputs.IncludedPayloads
	opts.IncludePayloadPredicate = inputs.IncludePayloadPredicate
	opts.Usd = inputs.Usd
	opts.FileFormatTarget = inputs.FileFormatTarget
	opts.ResolveAssetStack = inputs.Cache
	opts.MutedLayerIdentifiers = inputs.MutedLayerIdentifiers
	opts.DynamicFileFormatClassifier = inputs.DynamicFileFormatClassifier
	opts.DynamicFileFormatPlugin = inputs.DynamicFileFormatPlugin

	site := layer.StackSite{Stack: rootLayerStack, Path: path}
	b := pcpbuild.Build(site, opts, nil)

	idx := pcpindex.Finalize(b.Graph, pcpindex.FinalizeOptions{Cull: inputs.Cull, Usd: inputs.Usd})

	allErrors := make([]CompositionError, 0, len(b.Errors)+len(idx.LocalErrors))
	for _, e := range b.Errors {
		allErrors = append(allErrors, e)
	}
	for _, e := range idx.LocalErrors {
		allErrors = append(allErrors, e)
	}

	return &Outputs{
		PrimIndex:                     idx,
		AllErrors:                     allErrors,
		PayloadState:                  b.PayloadState,
		HasPayloads:                   b.HasPayloads,
		DynamicFileFormatDependency:   b.DynamicFileFormatDependency,
		ExpressionVariablesDependency: b.ExpressionVariablesDependency,
		CulledDependencies:            b.CulledDependencies,
		instanceableFilter:            inputs.InstanceableFilter,
	}, nil
}
