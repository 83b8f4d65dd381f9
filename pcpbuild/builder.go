package pcpbuild

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/pcpgraph"
	"github.com/arborcomp/primforge/pcptask"
)

// Builder holds the mutable state of one Build invocation: its graph, its
// task queue, the options it runs under, and the accumulated
// errors/dependencies §6's Outputs ultimately surfaces.
type Builder struct {
	Graph *pcpgraph.Graph

	opts  Options
	frame *StackFrame
	queue *pcptask.Queue

	Errors                        []*CompositionError
	DynamicFileFormatDependency   *DynamicFileFormatDependency
	ExpressionVariablesDependency *ExpressionVariablesDependency
	CulledDependencies            []CulledDependency
	PayloadState                  PayloadState
	HasPayloads                   bool

	arcCount         int
	capacityReported bool
}

func newBuilder(opts Options, frame *StackFrame) *Builder {
	return &Builder{
		opts:                          opts,
		frame:                         frame,
		queue:                         pcptask.NewQueue(),
		DynamicFileFormatDependency:   newDynamicFileFormatDependency(),
		ExpressionVariablesDependency: &ExpressionVariablesDependency{},
		PayloadState:                  NoPayload,
	}
}

// Build indexes site, first recursing to establish the ancestral subgraph
// when site's path has a parent other than the pseudo-root (§2's data
// flow paragraph: "recursively indexes the parent ... then clones it and
// appends the child name to every node's path"), then drains the task
// queue until stable.
func Build(site layer.StackSite, opts Options, frame *StackFrame) *Builder {
	b := newBuilder(opts, frame)

	parentPath, hasParent := site.Path.ParentPath()
	if !hasParent || parentPath.IsRoot() {
		b.Graph = pcpgraph.NewGraph(site, opts.Usd)
		root := b.Graph.Root()
		root.SetHasSpecs(composeSiteHasPrimSpecs(site))
		b.scanArcs(root, nil)
	} else {
		ancestral := Build(layer.StackSite{Stack: site.Stack, Path: parentPath}, opts, frame)
		b.absorb(ancestral)

		g := ancestral.Graph.Clone()
		if err := g.AppendChildNameToAllSites(site.Path.Name()); err != nil {
			b.reportCapacity(err, site)
		}
		b.Graph = g

		// Every node of the ancestral graph now addresses the child prim
		// under its own arc's target, not just the graph's own root: each
		// one is rescanned at its new (one level deeper) path, since the
		// child prim may introduce arcs of its own beneath any of them.
		var toScan []pcpgraph.NodeRef
		g.ForEachNodeStrongToWeak(func(n pcpgraph.NodeRef) bool {
			n.SetIsDueToAncestor(true)
			n.SetHasSpecs(composeSiteHasPrimSpecs(n.Site()))
			toScan = append(toScan, n)

			return true
		})
		for _, n := range toScan {
			b.scanArcs(n, nil)
		}
	}

	b.run()

	return b
}

// absorb merges a nested Builder's errors and dependency tracking into b,
// used both for the ancestral recursion above and for AddArc's
// include_ancestral_opinions recursion.
func (b *Builder) absorb(nested *Builder) {
	b.Errors = append(b.Errors, nested.Errors...)
	b.DynamicFileFormatDependency.merge(nested.DynamicFileFormatDependency)
	b.ExpressionVariablesDependency.merge(nested.ExpressionVariablesDependency)
	b.CulledDependencies = append(b.CulledDependencies, nested.CulledDependencies...)
	if nested.HasPayloads {
		b.HasPayloads = true
	}
}

func (b *Builder) push(t pcptask.Task) { b.queue.Push(t) }

func (b *Builder) reportError(cause error, site layer.StackSite) {
	b.Errors = append(b.Errors, newCompositionError(cause, site))
}

func (b *Builder) reportCapacity(cause error, site layer.StackSite) {
	if b.capacityReported {
		return
	}
	b.capacityReported = true
	b.reportError(cause, site)
}

// run drains the task queue, dispatching each popped Task to its
// evaluator, until empty (§4.4's "until the graph is stable").
func (b *Builder) run() {
	for {
		t, ok := b.queue.Pop()
		if !ok {
			return
		}
		b.dispatch(t)
	}
}

func (b *Builder) dispatch(t pcptask.Task) {
	node := b.Graph.Node(t.Node)
	if !node.IsValid() {
		return
	}

	switch t.Stage {
	case pcptask.StageNodeRelocations:
		b.evalNodeRelocations(node)
	case pcptask.StageImpliedRelocations:
		b.evalImpliedRelocations(node)
	case pcptask.StageNodeReferences:
		b.evalNodeReferences(node)
	case pcptask.StageNodePayloads:
		b.evalNodePayloads(node)
	case pcptask.StageNodeInherits:
		b.evalNodeInherits(node)
	case pcptask.StageImpliedClasses:
		b.evalImpliedClasses(node)
	case pcptask.StageNodeSpecializes:
		b.evalNodeSpecializes(node)
	case pcptask.StageNodeAncestralVariantSetsAuthored, pcptask.StageNodeVariantSetsAuthored:
		b.evalVariantAuthored(node, t)
	case pcptask.StageNodeAncestralVariantSetsFallback, pcptask.StageNodeVariantSetsFallback:
		b.evalVariantFallback(node, t)
	case pcptask.StageNodeAncestralVariantSetsNoneFound, pcptask.StageNodeVariantSetsNoneFound:
		// No arc to add here; this stage only occupies the priority slot
		// so RetryVariantTasks has a pending task to promote if a later
		// arc introduces an authored selection (Testable Property 10).
	case pcptask.StageNodeAncestralDynamicPayloads, pcptask.StageNodeDynamicPayloads:
		b.evalDynamicPayload(node, t)
	case pcptask.StageImpliedSpecializes:
		b.evalImpliedSpecializes(node)
	case pcptask.StageUnresolvedPrimPathError:
		// Reserved as the lowest-priority sentinel stage (§4.4); this
		// implementation reports UnresolvedPrimPath eagerly when the
		// reference/payload evaluator discovers it rather than deferring
		// to a re-check at drain time (see DESIGN.md).
	}
}
