package pcpbuild

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpgraph"
	"github.com/arborcomp/primforge/pcptask"
)

// evalVariantAuthored looks for an authored selection for t.VariantSet at
// node (directly authored, or composed across the graph per
// ComposeVariantSelection) and adds a Variant arc into the selected
// option. Finding none demotes the task to the Fallback stage for the
// same node and variant set (§4.4.2's Variants evaluator, stage 1 of 3).
func (b *Builder) evalVariantAuthored(node pcpgraph.NodeRef, t pcptask.Task) {
	if sel, ok := b.composeAuthoredVariantSelection(node, t.VariantSet); ok {
		b.addVariantArc(node, t.VariantSet, sel)
		return
	}

	fallbackStage := pcptask.StageNodeVariantSetsFallback
	if t.Stage == pcptask.StageNodeAncestralVariantSetsAuthored {
		fallbackStage = pcptask.StageNodeAncestralVariantSetsFallback
	}
	b.push(pcptask.Task{Stage: fallbackStage, Node: node.Index, Tiebreak: t.Tiebreak, VariantSet: t.VariantSet})
}

// evalVariantFallback tries each of Options.VariantFallbacks[t.VariantSet]
// in order against the set's available options, adding a Variant arc for
// the first that exists. Finding none demotes to the NoneFound stage,
// where the task sits inertly until RetryVariantTasks promotes it back
// (§4.4.2's Variants evaluator, stage 2 of 3; Testable Property 10).
func (b *Builder) evalVariantFallback(node pcpgraph.NodeRef, t pcptask.Task) {
	options := variantOptions(node.Site(), t.VariantSet)
	for _, fallback := range b.opts.VariantFallbacks[t.VariantSet] {
		if containsString(options, fallback) {
			b.addVariantArc(node, t.VariantSet, fallback)
			return
		}
	}

	noneFoundStage := pcptask.StageNodeVariantSetsNoneFound
	if t.Stage == pcptask.StageNodeAncestralVariantSetsFallback {
		noneFoundStage = pcptask.StageNodeAncestralVariantSetsNoneFound
	}
	b.push(pcptask.Task{Stage: noneFoundStage, Node: node.Index, Tiebreak: t.Tiebreak, VariantSet: t.VariantSet})
}

// addVariantArc adds the Variant arc for node's chosen selection and
// retries any already-demoted fallback/none-found task for the same
// (node, variant set), per §4.4.2's "a later, stronger authored selection
// retries any variant set already resolved by fallback".
func (b *Builder) addVariantArc(node pcpgraph.NodeRef, variantSet, selection string) {
	variantPath := node.Path().AppendVariantSelection(variantSet, selection)

	sourceSite := layer.StackSite{Stack: node.LayerStack(), Path: variantPath}

	_, err := b.AddArc(node, sourceSite, mapexpr.Identity(), pcpgraph.ArcVariant, 0, node.Path().NamespaceDepth(), AddArcOptions{
		DirectNodeContributesSpecs: true,
		IncludeAncestralOpinions:   false,
	})
	if err != nil {
		return
	}

	// A node's own pending fallback/none-found tasks for this variant set
	// retry now that an authored selection has won (§4.4.2, Testable
	// Property 10).
	b.queue.RetryVariantTasks(node.Index, variantSet)
}

// composeAuthoredVariantSelection looks for an authored selection for
// variantSet, first directly at node's own site, then (per §4.4.2's
// ComposeVariantSelection: "translate the site path to the nearest root
// where the mapping succeeds, and look for an opinion there") by finding
// any other node of the graph whose map-to-root translates to the same
// path and checking its own authored selection. This package implements
// only this direct cross-reference scan, not a literal walk up a chain of
// intermediate roots.
func (b *Builder) composeAuthoredVariantSelection(node pcpgraph.NodeRef, variantSet string) (string, bool) {
	if sel, ok := lookupVariantSelection(node.Site(), variantSet); ok {
		return sel, true
	}

	rootPath, ok := mapToRootPath(node)
	if !ok {
		return "", false
	}

	found := ""
	hasFound := false
	node.Graph.ForEachNodeStrongToWeak(func(other pcpgraph.NodeRef) bool {
		if other.Equals(node) {
			return true
		}
		otherRoot, ok := mapToRootPath(other)
		if !ok || !otherRoot.Equals(rootPath) {
			return true
		}
		if sel, ok := lookupVariantSelection(other.Site(), variantSet); ok {
			found, hasFound = sel, true
			return false
		}

		return true
	})

	return found, hasFound
}

// mapToRootPath evaluates node's cached map-to-root expression against
// its own path, reporting false if the path falls outside the
// expression's domain (e.g. beneath a relocation source).
func mapToRootPath(node pcpgraph.NodeRef) (pathkit.Path, bool) {
	fn, err := node.MapToRoot().Evaluate()
	if err != nil {
		return pathkit.Path{}, false
	}

	return fn.MapSourceToTarget(node.Path())
}

// lookupVariantSelection returns the strongest authored selection for
// variantSet at site, across its layer stack.
func lookupVariantSelection(site layer.StackSite, variantSet string) (string, bool) {
	if site.Stack == nil {
		return "", false
	}
	for _, l := range site.Stack.Layers() {
		v, ok := l.HasField(site.Path, FieldVariantSelection)
		if !ok {
			continue
		}
		sels, ok := v.(map[string]string)
		if !ok {
			continue
		}
		if sel, ok := sels[variantSet]; ok && sel != "" {
			return sel, true
		}
	}

	return "", false
}

// variantOptions returns the strongest-authored option list for
// variantSet at site, via FieldVariantSetOptions.
func variantOptions(site layer.StackSite, variantSet string) []string {
	if site.Stack == nil {
		return nil
	}
	for _, l := range site.Stack.Layers() {
		v := l.GetField(site.Path, FieldVariantSetOptions)
		opts, ok := v.(map[string][]string)
		if !ok {
			continue
		}
		if names, ok := opts[variantSet]; ok {
			return names
		}
	}

	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
