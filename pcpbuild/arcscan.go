package pcpbuild

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/pcpgraph"
	"github.com/arborcomp/primforge/pcptask"
)

// Field names this package's own convention for what layer.Layer's opaque
// Value holds at the paths composition arcs read, since layer.Value
// carries no schema of its own (§3). A fixture or real layer
// implementation populates these under the indicated Go types.
const (
	// FieldReferences holds []layer.ReferenceListOp.
	FieldReferences = "references"
	// FieldPayloads holds []layer.ReferenceListOp.
	FieldPayloads = "payload"
	// FieldInherits holds []layer.ClassListOp.
	FieldInherits = "inheritPaths"
	// FieldSpecializes holds []layer.ClassListOp.
	FieldSpecializes = "specializes"
	// FieldVariantSetNames holds []string, the ordered variant set names
	// declared at a prim.
	FieldVariantSetNames = "variantSetNames"
	// FieldVariantSelection holds map[string]string, variant set name to
	// authored selection.
	FieldVariantSelection = "variantSelection"
	// FieldVariantSetOptions holds map[string][]string, variant set name
	// to its ordered option (variant name) list; this package's own
	// substitute for enumerating child specs under a variant-set path.
	FieldVariantSetOptions = "variantSetOptions"
	// FieldSymmetryFunction holds a non-nil value (any type) when a prim
	// spec declares a symmetry function.
	FieldSymmetryFunction = "symmetryFunction"
	// FieldPermission holds pcpgraph.Permission.
	FieldPermission = "permission"
	// FieldPrimChildren holds []string, the prim spec's own unordered
	// child-name declarations at a path.
	FieldPrimChildren = "primChildren"
	// FieldPrimOrder holds []string, a restatement ordering over the
	// names FieldPrimChildren (and relocation/reference contributions)
	// has accumulated so far.
	FieldPrimOrder = "primOrder"
	// FieldPropertyChildren holds []string, the prim spec's own
	// unordered property-name declarations at a path.
	FieldPropertyChildren = "propertyChildren"
	// FieldPropertyOrder holds []string, the restatement ordering
	// counterpart to FieldPrimOrder for property names.
	FieldPropertyOrder = "propertyOrder"
)

// siteHasField reports whether site's strongest layer (or, for scan
// purposes, any layer: the evaluators themselves compose across the
// whole stack) authors field at its path.
func siteHasField(site layer.StackSite, field string) bool {
	if site.Stack == nil {
		return false
	}
	for _, l := range site.Stack.Layers() {
		if _, ok := l.HasField(site.Path, field); ok {
			return true
		}
	}

	return false
}

// scanArcs enqueues one task per arc-bearing field found at node's site,
// per §4.4's task catalogue, skipping any stage present in skip (used by
// AddArc to honor AddArcOptions.SkipTasksForExpressedArcs). AddArc calls
// it right after a direct insertion, and Build calls it for each node of
// a cloned ancestral graph; nodes spliced in as part of an ancestral
// subgraph are not scanned by AddArc.
func (b *Builder) scanArcs(node pcpgraph.NodeRef, skip map[pcptask.Stage]bool) {
	site := node.Site()
	skipped := func(s pcptask.Stage) bool { return skip != nil && skip[s] }

	if !skipped(pcptask.StageNodeRelocations) && site.Stack != nil && site.Stack.HasRelocates() {
		if _, ok := site.Stack.RelocatesTargetToSource()[site.Path.String()]; ok {
			b.push(pcptask.Task{Stage: pcptask.StageNodeRelocations, Node: node.Index})
		}
	}
	if !skipped(pcptask.StageImpliedRelocations) {
		if parent := node.ParentNode(); parent.IsValid() && parent.ArcKind() == pcpgraph.ArcRelocate {
			b.push(pcptask.Task{Stage: pcptask.StageImpliedRelocations, Node: node.Index})
		}
	}
	if !skipped(pcptask.StageNodeReferences) && siteHasField(site, FieldReferences) {
		b.push(pcptask.Task{Stage: pcptask.StageNodeReferences, Node: node.Index, Tiebreak: b.strengthTiebreak(node)})
	}
	if !skipped(pcptask.StageNodePayloads) && siteHasField(site, FieldPayloads) {
		b.push(pcptask.Task{Stage: pcptask.StageNodePayloads, Node: node.Index, Tiebreak: b.strengthTiebreak(node)})
	}
	if !skipped(pcptask.StageNodeInherits) && siteHasField(site, FieldInherits) {
		b.push(pcptask.Task{Stage: pcptask.StageNodeInherits, Node: node.Index, Tiebreak: b.strengthTiebreak(node)})
	}
	if !skipped(pcptask.StageNodeSpecializes) && siteHasField(site, FieldSpecializes) {
		b.push(pcptask.Task{Stage: pcptask.StageNodeSpecializes, Node: node.Index, Tiebreak: b.strengthTiebreak(node)})
	}
	if b.opts.EvaluateVariants {
		b.enqueueVariantTasks(node, node.IsDueToAncestor(), skip)
	}
	if b.opts.EvaluateDynamicPayloads && !skipped(pcptask.StageNodeDynamicPayloads) {
		if b.opts.DynamicFileFormatClassifier != nil {
			if ops, _ := getReferenceListOps(site, FieldPayloads); len(ops) > 0 {
				for _, op := range ops {
					if op.AssetPath != "" && b.opts.DynamicFileFormatClassifier(op.AssetPath) {
						stage := pcptask.StageNodeDynamicPayloads
						if node.IsDueToAncestor() {
							stage = pcptask.StageNodeAncestralDynamicPayloads
						}
						b.push(pcptask.Task{Stage: stage, Node: node.Index, Tiebreak: b.strengthTiebreak(node)})

						break
					}
				}
			}
		}
	}
}

// enqueueVariantTasks enqueues one authored-selection task per variant
// set declared at node's site (§4.4.2's Variants evaluator always starts
// at the Authored stage; evalVariantAuthored demotes to Fallback/NoneFound
// when no selection is found).
func (b *Builder) enqueueVariantTasks(node pcpgraph.NodeRef, ancestral bool, skip map[pcptask.Stage]bool) {
	stage := pcptask.StageNodeVariantSetsAuthored
	if ancestral {
		stage = pcptask.StageNodeAncestralVariantSetsAuthored
	}
	if skip != nil && skip[stage] {
		return
	}
	names := composeVariantSetNames(node.Site())
	for _, name := range names {
		b.push(pcptask.Task{
			Stage:      stage,
			Node:       node.Index,
			Tiebreak:   b.strengthTiebreak(node),
			VariantSet: name,
		})
	}
}

// strengthTiebreak gives reference, payload, inherit, specialize, variant
// and dynamic-payload tasks a Tiebreak derived from the node's pool
// index, so that among tasks sharing a Stage the earlier-inserted node's
// task runs first. It does not compare node strength.
func (b *Builder) strengthTiebreak(node pcpgraph.NodeRef) int64 {
	return int64(1<<31) - int64(node.Index)
}

// getReferenceListOps flattens field's value across site's layer stack,
// strongest layer first, into a single []layer.ReferenceListOp slice —
// this package's simplified stand-in for full list-edit (add/delete/
// reorder) composition.
func getReferenceListOps(site layer.StackSite, field string) ([]layer.ReferenceListOp, bool) {
	if site.Stack == nil {
		return nil, false
	}
	var out []layer.ReferenceListOp
	found := false
	for _, l := range site.Stack.Layers() {
		v := l.GetField(site.Path, field)
		if v == nil {
			continue
		}
		ops, ok := v.([]layer.ReferenceListOp)
		if !ok {
			continue
		}
		found = true
		out = append(out, ops...)
	}

	return out, found
}

// getClassListOps is getReferenceListOps's counterpart for inherits and
// specializes fields.
func getClassListOps(site layer.StackSite, field string) ([]layer.ClassListOp, bool) {
	if site.Stack == nil {
		return nil, false
	}
	var out []layer.ClassListOp
	found := false
	for _, l := range site.Stack.Layers() {
		v := l.GetField(site.Path, field)
		if v == nil {
			continue
		}
		ops, ok := v.([]layer.ClassListOp)
		if !ok {
			continue
		}
		found = true
		out = append(out, ops...)
	}

	return out, found
}

// composeVariantSetNames flattens FieldVariantSetNames across site's
// layer stack, strongest first, deduplicating by name on first occurrence.
func composeVariantSetNames(site layer.StackSite) []string {
	if site.Stack == nil {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, l := range site.Stack.Layers() {
		v := l.GetField(site.Path, FieldVariantSetNames)
		names, ok := v.([]string)
		if !ok {
			continue
		}
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}

	return out
}
