package pcpindex

import (
	"sort"

	"github.com/arborcomp/primforge/pathkit"
	"github.com/arborcomp/primforge/pcpbuild"
	"github.com/arborcomp/primforge/pcpgraph"
)

// ComputePrimChildNames composes the final ordered list of child prim
// names for idx's site, folding in relocation rename/remove/add and a
// prohibited-name set (names a relocation moved away, never contributed
// again by a stronger spec later in the weak-to-strong walk), per §4.5's name
// composition. instanceableFilter, when non-nil, restricts which nodes
// may contribute a child-name opinion at all to those it accepts — the
// hook an owning facade wires up to implement instancing's shared-
// prototype composition (§1's instancing concept lives above this
// engine; this is only the traversal-restriction point for it). nil
// means the ordinary (non-instanced) full-graph walk.
func (idx *PrimIndex) ComputePrimChildNames(instanceableFilter func(pcpgraph.NodeRef) bool) (nameOrder []string, prohibited map[string]bool) {
	nameSet := map[string]bool{}
	prohibited = map[string]bool{}
	usd := idx.Graph.UsdMode()

	if instanceableFilter != nil {
		var nodes []pcpgraph.NodeRef
		idx.Graph.ForEachNodeWeakToStrong(func(n pcpgraph.NodeRef) bool {
			if instanceableFilter(n) {
				nodes = append(nodes, n)
			}

			return true
		})
		for _, n := range nodes {
			composePrimChildNamesAtNode(n, usd, &nameOrder, nameSet, prohibited)
		}

		return nameOrder, prohibited
	}

	composePrimChildNames(idx.Graph.Root(), usd, &nameOrder, nameSet, prohibited)

	return nameOrder, prohibited
}

// ComputePrimPropertyNames composes the final ordered list of property
// names for idx's site. Properties carry no relocation concept, so no
// prohibited-name set applies.
func (idx *PrimIndex) ComputePrimPropertyNames() []string {
	var nameOrder []string
	nameSet := map[string]bool{}
	usd := idx.Graph.UsdMode()
	composePrimPropertyNames(idx.Graph.Root(), usd, &nameOrder, nameSet)

	return nameOrder
}

func composePrimChildNames(node pcpgraph.NodeRef, usd bool, nameOrder *[]string, nameSet, prohibited map[string]bool) {
	if node.Culled() {
		return
	}
	for _, c := range weakToStrongChildren(node) {
		composePrimChildNames(c, usd, nameOrder, nameSet, prohibited)
	}
	composePrimChildNamesAtNode(node, usd, nameOrder, nameSet, prohibited)
}

func composePrimPropertyNames(node pcpgraph.NodeRef, usd bool, nameOrder *[]string, nameSet map[string]bool) {
	if node.Culled() {
		return
	}
	for _, c := range weakToStrongChildren(node) {
		composePrimPropertyNames(c, usd, nameOrder, nameSet)
	}
	if node.CanContributeSpecs() {
		composeChildNames(node, !usd, pcpbuild.FieldPropertyChildren, pcpbuild.FieldPropertyOrder, nil, nameOrder, nameSet)
	}
}

func weakToStrongChildren(node pcpgraph.NodeRef) []pcpgraph.NodeRef {
	var children []pcpgraph.NodeRef
	for c := node.FirstChild(); c.IsValid(); c = c.NextSibling() {
		children = append(children, c)
	}
	for i, j := 0, len(children)-1; i < j; i, j = i+1, j-1 {
		children[i], children[j] = children[j], children[i]
	}

	return children
}

// composePrimChildNamesAtNode applies node's own relocations (unless
// usd) and then its own directly-authored child names, mirroring
// _ComposePrimChildNamesAtNode.
func composePrimChildNamesAtNode(node pcpgraph.NodeRef, usd bool, nameOrder *[]string, nameSet, prohibited map[string]bool) {
	if !usd {
		applyRelocationsAtNode(node, nameOrder, nameSet, prohibited)
	}

	if node.CanContributeSpecs() {
		composeChildNames(node, true, pcpbuild.FieldPrimChildren, pcpbuild.FieldPrimOrder, prohibited, nameOrder, nameSet)
	}
}

// applyRelocationsAtNode classifies node's layer stack's relocations
// whose source or target is a direct child of node's path into renames,
// removals, and additions, then applies them to the running nameOrder:
// a rename retains the old name's position under its new name; a
// removal drops the name outright; an addition is appended in
// lexicographic order (no statement of relative ordering exists among
// freshly relocated-in children until a later primOrder restatement
// reorders them).
func applyRelocationsAtNode(node pcpgraph.NodeRef, nameOrder *[]string, nameSet, prohibited map[string]bool) {
	stack := node.LayerStack()
	if stack == nil || !stack.HasRelocates() {
		return
	}

	namesToAdd := map[string]bool{}
	namesToRemove := map[string]bool{}
	namesToReplace := map[string]string{}

	for sourceStr, target := range stack.RelocatesSourceToTarget() {
		source, err := pathkit.ParsePath(sourceStr)
		if err != nil || !node.Path().HasPrefix(source) {
			continue
		}
		sourceParent, ok := source.ParentPath()
		if !ok || !sourceParent.Equals(node.Path()) {
			continue
		}
		if targetParent, ok := target.ParentPath(); ok && targetParent.Equals(node.Path()) {
			namesToReplace[source.Name()] = target.Name()
		} else {
			namesToRemove[source.Name()] = true
		}
		prohibited[source.Name()] = true
	}

	for targetStr, source := range stack.RelocatesTargetToSource() {
		target, err := pathkit.ParsePath(targetStr)
		if err != nil || !node.Path().HasPrefix(target) {
			continue
		}
		targetParent, ok := target.ParentPath()
		if !ok || !targetParent.Equals(node.Path()) {
			continue
		}
		if sourceParent, ok := source.ParentPath(); ok && sourceParent.Equals(node.Path()) {
			continue
		}
		if !nameSet[target.Name()] {
			namesToAdd[target.Name()] = true
		}
	}

	if len(namesToReplace) > 0 || len(namesToRemove) > 0 {
		retained := make([]string, 0, len(*nameOrder))
		for _, name := range *nameOrder {
			if newName, ok := namesToReplace[name]; ok {
				delete(nameSet, name)
				if !nameSet[newName] {
					nameSet[newName] = true
					retained = append(retained, newName)
				}
			} else if !namesToRemove[name] {
				retained = append(retained, name)
			} else {
				delete(nameSet, name)
			}
		}
		*nameOrder = retained
	}

	added := make([]string, 0, len(namesToAdd))
	for name := range namesToAdd {
		added = append(added, name)
	}
	sort.Strings(added)
	*nameOrder = append(*nameOrder, added...)
	for _, name := range added {
		nameSet[name] = true
	}
}

// composeChildNames appends site's own spec names (skipping any already
// seen or prohibited), then, if applyListOrdering, applies any
// restatement ordering field authored alongside it — both scanned
// weakest-to-strongest across the layer stack so a stronger layer's
// restatement is what's actually felt last.
func composeChildNames(node pcpgraph.NodeRef, applyListOrdering bool, namesField, orderField string, prohibited map[string]bool, nameOrder *[]string, nameSet map[string]bool) {
	stack := node.LayerStack()
	if stack == nil {
		return
	}
	layers := stack.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if v, ok := l.HasField(node.Path(), namesField); ok {
			if names, ok := v.([]string); ok {
				for _, name := range names {
					if prohibited != nil && prohibited[name] {
						continue
					}
					if !nameSet[name] {
						nameSet[name] = true
						*nameOrder = append(*nameOrder, name)
					}
				}
			}
		}

		if !applyListOrdering {
			continue
		}
		if v, ok := l.HasField(node.Path(), orderField); ok {
			if ordering, ok := v.([]string); ok {
				*nameOrder = restateOrder(*nameOrder, ordering)
			}
		}
	}
}

// restateOrder restates nameOrder according to ordering: names ordering
// mentions come first, in ordering's own sequence (skipping any
// ordering entries nameOrder doesn't actually have); names ordering
// doesn't mention keep their existing relative order, appended after.
func restateOrder(nameOrder, ordering []string) []string {
	present := make(map[string]bool, len(nameOrder))
	for _, n := range nameOrder {
		present[n] = true
	}

	result := make([]string, 0, len(nameOrder))
	placed := make(map[string]bool, len(nameOrder))
	for _, n := range ordering {
		if present[n] && !placed[n] {
			result = append(result, n)
			placed[n] = true
		}
	}
	for _, n := range nameOrder {
		if !placed[n] {
			result = append(result, n)
			placed[n] = true
		}
	}

	return result
}
