package pcpindex

import "github.com/arborcomp/primforge/pcpgraph"

// enforcePermissions runs the single weak→strong pass of §4.5's
// "Permissions": once a private node is found, every stronger node
// encountered afterward (closer to the root) is forbidden from
// contributing opinions. A violator is restricted from its own current
// depth downward and, if it actually carries a spec, reported via
// report.
func enforcePermissions(root pcpgraph.NodeRef, report func(detail PermissionDeniedDetail)) {
	var all []pcpgraph.NodeRef
	gatherStrongToWeak(root, &all)

	var privateNode pcpgraph.NodeRef
	for i := len(all) - 1; i >= 0; i-- {
		cur := all[i]
		if !cur.CanContributeSpecs() {
			continue
		}

		if privateNode.IsValid() {
			cur.SetSpecContributionRestrictedDepth(cur.Path().NamespaceDepth())

			if cur.HasSpecs() {
				layers := cur.LayerStack().Layers()
				for j := len(layers) - 1; j >= 0; j-- {
					if layers[j].HasSpec(cur.Path()) {
						cur.SetPermissionDenied(true)
						report(PermissionDeniedDetail{
							RootSite:    cur.RootNode().Site(),
							Site:        cur.Site(),
							PrivateSite: privateNode.Site(),
						})
						break
					}
				}
			}
		}

		if !privateNode.IsValid() && cur.Permission() == pcpgraph.PermissionPrivate {
			privateNode = cur
		}
	}
}

// gatherStrongToWeak appends node and its whole subtree, in strength
// order, to result.
func gatherStrongToWeak(node pcpgraph.NodeRef, result *[]pcpgraph.NodeRef) {
	*result = append(*result, node)
	for c := node.FirstChild(); c.IsValid(); c = c.NextSibling() {
		gatherStrongToWeak(c, result)
	}
}
