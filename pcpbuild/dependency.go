package pcpbuild

import "github.com/arborcomp/primforge/layer"

// DynamicFileFormatDependency records which fields and attribute defaults
// a dynamic file-format plugin's Context consulted while generating
// arguments (§4.4.2's "Payloads (dynamic)"), so the caller's external
// change-processing system knows what to watch for future re-indexing.
type DynamicFileFormatDependency struct {
	ComposedFields            map[string][]string
	ComposedAttributeDefaults map[string][]string
}

func newDynamicFileFormatDependency() *DynamicFileFormatDependency {
	return &DynamicFileFormatDependency{
		ComposedFields:            make(map[string][]string),
		ComposedAttributeDefaults: make(map[string][]string),
	}
}

func (d *DynamicFileFormatDependency) recordField(key, field string) {
	d.ComposedFields[key] = append(d.ComposedFields[key], field)
}

func (d *DynamicFileFormatDependency) recordAttributeDefault(key, attr string) {
	d.ComposedAttributeDefaults[key] = append(d.ComposedAttributeDefaults[key], attr)
}

func (d *DynamicFileFormatDependency) merge(other *DynamicFileFormatDependency) {
	for k, v := range other.ComposedFields {
		d.ComposedFields[k] = append(d.ComposedFields[k], v...)
	}
	for k, v := range other.ComposedAttributeDefaults {
		d.ComposedAttributeDefaults[k] = append(d.ComposedAttributeDefaults[k], v...)
	}
}

// ExpressionVariablesDependency records every layer-stack identifier whose
// ExpressionVariables were consulted while evaluating a Variable map
// expression, the other half of the dependency tracking §6's Outputs
// names alongside DynamicFileFormatDependency.
type ExpressionVariablesDependency struct {
	LayerStackIdentifiers []layer.Identifier
}

func (d *ExpressionVariablesDependency) record(id layer.Identifier) {
	for _, existing := range d.LayerStackIdentifiers {
		if existing == id {
			return
		}
	}
	d.LayerStackIdentifiers = append(d.LayerStackIdentifiers, id)
}

func (d *ExpressionVariablesDependency) merge(other *ExpressionVariablesDependency) {
	for _, id := range other.LayerStackIdentifiers {
		d.record(id)
	}
}

// CulledDependency names a node whose absence (because it was culled)
// still needs to be tracked by the caller's invalidation system: a future
// edit that would have produced opinions there must trigger re-indexing
// even though the node itself carries no surviving opinions.
type CulledDependency struct {
	Site layer.StackSite
}
