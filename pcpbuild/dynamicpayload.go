package pcpbuild

import (
	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/pcpgraph"
	"github.com/arborcomp/primforge/pcptask"
)

// evalDynamicPayload invokes Options.DynamicFileFormatPlugin for a
// payload whose target asset path the classifier flagged as dynamic, via
// a nodeDynamicFileFormatContext that snapshots everything the plugin
// consults into the builder's DynamicFileFormatDependency (§4.4.2's
// "Payloads (dynamic)").
func (b *Builder) evalDynamicPayload(node pcpgraph.NodeRef, t pcptask.Task) {
	if b.opts.DynamicFileFormatPlugin == nil {
		return
	}
	ops, _ := getReferenceListOps(node.Site(), FieldPayloads)
	for _, op := range ops {
		if op.AssetPath == "" || !b.opts.DynamicFileFormatClassifier(op.AssetPath) {
			continue
		}
		ctx := &nodeDynamicFileFormatContext{builder: b, node: node, key: op.AssetPath}
		_, dep, err := b.opts.DynamicFileFormatPlugin(op.AssetPath, ctx)
		if err != nil {
			b.reportError(ErrInvalidAssetPath, node.Site())
			continue
		}
		for _, f := range dep.Fields {
			b.DynamicFileFormatDependency.recordField(op.AssetPath, f)
		}
		for _, a := range dep.Attributes {
			b.DynamicFileFormatDependency.recordAttributeDefault(op.AssetPath, a)
		}
	}
}

// nodeDynamicFileFormatContext implements layer.DynamicFileFormatContext
// over one node's site, recording every field/attribute consulted as a
// dependency keyed by the payload's asset path.
type nodeDynamicFileFormatContext struct {
	builder *Builder
	node    pcpgraph.NodeRef
	key     string
}

func (c *nodeDynamicFileFormatContext) ComposeValue(field string) (layer.Value, bool) {
	c.builder.DynamicFileFormatDependency.recordField(c.key, field)
	site := c.node.Site()
	if site.Stack == nil {
		return nil, false
	}
	for _, l := range site.Stack.Layers() {
		if v, ok := l.HasField(site.Path, field); ok {
			return v, true
		}
	}

	return nil, false
}

func (c *nodeDynamicFileFormatContext) ComposeValueStack(field string) []layer.Value {
	c.builder.DynamicFileFormatDependency.recordField(c.key, field)
	site := c.node.Site()
	if site.Stack == nil {
		return nil
	}
	var out []layer.Value
	for _, l := range site.Stack.Layers() {
		if v, ok := l.HasField(site.Path, field); ok {
			out = append(out, v)
		}
	}

	return out
}

func (c *nodeDynamicFileFormatContext) ComposeAttributeDefault(attrName string) (layer.Value, bool) {
	c.builder.DynamicFileFormatDependency.recordAttributeDefault(c.key, attrName)
	site := c.node.Site()
	if site.Stack == nil {
		return nil, false
	}
	for _, l := range site.Stack.Layers() {
		if v, ok := l.HasField(site.Path, "attributeDefault:"+attrName); ok {
			return v, true
		}
	}

	return nil, false
}
