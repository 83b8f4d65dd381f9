package layer

// DynamicFileFormatContext is the read-only view of the in-progress prim
// index that a dynamic file-format plugin may query while generating file
// format arguments for a payload. Every field or attribute consulted is
// snapshotted by the context's caller (pcpbuild) as a dependency key, so
// that a later change to that field invalidates the index.
type DynamicFileFormatContext interface {
	// ComposeValue looks up the strongest opinion for field at the
	// context's node and reports whether any opinion was found.
	ComposeValue(field string) (Value, bool)

	// ComposeValueStack returns every opinion for field across the node's
	// layer stack, strongest first.
	ComposeValueStack(field string) []Value

	// ComposeAttributeDefault composes the default value of the named
	// attribute at the context's node.
	ComposeAttributeDefault(attrName string) (Value, bool)
}

// DynamicFileFormatArgs is the set of file-format arguments a plugin
// produces; these become part of the referenced layer's identity.
type DynamicFileFormatArgs map[string]string

// DependencyData records which fields/attributes a plugin invocation
// consulted, for later invalidation.
type DependencyData struct {
	Fields     []string
	Attributes []string
}

// DynamicFileFormatPlugin generates file-format arguments for a payload
// whose target layer identifies as dynamic.
type DynamicFileFormatPlugin func(
	assetPath string,
	ctx DynamicFileFormatContext,
) (DynamicFileFormatArgs, DependencyData, error)

// DynamicFileFormatClassifier reports whether assetPath names a dynamic file
// format, as determined by an externally supplied classifier (the engine
// has no file-format registry of its own).
type DynamicFileFormatClassifier func(assetPath string) bool
