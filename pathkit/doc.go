// Package pathkit defines Path, the hierarchical namespace identifier used
// throughout the composition engine: absolute prim paths, the root path,
// and prim variant-selection paths.
//
// A Path is an immutable value type — cheap to copy, safe to share across
// goroutines, compared by value. Variant-selection components address
// where opinions live but never add a level of composed namespace: two
// Paths that differ only in variant selections have the same
// NamespaceDepth.
package pathkit
