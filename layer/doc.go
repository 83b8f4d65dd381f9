// Package layer declares the external-collaborator contracts the
// composition engine consumes but never implements: Layer (an opaque
// opinion source), Stack (an ordered, relocation-aware sequence of
// layers), and the dynamic file-format plugin contract. Production code
// in this module never parses a layer file, resolves an asset path, or
// reads bytes off disk — it only calls through these interfaces. A test
// or example double lives in the sibling layerfixture package.
package layer
