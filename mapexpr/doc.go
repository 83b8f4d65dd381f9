// Package mapexpr implements the map-expression algebra used to translate
// paths (and time) from one namespace into another across a composition
// arc: constants, identity, variable references, composition, inverse, and
// "add-root-identity" (which ensures "/" is always in a function's
// domain, letting root-class inherits cross reference arcs).
//
// Expression values build a lazy tree; Evaluate folds that tree to a
// concrete Function. Expression is a thin value type wrapping a pointer to
// an immutable node, so copying an Expression is O(1); each node memoizes
// its own evaluated Function the first time Evaluate is called on it or
// any expression built on top of it (sync.Once), matching the teacher's
// "cheap to copy, evaluation memoised internally" style used for
// core.Edge/core.Vertex value semantics, generalized to a self-caching
// tree node.
package mapexpr
