// Package diagnostic provides opt-in strict-mode validation for a
// composed prim index graph: duplicate-sibling detection under the
// strength comparator (spec.md §4.3's "detectable under the optional
// diagnostic mode") and a strict-total-order check for any comparator
// over a given node set. It does not check the other node and graph
// invariants. None of this runs by default; pcpbuild and pcpindex never
// import it. Call AssertStrictOrder or CheckGraph from tests, or from
// a caller's own debug build, when a composition bug is suspected.
package diagnostic
