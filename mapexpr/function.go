package mapexpr

import (
	"sort"

	"github.com/arborcomp/primforge/pathkit"
)

// PathMapEntry is one prefix-rewrite rule of a constant map expression:
// any path with Source as a prefix has that prefix replaced by Target,
// with the remaining trailing components carried over unchanged.
type PathMapEntry struct {
	Source pathkit.Path
	Target pathkit.Path
}

// stage is one leaf transformation applied in sequence by a Function. A
// Function is a pipeline of stages built up by Compose; this sidesteps
// having to symbolically merge two sets of prefix rules at composition
// time — Map* simply threads the path through each stage, short-circuiting
// to "outside the domain" the moment any stage can't map it.
type stage struct {
	isIdentity   bool
	entries      []PathMapEntry // sorted longest Source prefix first
	rootIdentity bool
	offset       Offset
}

// Function is the concrete, evaluated form of an Expression: a pipeline of
// path- and time-remapping stages plus the two domain-reach flags
// (HasRootIdentity, IsConstantIdentity) computed once at fold time.
type Function struct {
	stages       []stage
	rootIdentity bool
	constIdent   bool
}

func newIdentityFunction() Function {
	return Function{stages: []stage{{isIdentity: true}}, rootIdentity: true, constIdent: true}
}

func newConstantFunction(entries []PathMapEntry, offset Offset) Function {
	sorted := append([]PathMapEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Source.NamespaceDepth() > sorted[j].Source.NamespaceDepth()
	})

	return Function{stages: []stage{{entries: sorted, offset: offset}}}
}

// MapSourceToTarget maps a path from this function's source namespace to
// its target namespace. The second return is false if path lies outside
// the function's domain — a well-defined, non-error signal per §4.1.
func (f Function) MapSourceToTarget(p pathkit.Path) (pathkit.Path, bool) {
	cur := p
	for _, st := range f.stages {
		var ok bool
		cur, ok = applyForward(st, cur)
		if !ok {
			return pathkit.Path{}, false
		}
	}

	return cur, true
}

// MapTargetToSource is the symmetric inverse-direction lookup.
func (f Function) MapTargetToSource(p pathkit.Path) (pathkit.Path, bool) {
	cur := p
	for i := len(f.stages) - 1; i >= 0; i-- {
		var ok bool
		cur, ok = applyBackward(f.stages[i], cur)
		if !ok {
			return pathkit.Path{}, false
		}
	}

	return cur, true
}

// MapTime applies the function's cumulative time offset.
func (f Function) MapTime(t float64) float64 {
	for _, st := range f.stages {
		t = st.offset.MapTime(t)
	}

	return t
}

func applyForward(st stage, p pathkit.Path) (pathkit.Path, bool) {
	if st.isIdentity {
		return p, true
	}
	for _, e := range st.entries {
		if rest, ok := stripPrefix(e.Source, p); ok {
			return appendComponents(e.Target, rest), true
		}
	}
	if st.rootIdentity && p.IsRoot() {
		return p, true
	}

	return pathkit.Path{}, false
}

func applyBackward(st stage, p pathkit.Path) (pathkit.Path, bool) {
	if st.isIdentity {
		return p, true
	}
	for _, e := range st.entries {
		if rest, ok := stripPrefix(e.Target, p); ok {
			return appendComponents(e.Source, rest), true
		}
	}
	if st.rootIdentity && p.IsRoot() {
		return p, true
	}

	return pathkit.Path{}, false
}

// stripPrefix returns the trailing components of p beyond prefix, if
// prefix is a namespace ancestor of (or equal to) p.
func stripPrefix(prefix, p pathkit.Path) ([]string, bool) {
	pc := prefix.Components()
	fc := p.Components()
	if len(pc) > len(fc) {
		return nil, false
	}
	for i, c := range pc {
		if fc[i] != c {
			return nil, false
		}
	}

	return fc[len(pc):], true
}

func appendComponents(base pathkit.Path, rest []string) pathkit.Path {
	cur := base
	for _, c := range rest {
		var err error
		cur, err = cur.AppendChild(c)
		if err != nil {
			// rest components were already validated non-empty by whoever
			// produced the originating Path; this cannot happen.
			panic(err)
		}
	}

	return cur
}

// Compose returns the function equivalent to applying f first, then other:
//
//	f.Compose(other).MapSourceToTarget(x) == other.MapSourceToTarget(f.MapSourceToTarget(x))
func (f Function) Compose(other Function) Function {
	out := Function{
		stages:     append(append([]stage(nil), f.stages...), other.stages...),
		constIdent: f.constIdent && other.constIdent,
	}
	out.rootIdentity = f.rootIdentity && other.rootIdentity
	// A composition is also root-identity-bearing if root actually survives
	// the whole pipeline, even when neither half sets the flag explicitly.
	if !out.rootIdentity {
		if mid, ok := f.MapSourceToTarget(pathkit.AbsoluteRootPath); ok {
			if final, ok2 := other.MapSourceToTarget(mid); ok2 && final.IsRoot() {
				out.rootIdentity = true
			}
		}
	}

	return out
}

// Inverse returns the function that undoes f: swaps each stage's source
// and target roles and reverses stage order.
func (f Function) Inverse() Function {
	out := Function{rootIdentity: f.rootIdentity, constIdent: f.constIdent}
	out.stages = make([]stage, len(f.stages))
	for i, st := range f.stages {
		inv := stage{isIdentity: st.isIdentity, rootIdentity: st.rootIdentity, offset: st.offset.Inverse()}
		inv.entries = make([]PathMapEntry, len(st.entries))
		for j, e := range st.entries {
			inv.entries[j] = PathMapEntry{Source: e.Target, Target: e.Source}
		}
		sort.SliceStable(inv.entries, func(a, b int) bool {
			return inv.entries[a].Source.NamespaceDepth() > inv.entries[b].Source.NamespaceDepth()
		})
		out.stages[len(f.stages)-1-i] = inv
	}

	return out
}

// HasRootIdentity reports whether "/" is known to map to "/" under f.
func (f Function) HasRootIdentity() bool { return f.rootIdentity }

// IsConstantIdentity reports whether f is exactly the identity function.
func (f Function) IsConstantIdentity() bool { return f.constIdent }

// AddRootIdentity returns f with an explicit root-to-root rule added to
// every stage, so "/" is always in its domain even if no stage otherwise
// maps it, while every other path maps exactly as under f.
func (f Function) AddRootIdentity() Function {
	out := f
	out.stages = make([]stage, len(f.stages))
	for i, st := range f.stages {
		st.rootIdentity = true
		out.stages[i] = st
	}
	out.rootIdentity = true

	return out
}
