package layerfixture

import (
	"github.com/google/uuid"

	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/mapexpr"
	"github.com/arborcomp/primforge/pathkit"
)

// Stack is a fixed, hand-assembled layer.Stack test double: an ordered
// layer list plus an optional flat relocations table. Real layer-stack
// construction (sublayer composition, muting, session layers) is out of
// scope for this engine; fixtures model only the already-resolved shape
// that Stack exposes.
type Stack struct {
	id                  string
	layers              []layer.Layer
	srcToTgt            layer.RelocatesMap
	tgtToSrc            layer.RelocatesMap
	incrementalSrcToTgt layer.RelocatesMap
	incrementalTgtToSrc layer.RelocatesMap
	exprVars            layer.ExpressionVariables
}

// StackOption configures a fixture Stack at construction time.
type StackOption func(*Stack)

// WithRelocates declares the stack's full resolved relocations, both as
// its own incremental contribution (fixtures model a single-layer-stack
// world with no weaker sublayer to inherit from).
func WithRelocates(sourceToTarget map[string]string) StackOption {
	return func(s *Stack) {
		for src, tgt := range sourceToTarget {
			sp := mustParsePath(src)
			tp := mustParsePath(tgt)
			s.srcToTgt[sp.String()] = tp
			s.tgtToSrc[tp.String()] = sp
			s.incrementalSrcToTgt[sp.String()] = tp
			s.incrementalTgtToSrc[tp.String()] = sp
		}
	}
}

func mustParsePath(s string) pathkit.Path {
	p, err := pathkit.ParsePath(s)
	if err != nil {
		panic(err)
	}

	return p
}

// WithExpressionVariables attaches a set of named variables Variable
// map-expression nodes may resolve against when sourced from this stack.
func WithExpressionVariables(vars map[string]interface{}) StackOption {
	return func(s *Stack) { s.exprVars = vars }
}

// WithIdentifier overrides the stack's opaque diagnostic identifier,
// which otherwise defaults to a freshly generated UUID.
func WithIdentifier(id string) StackOption {
	return func(s *Stack) { s.id = id }
}

// NewStack builds a fixture Stack from layers, strongest first.
func NewStack(layers []layer.Layer, opts ...StackOption) *Stack {
	s := &Stack{
		id:                  uuid.NewString(),
		layers:              layers,
		srcToTgt:            make(layer.RelocatesMap),
		tgtToSrc:            make(layer.RelocatesMap),
		incrementalSrcToTgt: make(layer.RelocatesMap),
		incrementalTgtToSrc: make(layer.RelocatesMap),
		exprVars:            layer.ExpressionVariables{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Layers returns the stack's layers, strongest first.
func (s *Stack) Layers() []layer.Layer { return s.layers }

// HasRelocates reports whether the stack resolves any relocations.
func (s *Stack) HasRelocates() bool { return len(s.srcToTgt) > 0 }

// RelocatesSourceToTarget returns the stack's full resolved relocations.
func (s *Stack) RelocatesSourceToTarget() layer.RelocatesMap { return s.srcToTgt }

// RelocatesTargetToSource returns the stack's full resolved relocations,
// reversed.
func (s *Stack) RelocatesTargetToSource() layer.RelocatesMap { return s.tgtToSrc }

// IncrementalRelocatesSourceToTarget returns the relocations introduced
// directly within this stack's own layers.
func (s *Stack) IncrementalRelocatesSourceToTarget() layer.RelocatesMap {
	return s.incrementalSrcToTgt
}

// IncrementalRelocatesTargetToSource is the symmetric incremental map.
func (s *Stack) IncrementalRelocatesTargetToSource() layer.RelocatesMap {
	return s.incrementalTgtToSrc
}

// ExpressionForRelocatesAt returns the namespace-renaming map expression
// induced by this stack's relocations at path, if path is a relocation
// source.
func (s *Stack) ExpressionForRelocatesAt(path pathkit.Path) (layer.Expression, bool) {
	target, ok := s.srcToTgt[path.String()]
	if !ok {
		return nil, false
	}

	expr := mapexpr.NewConstant([]mapexpr.PathMapEntry{{Source: path, Target: target}}, mapexpr.IdentityOffset)

	return expr, true
}

// Identifier returns the stack's opaque diagnostic identity.
func (s *Stack) Identifier() layer.Identifier {
	return layer.Identifier{RootLayer: s.id}
}

// ExpressionVariables returns the variables available to Variable
// map-expression nodes sourced from this stack.
func (s *Stack) ExpressionVariables() layer.ExpressionVariables { return s.exprVars }
