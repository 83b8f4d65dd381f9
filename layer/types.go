package layer

import "github.com/arborcomp/primforge/pathkit"

// Value is an opaque field value as stored in a Layer. The engine never
// interprets Value beyond passing it through to callers (time-sample
// evaluation is explicitly a Non-goal); a Value is typically a Go literal
// (string, float64, bool, []interface{}, map[string]interface{}) or an
// engine-internal list-edit structure such as ReferenceListOp.
type Value = interface{}

// Offset is the per-reference/payload layer offset: how child-layer time
// maps into the referencing layer's time, before any time-codes-per-second
// rescaling the engine applies when composing the arc.
type Offset struct {
	Scale float64
	Delay float64
}

// Layer is an opaque handle producing, for any (path, field), an optional
// value. The engine calls only these six methods; parsing and on-disk
// representation are out of scope (§1).
type Layer interface {
	// HasSpec reports whether a spec (any opinions at all) exists at path.
	HasSpec(path pathkit.Path) bool

	// HasField reports whether field is authored at path and, if so,
	// returns its value.
	HasField(path pathkit.Path, field string) (Value, bool)

	// GetField returns the value of field at path, or nil if absent.
	GetField(path pathkit.Path, field string) Value

	// GetDefaultPrim returns the layer's defaultPrim metadata path
	// (AbsoluteRootPath if unset).
	GetDefaultPrim() pathkit.Path

	// GetTimeCodesPerSecond returns the layer's timeCodesPerSecond metadata.
	GetTimeCodesPerSecond() float64

	// Identifier returns a string uniquely identifying this layer within
	// its owning asset-resolution context (used for cycle detection and
	// diagnostics; opaque to the engine).
	Identifier() string
}

// RelocatesMap is a relocation direction's resolved (source -> target)
// pairs for one Stack, already flattened in stack-composition order.
type RelocatesMap map[string]pathkit.Path

// Identifier opaquely identifies a Stack for interning/equality purposes.
// Stacks compare by identity in the engine (§3), but an Identifier is
// useful for diagnostics and for constructing derived layer-stack
// identities (e.g. an internal reference's layer stack inherits the
// referencing node's expression-variable overrides, keyed off this).
type Identifier struct {
	RootLayer               string
	SessionLayer            string
	PathResolverContext     string
	ExpressionVariablesHash string
}

// ExpressionVariables is the resolved set of named variables available to
// Variable map-expression nodes composed across arcs sourced from this
// stack.
type ExpressionVariables map[string]interface{}

// Stack is an immutable, ordered sequence of Layers (strongest first)
// with a resolved relocations map. Stacks are interned by an external
// registry; equality is by identity, which callers establish by pointer
// equality of the concrete Stack implementation (the engine never
// compares Stacks structurally).
type Stack interface {
	// Layers returns the layers in strength order, strongest first.
	Layers() []Layer

	// HasRelocates reports whether this stack resolves any relocations.
	HasRelocates() bool

	// RelocatesSourceToTarget is the full resolved source->target map.
	RelocatesSourceToTarget() RelocatesMap

	// RelocatesTargetToSource is the full resolved target->source map.
	RelocatesTargetToSource() RelocatesMap

	// IncrementalRelocatesSourceToTarget holds only the relocations
	// introduced directly within this stack's own layers (as opposed to
	// inherited from a weaker sublayer already folded into the full map).
	IncrementalRelocatesSourceToTarget() RelocatesMap

	// IncrementalRelocatesTargetToSource is the symmetric incremental map.
	IncrementalRelocatesTargetToSource() RelocatesMap

	// ExpressionForRelocatesAt returns the namespace-renaming map
	// expression induced by this stack's relocations at path, or a false
	// second return if path is not a relocation source.
	ExpressionForRelocatesAt(path pathkit.Path) (Expression, bool)

	// Identifier returns this stack's opaque identity.
	Identifier() Identifier

	// ExpressionVariables returns the variables available for Variable
	// map-expression nodes sourced from this stack.
	ExpressionVariables() ExpressionVariables
}

// Expression is implemented by mapexpr.Expression; declared here as a
// minimal interface so the layer package has no import dependency on
// mapexpr (it sits below layer in §2's dependency order).
type Expression interface {
	IsNil() bool
}

// StackSite is the fundamental address used throughout the engine: a
// (layer stack, path) pair.
type StackSite struct {
	Stack Stack
	Path  pathkit.Path
}

// Equals reports whether two sites address the same stack (by identity)
// and the same path.
func (s StackSite) Equals(other StackSite) bool {
	return s.Stack == other.Stack && s.Path.Equals(other.Path)
}

// ReferenceListOp is one entry of a reference or payload arc's
// list-edited composition: an asset path (empty means "internal
// reference"), a target prim path (empty defers to the target layer's
// defaultPrim), and a layer offset.
type ReferenceListOp struct {
	AssetPath string
	PrimPath  pathkit.Path
	Offset    Offset
}

// ClassListOp is one entry of an inherit or specialize arc's list-edited
// composition: an absolute prim path with no variant selections.
type ClassListOp struct {
	PrimPath pathkit.Path
}
