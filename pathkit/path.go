package pathkit

import (
	"strings"
)

// VariantSelection is one entry of a prim variant-selection path, e.g. the
// "{shadingStyle=red}" component of "/Model{shadingStyle=red}".
type VariantSelection struct {
	// Set is the variant set name ("shadingStyle").
	Set string

	// Selection is the chosen variant name ("red"). Empty means "no
	// selection authored at this storage location" (used internally by
	// ComposeVariantSelection before a winner is found).
	Selection string
}

// Path is an immutable hierarchical namespace identifier: a sequence of
// name components rooted at "/", optionally suffixed with a chain of
// variant selections that address storage without adding namespace depth.
//
// Path is a value type. Copying a Path copies its component slice header;
// callers must not mutate the backing arrays returned by Components or
// Variants.
type Path struct {
	components []string
	variants   []VariantSelection
}

// AbsoluteRootPath is "/", the namespace root. It is never itself a prim;
// every real prim path has at least one component.
var AbsoluteRootPath = Path{}

// NewPrimPath builds an absolute prim path from ordered name components.
// It does not validate component syntax beyond rejecting empty strings.
func NewPrimPath(components ...string) (Path, error) {
	for _, c := range components {
		if c == "" {
			return Path{}, ErrEmptyComponent
		}
	}
	out := make([]string, len(components))
	copy(out, components)

	return Path{components: out}, nil
}

// MustPrimPath is NewPrimPath but panics on error; intended for tests and
// literal fixture construction where the path is known to be valid.
func MustPrimPath(components ...string) Path {
	p, err := NewPrimPath(components...)
	if err != nil {
		panic(err)
	}

	return p
}

// ParsePath parses a slash-delimited absolute path, optionally carrying a
// trailing "{set=selection}{set2=selection2}..." variant-selection suffix.
// "/" parses to AbsoluteRootPath. Relative paths are rejected.
func ParsePath(s string) (Path, error) {
	if s == "" || s[0] != '/' {
		return Path{}, ErrInvalidPrimPath
	}
	if s == "/" {
		return AbsoluteRootPath, nil
	}

	body := s[1:]
	var variantSuffix string
	if idx := strings.IndexByte(body, '{'); idx >= 0 {
		variantSuffix = body[idx:]
		body = body[:idx]
	}

	parts := strings.Split(body, "/")
	for _, c := range parts {
		if c == "" {
			return Path{}, ErrEmptyComponent
		}
	}

	variants, err := parseVariantSuffix(variantSuffix)
	if err != nil {
		return Path{}, err
	}

	return Path{components: parts, variants: variants}, nil
}

func parseVariantSuffix(s string) ([]VariantSelection, error) {
	if s == "" {
		return nil, nil
	}
	var out []VariantSelection
	for len(s) > 0 {
		if s[0] != '{' {
			return nil, ErrInvalidPrimPath
		}
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return nil, ErrInvalidPrimPath
		}
		inner := s[1:end]
		eq := strings.IndexByte(inner, '=')
		if eq < 0 {
			return nil, ErrInvalidPrimPath
		}
		out = append(out, VariantSelection{Set: inner[:eq], Selection: inner[eq+1:]})
		s = s[end+1:]
	}

	return out, nil
}

// IsRoot reports whether p is the absolute root "/".
func (p Path) IsRoot() bool {
	return len(p.components) == 0 && len(p.variants) == 0
}

// IsAbsolute always reports true: pathkit only ever represents absolute
// namespace identifiers (relative paths are an out-of-scope concept for
// the composition engine, which only ever addresses sites by absolute
// location in a layer stack).
func (p Path) IsAbsolute() bool { return true }

// Components returns the prim-name components, excluding variant
// selections. Callers must not mutate the returned slice.
func (p Path) Components() []string { return p.components }

// Variants returns the trailing variant-selection chain, if any. Callers
// must not mutate the returned slice.
func (p Path) Variants() []VariantSelection { return p.variants }

// HasVariantSelection reports whether p carries a non-empty variant chain.
func (p Path) HasVariantSelection() bool { return len(p.variants) > 0 }

// StripAllVariantSelections returns p with its variant-selection suffix
// removed; the prim-name components are unchanged.
func (p Path) StripAllVariantSelections() Path {
	if len(p.variants) == 0 {
		return p
	}

	return Path{components: p.components}
}

// NamespaceDepth returns the number of non-variant path components. Per
// §3, variant-selection path suffixes are storage-only and never counted.
func (p Path) NamespaceDepth() int { return len(p.components) }

// ParentPath returns the path one level up, and false if p is already the
// absolute root. Variant selections are dropped by ascending one level
// unless only the variant suffix changes (i.e. the prim-name parent of a
// variant-selection path is the same prim, with the variant suffix
// stripped).
func (p Path) ParentPath() (Path, bool) {
	if len(p.variants) > 0 {
		return Path{components: p.components}, true
	}
	if len(p.components) == 0 {
		return Path{}, false
	}

	return Path{components: p.components[:len(p.components)-1]}, true
}

// AppendChild returns the path of the named child of p. p must not carry
// a variant-selection suffix (children are addressed on the prim, not on
// a variant-selection storage location).
func (p Path) AppendChild(name string) (Path, error) {
	if name == "" {
		return Path{}, ErrEmptyComponent
	}
	out := make([]string, len(p.components)+1)
	copy(out, p.components)
	out[len(p.components)] = name

	return Path{components: out}, nil
}

// AppendVariantSelection returns the storage-only path addressing the
// given variant selection under p.
func (p Path) AppendVariantSelection(set, selection string) Path {
	out := make([]VariantSelection, len(p.variants)+1)
	copy(out, p.variants)
	out[len(p.variants)] = VariantSelection{Set: set, Selection: selection}

	return Path{components: p.components, variants: out}
}

// Name returns the last prim-name component, or "" at the root.
func (p Path) Name() string {
	if len(p.components) == 0 {
		return ""
	}

	return p.components[len(p.components)-1]
}

// HasPrefix reports whether ancestor is a namespace prefix of other: true
// when other equals ancestor or when other's leading components equal
// ancestor's components. Variant selections never participate in the
// comparison.
func (ancestor Path) HasPrefix(other Path) bool {
	if len(ancestor.components) > len(other.components) {
		return false
	}
	for i, c := range ancestor.components {
		if other.components[i] != c {
			return false
		}
	}

	return true
}

// IsVariantSelectionSiblingOf reports whether p and q name the same prim
// and differ only in their trailing variant selection — the cycle-check
// exemption called out in §4.4.1: a prim referencing into one of its own
// variant-selection storage locations is not a cycle.
func (p Path) IsVariantSelectionSiblingOf(q Path) bool {
	return equalComponents(p.components, q.components)
}

func equalComponents(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Equals reports full structural equality, including variant selections.
func (p Path) Equals(q Path) bool {
	if !equalComponents(p.components, q.components) {
		return false
	}
	if len(p.variants) != len(q.variants) {
		return false
	}
	for i := range p.variants {
		if p.variants[i] != q.variants[i] {
			return false
		}
	}

	return true
}

// GetCommonPrefix returns the deepest Path that is an ancestor of both p
// and q (ignoring variant selections on either side).
func (p Path) GetCommonPrefix(q Path) Path {
	n := len(p.components)
	if len(q.components) < n {
		n = len(q.components)
	}
	i := 0
	for i < n && p.components[i] == q.components[i] {
		i++
	}

	return Path{components: append([]string(nil), p.components[:i]...)}
}

// String renders p as "/A/B" or "/A/B{set=sel}" form. The absolute root
// renders as "/".
func (p Path) String() string {
	var sb strings.Builder
	if len(p.components) == 0 {
		sb.WriteByte('/')
	} else {
		for _, c := range p.components {
			sb.WriteByte('/')
			sb.WriteString(c)
		}
	}
	for _, v := range p.variants {
		sb.WriteByte('{')
		sb.WriteString(v.Set)
		sb.WriteByte('=')
		sb.WriteString(v.Selection)
		sb.WriteByte('}')
	}

	return sb.String()
}
