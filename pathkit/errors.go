package pathkit

import "errors"

// Sentinel errors for path parsing and manipulation.
var (
	// ErrInvalidPrimPath indicates a string did not parse as an absolute prim path.
	ErrInvalidPrimPath = errors.New("pathkit: invalid prim path")

	// ErrNotAbsolute indicates an operation required an absolute path but received a relative one.
	ErrNotAbsolute = errors.New("pathkit: path is not absolute")

	// ErrEmptyComponent indicates a path component was empty (e.g. "/A//B").
	ErrEmptyComponent = errors.New("pathkit: empty path component")

	// ErrNoCommonPrefix indicates two paths share no common ancestor (can only happen
	// across distinct absolute roots, which never occurs for valid Paths).
	ErrNoCommonPrefix = errors.New("pathkit: no common prefix")
)
