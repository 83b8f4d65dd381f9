package pcpindex

import (
	"errors"
	"fmt"

	"github.com/arborcomp/primforge/layer"
)

// ErrPrimPermissionDenied indicates a stronger node tried to contribute
// opinions across a weaker, private node's boundary during finalization's
// permission-enforcement pass (§4.5's "Permissions").
var ErrPrimPermissionDenied = errors.New("pcpindex: prim permission denied")

// PermissionDeniedDetail carries the three sites a PrimPermissionDenied
// error names: the index's own root, the violating node, and the private
// node whose boundary it crossed.
type PermissionDeniedDetail struct {
	RootSite    layer.StackSite
	Site        layer.StackSite
	PrivateSite layer.StackSite
}

// CompositionError pairs ErrPrimPermissionDenied with the site it was
// discovered at, mirroring pcpbuild's own CompositionError so that
// primforge's façade can treat errors from either package identically
// without this package importing pcpbuild.
type CompositionError struct {
	ErrSite layer.StackSite
	Detail  PermissionDeniedDetail
}

func newPermissionError(detail PermissionDeniedDetail) *CompositionError {
	return &CompositionError{ErrSite: detail.Site, Detail: detail}
}

// Error implements error.
func (e *CompositionError) Error() string {
	return fmt.Sprintf("PrimPermissionDenied at %s: crosses private boundary at %s",
		e.ErrSite.Path, e.Detail.PrivateSite.Path)
}

// Kind returns the stable error-kind identifier (§6).
func (e *CompositionError) Kind() string { return "PrimPermissionDenied" }

// Site returns the site the error was discovered at.
func (e *CompositionError) Site() layer.StackSite { return e.ErrSite }

// Unwrap exposes ErrPrimPermissionDenied for errors.Is/As.
func (e *CompositionError) Unwrap() error { return ErrPrimPermissionDenied }
