package pcpbuild

import (
	"fmt"

	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/pathkit"
)

// CompositionError pairs one of this package's sentinel errors with the
// layer-stack site it was discovered at, satisfying the primforge
// façade's CompositionError interface (Kind() string; Site()
// layer.StackSite) without primforge needing to import pcpbuild's
// sentinels one by one.
type CompositionError struct {
	ErrKind string
	ErrSite layer.StackSite
	Cause   error
}

func newCompositionError(cause error, site layer.StackSite) *CompositionError {
	return &CompositionError{ErrKind: kindOf(cause), ErrSite: site, Cause: cause}
}

// Error implements error.
func (e *CompositionError) Error() string {
	return fmt.Sprintf("%s at %s: %v", e.ErrKind, e.ErrSite.Path, e.Cause)
}

// Kind returns the stable error-kind identifier (§6).
func (e *CompositionError) Kind() string { return e.ErrKind }

// Site returns the site the error was discovered at.
func (e *CompositionError) Site() layer.StackSite { return e.ErrSite }

// Unwrap exposes the underlying sentinel for errors.Is/As.
func (e *CompositionError) Unwrap() error { return e.Cause }

func kindOf(err error) string {
	switch err {
	case ErrArcCycle:
		return "ArcCycle"
	case ErrArcPermissionDenied:
		return "ArcPermissionDenied"
	case ErrInvalidReferenceOffset:
		return "InvalidReferenceOffset"
	case ErrInvalidAssetPath:
		return "InvalidAssetPath"
	case ErrInternalAssetPath:
		return "InternalAssetPath"
	case ErrMutedAssetPath:
		return "MutedAssetPath"
	case ErrOpinionAtRelocationSource:
		return "OpinionAtRelocationSource"
	case ErrUnresolvedPrimPath:
		return "UnresolvedPrimPath"
	case ErrArcCapacityExceeded:
		return "ArcCapacityExceeded"
	case pathkit.ErrInvalidPrimPath:
		return "InvalidPrimPath"
	default:
		return "Unknown"
	}
}
