package layer

import "errors"

// Sentinel errors surfaced by external-collaborator calls.
var (
	// ErrLayerNotFound indicates asset resolution could not open a layer.
	ErrLayerNotFound = errors.New("layer: layer not found")

	// ErrMutedLayer indicates the resolved layer is in the inputs' muted set.
	ErrMutedLayer = errors.New("layer: layer is muted")
)
