package mapexpr

import "errors"

// Sentinel errors for map-expression evaluation.
var (
	// ErrUnboundVariable indicates Evaluate encountered a Variable node with
	// no corresponding entry in the supplied environment.
	ErrUnboundVariable = errors.New("mapexpr: unbound variable reference")
)
