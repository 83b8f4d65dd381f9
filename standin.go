package primforge

import (
	"os"
	"sync"
)

// newDefaultStandinBehaviorEnvVar is read once at first use and cached;
// per §9, this is the engine's one process-wide global, otherwise all
// state is per-build.
const newDefaultStandinBehaviorEnvVar = "PRIMFORGE_NEW_DEFAULT_STANDIN_BEHAVIOR"

var (
	standinOnce  sync.Once
	standinValue bool
)

// NewDefaultStandinBehavior reports the process-wide "new default
// standin behavior" toggle, read from PRIMFORGE_NEW_DEFAULT_STANDIN_BEHAVIOR
// on first call and immutable thereafter. Standin/unloaded-prim
// generation is itself an external collaborator's concern (§1); this
// engine does not consume the flag internally, only exposes it so a
// caller's own standin logic can share one source of truth with any
// other composition-engine consumer in the same process.
func NewDefaultStandinBehavior() bool {
	standinOnce.Do(func() {
		standinValue = os.Getenv(newDefaultStandinBehaviorEnvVar) != ""
	})

	return standinValue
}
