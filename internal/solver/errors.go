package solver

import (
	"fmt"

	"github.com/ivcompat/ivcompat/internal/infusion"
)

// ConflictError is raised when seeding paints two incompatible infusions
// into the same IV. Apart from UnknownSeedError, which rejects invalid
// input before solving starts, it is the only failure the solver can
// produce: the main loop always completes because it is free to introduce
// new colors whenever it runs out of room.
type ConflictError struct {
	// IV is the zero-based color at which the conflict was detected.
	IV int
	// NameA and NameB identify the two infusions that cannot share this IV.
	NameA, NameB string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("there are incompatible infusions in IV #%d: %q and %q", e.IV+1, e.NameA, e.NameB)
}

// UnknownSeedError is returned by Solve when a seed set references an
// infusion ID that is not a node of the graph being solved.
type UnknownSeedError struct {
	ID infusion.ID
}

func (e UnknownSeedError) Error() string {
	return fmt.Sprintf("infusion %d is not part of this solve's universe", e.ID)
}
