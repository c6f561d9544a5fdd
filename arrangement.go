package springs

import (
	"fmt"

	"crosswarped.com/springs/pkg/primitives"
)

// Arrangement is a fully resolved row of springs.
//
// It represents one 'definite' way to fill in a record's unknowns.
type Arrangement struct {
	states []primitives.SpringState
}

func NewArrangement(states []primitives.SpringState) Arrangement {
	return Arrangement{
		states: states,
	}
}

func (a Arrangement) Len() int {
	return len(a.states)
}

func (a Arrangement) Get(i int) primitives.SpringState {
	return a.states[i]
}

func (a Arrangement) Repr() string {
	return primitives.Record{States: a.states}.Row()
}

func (a Arrangement) DebugString() string {
	return fmt.Sprintf("Arrangement{len: %d, states: %v}", a.Len(), a.states)
}
