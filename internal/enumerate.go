package internal

import (
	"iter"
	"slices"

	"crosswarped.com/springs/pkg/primitives"
)

// MaxEnumerateUnknowns bounds the number of Unknown positions
// EnumerateArrangements will expand.
const MaxEnumerateUnknowns = 30

// EnumerateArrangements yields every resolution of r, in ascending order of
// the Damaged/Clear choice at each Unknown (Clear first), whose damaged runs
// match r.Rules. Every yielded row is freshly allocated.
//
// This is exhaustive search over 2^unknowns candidates. Rows with more than
// MaxEnumerateUnknowns unknowns yield nothing.
func EnumerateArrangements(r primitives.Record) iter.Seq[[]primitives.SpringState] {
	return func(yield func([]primitives.SpringState) bool) {
		var unknowns []int
		for i, s := range r.States {
			if s == primitives.Unknown {
				unknowns = append(unknowns, i)
			}
		}
		if len(unknowns) > MaxEnumerateUnknowns {
			return
		}

		candidate := slices.Clone(r.States)
		for mask := uint64(0); mask < 1<<len(unknowns); mask++ {
			// The first unknown is the most significant choice so output is
			// ordered left to right.
			for k, idx := range unknowns {
				if mask&(1<<(len(unknowns)-1-k)) != 0 {
					candidate[idx] = primitives.Damaged
				} else {
					candidate[idx] = primitives.Clear
				}
			}
			if !slices.Equal(damagedRuns(candidate), r.Rules) {
				continue
			}
			if !yield(slices.Clone(candidate)) {
				return
			}
		}
	}
}

// damagedRuns returns the lengths of the maximal Damaged runs of a fully
// resolved row.
func damagedRuns(states []primitives.SpringState) []int {
	runs := []int{}
	cur := 0
	for _, s := range states {
		if s == primitives.Damaged {
			cur++
			continue
		}
		if cur > 0 {
			runs = append(runs, cur)
			cur = 0
		}
	}
	if cur > 0 {
		runs = append(runs, cur)
	}
	return runs
}
