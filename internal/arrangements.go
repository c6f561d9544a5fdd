package internal

import (
	"errors"
	"math/bits"

	"crosswarped.com/springs/pkg/primitives"
)

// ErrOverflow is returned when an arrangement count does not fit in 64 bits.
var ErrOverflow = errors.New("arrangement count overflows uint64")

// arrangementState holds the per-record tables for one counting call.
//
// count(i, j) is the number of completions of states[i:] satisfying rules[j:],
// given that no run is open at i. It is filled one rule column at a time,
// from the last rule back to the first, so only the columns for j and j+1
// are live at once.
type arrangementState struct {
	states []primitives.SpringState
	rules  []int

	// clearBefore[k] is the number of Clear states in states[:k].
	clearBefore []int
	// lastDamaged is the index of the right-most Damaged state, or -1.
	lastDamaged int
}

func newArrangementState(r primitives.Record) *arrangementState {
	s := &arrangementState{
		states:      r.States,
		rules:       r.Rules,
		clearBefore: make([]int, len(r.States)+1),
		lastDamaged: -1,
	}
	for i, st := range r.States {
		s.clearBefore[i+1] = s.clearBefore[i]
		if st == primitives.Clear {
			s.clearBefore[i+1]++
		}
		if st == primitives.Damaged {
			s.lastDamaged = i
		}
	}
	return s
}

// runPossible reports whether states[from:from+length] can all be Damaged
// and the position after it, if any, can be Clear.
func (s *arrangementState) runPossible(from, length int) bool {
	if length > len(s.states)-from {
		return false
	}
	to := from + length
	if s.clearBefore[to] != s.clearBefore[from] {
		return false
	}
	return to == len(s.states) || s.states[to].CanBeClear()
}

// fits reports whether a row of n positions is long enough to hold every
// run of rules plus one separator between consecutive runs.
func fits(rules []int, n int) bool {
	if len(rules) == 0 {
		return true
	}
	remaining := n - (len(rules) - 1)
	if remaining < 0 {
		return false
	}
	for _, r := range rules {
		if r > remaining {
			return false
		}
		remaining -= r
	}
	return true
}

// column is one rule column of the table. over marks entries whose true
// value does not fit in 64 bits; an entry built from an overflowed one has
// overflowed too.
type column struct {
	vals []uint64
	over []bool
}

func newColumn(n int) column {
	return column{vals: make([]uint64, n), over: make([]bool, n)}
}

func (s *arrangementState) count() (uint64, bool) {
	n := len(s.states)

	// next is column j+1, cur is column j. Both have an entry for i == n.
	next := newColumn(n + 1)
	cur := newColumn(n + 1)

	// Rules exhausted: valid iff nothing Damaged remains.
	for i := range next.vals {
		if i > s.lastDamaged {
			next.vals[i] = 1
		}
	}

	for j := len(s.rules) - 1; j >= 0; j-- {
		l := s.rules[j]

		// Row exhausted with rules left.
		cur.vals[n], cur.over[n] = 0, false
		for i := n - 1; i >= 0; i-- {
			var res uint64
			var over bool
			st := s.states[i]
			if st.CanBeClear() {
				res, over = cur.vals[i+1], cur.over[i+1]
			}
			if st.CanBeDamaged() && s.runPossible(i, l) {
				end := i + l
				if end < n {
					// Skip the separator, which runPossible has checked can be Clear.
					end++
				}
				var carry uint64
				res, carry = bits.Add64(res, next.vals[end], 0)
				over = over || next.over[end] || carry != 0
			}
			cur.vals[i], cur.over[i] = res, over
		}
		next, cur = cur, next
	}
	return next.vals[0], next.over[0]
}

// CountArrangements returns the number of ways the Unknown positions of r can
// be resolved so that its damaged runs match r.Rules in order.
//
// It runs in O(len(States) × len(Rules)) time and O(len(States)) memory,
// without recursion, so row length is bounded only by memory.
func CountArrangements(r primitives.Record) (uint64, error) {
	if !fits(r.Rules, len(r.States)) {
		return 0, nil
	}

	n, over := newArrangementState(r).count()
	if over {
		return 0, ErrOverflow
	}
	return n, nil
}
