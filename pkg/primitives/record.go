package primitives

import (
	"slices"
	"strconv"
	"strings"
)

// Record is one condition record: a row of spring states and the lengths of
// the damaged runs it must contain, left to right.
//
// Rules are strictly positive. An empty rule list is only satisfied by a row
// that can resolve to all Clear.
type Record struct {
	States []SpringState
	Rules  []int
}

// NewRecord builds a record from its text row and rule list.
func NewRecord(row string, rules ...int) (Record, error) {
	states, err := parseRow(row)
	if err != nil {
		return Record{}, err
	}
	if err := validateRules(rules); err != nil {
		return Record{}, err
	}
	return Record{States: states, Rules: slices.Clone(rules)}, nil
}

// MustRecord is like NewRecord but panics on error. Intended for tests and
// literal fixtures.
func MustRecord(row string, rules ...int) Record {
	r, err := NewRecord(row, rules...)
	if err != nil {
		panic(err)
	}
	return r
}

// Unfold returns the record repeated factor times. Copies of the row are
// joined by a single Unknown; copies of the rules are concatenated.
//
// A factor of 1 (or less) returns an equal copy of r.
func Unfold(r Record, factor int) Record {
	if factor < 1 {
		factor = 1
	}

	states := make([]SpringState, 0, factor*len(r.States)+factor-1)
	rules := make([]int, 0, factor*len(r.Rules))
	for i := range factor {
		if i > 0 {
			states = append(states, Unknown)
		}
		states = append(states, r.States...)
		rules = append(rules, r.Rules...)
	}
	return Record{States: states, Rules: rules}
}

// Unknowns returns the number of Unknown positions in the row.
func (r Record) Unknowns() int {
	n := 0
	for _, s := range r.States {
		if s == Unknown {
			n++
		}
	}
	return n
}

// Row renders the state sequence using the record symbols.
func (r Record) Row() string {
	var b strings.Builder
	b.Grow(len(r.States))
	for _, s := range r.States {
		b.WriteRune(s.Rune())
	}
	return b.String()
}

// String renders r in the same form accepted by ParseRecord.
func (r Record) String() string {
	rules := make([]string, len(r.Rules))
	for i, v := range r.Rules {
		rules[i] = strconv.Itoa(v)
	}
	return r.Row() + " " + strings.Join(rules, ",")
}
