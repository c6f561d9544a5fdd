package primitives

import "fmt"

// SpringState is the condition of one position in a row of springs.
type SpringState uint8

const (
	Clear SpringState = iota
	Damaged
	Unknown
)

// Symbols used by the text form of a condition record.
const (
	kClear   = '.'
	kDamaged = '#'
	kUnknown = '?'
)

// StateFromRune maps a record symbol to its state.
func StateFromRune(r rune) (SpringState, error) {
	switch r {
	case kClear:
		return Clear, nil
	case kDamaged:
		return Damaged, nil
	case kUnknown:
		return Unknown, nil
	}
	return Clear, fmt.Errorf("%w: %q", ErrBadSymbol, r)
}

// Rune returns the record symbol for s.
func (s SpringState) Rune() rune {
	switch s {
	case Clear:
		return kClear
	case Damaged:
		return kDamaged
	case Unknown:
		return kUnknown
	}
	panic(fmt.Sprintf("invalid spring state %d", uint8(s)))
}

// CanBeDamaged reports whether the position may resolve to Damaged.
func (s SpringState) CanBeDamaged() bool {
	return s != Clear
}

// CanBeClear reports whether the position may resolve to Clear.
func (s SpringState) CanBeClear() bool {
	return s != Damaged
}

func (s SpringState) String() string {
	switch s {
	case Clear:
		return "Clear"
	case Damaged:
		return "Damaged"
	case Unknown:
		return "Unknown"
	}
	return fmt.Sprintf("SpringState(%d)", uint8(s))
}
