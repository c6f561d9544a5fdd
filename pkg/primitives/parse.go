package primitives

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrMissingSeparator = errors.New("missing whitespace between row and rules")
	ErrBadSymbol        = errors.New("unknown spring symbol")
	ErrBadRule          = errors.New("rule must be a positive integer")
)

// ParseRecord parses a line of the form "???.### 1,1,3".
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Record{}, fmt.Errorf("%w: %q", ErrMissingSeparator, line)
	}

	states, err := parseRow(fields[0])
	if err != nil {
		return Record{}, err
	}

	parts := strings.Split(fields[1], ",")
	rules := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %q", ErrBadRule, p)
		}
		rules[i] = v
	}
	if err := validateRules(rules); err != nil {
		return Record{}, err
	}

	return Record{States: states, Rules: rules}, nil
}

// MaxLineBytes is the longest input line ParseRecords accepts.
const MaxLineBytes = 1 << 20

// ParseRecords reads one record per line from r. Blank lines and lines
// starting with "//" are skipped.
func ParseRecords(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	return records, nil
}

func parseRow(row string) ([]SpringState, error) {
	states := make([]SpringState, 0, len(row))
	for _, c := range row {
		s, err := StateFromRune(c)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, nil
}

func validateRules(rules []int) error {
	for _, v := range rules {
		if v <= 0 {
			return fmt.Errorf("%w: %d", ErrBadRule, v)
		}
	}
	return nil
}
