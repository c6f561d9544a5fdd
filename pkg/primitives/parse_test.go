package primitives

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRecord(t *testing.T) {
	got, err := ParseRecord("?#.?  3,1")
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	want := Record{
		States: []SpringState{Unknown, Damaged, Clear, Unknown},
		Rules:  []int{3, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseRecord mismatch (-want +got):\n%s", diff)
	}
	if s := got.String(); s != "?#.? 3,1" {
		t.Errorf("String() = %q", s)
	}
}

func TestParseRecord_Errors(t *testing.T) {
	for _, tc := range []struct {
		line string
		want error
	}{
		{"???.###", ErrMissingSeparator},
		{"???.### 1,1,3 extra", ErrMissingSeparator},
		{"", ErrMissingSeparator},
		{"??x.### 1,1,3", ErrBadSymbol},
		{"???.### 1,,3", ErrBadRule},
		{"???.### 1,a,3", ErrBadRule},
		{"???.### 1,0,3", ErrBadRule},
		{"???.### 1,-2", ErrBadRule},
	} {
		t.Run(tc.line, func(t *testing.T) {
			_, err := ParseRecord(tc.line)
			if !errors.Is(err, tc.want) {
				t.Errorf("ParseRecord(%q) error = %v, want %v", tc.line, err, tc.want)
			}
		})
	}
}

func TestParseRecords(t *testing.T) {
	input := `
// sample records
???.### 1,1,3
.??..??...?##. 1,1,3

?#?#?#?#?#?#?#? 1,3,1,6
`
	records, err := ParseRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	var got []string
	for _, r := range records {
		got = append(got, r.String())
	}
	want := []string{
		"???.### 1,1,3",
		".??..??...?##. 1,1,3",
		"?#?#?#?#?#?#?#? 1,3,1,6",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseRecords mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecords_ReportsLine(t *testing.T) {
	_, err := ParseRecords(strings.NewReader("???.### 1,1,3\n\n#?x 1\n"))
	if !errors.Is(err, ErrBadSymbol) {
		t.Fatalf("expected ErrBadSymbol, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected error to mention line 3, got %q", err)
	}
}

func TestNewRecord_RejectsNonPositiveRules(t *testing.T) {
	if _, err := NewRecord("??", 1, 0); !errors.Is(err, ErrBadRule) {
		t.Errorf("expected ErrBadRule, got %v", err)
	}
	if _, err := NewRecord("??"); err != nil {
		t.Errorf("empty rule list should be allowed, got %v", err)
	}
}

func TestParseRecords_LineTooLong(t *testing.T) {
	input := "???.### 1,1,3\n#.# 1,1\n" + strings.Repeat("?", MaxLineBytes+1) + " 1\n"
	_, err := ParseRecords(strings.NewReader(input))
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("expected bufio.ErrTooLong, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %q does not name line 3", err)
	}
}

func TestParseRecords_LongLineWithinLimit(t *testing.T) {
	row := strings.Repeat("?", 100_000)
	records, err := ParseRecords(strings.NewReader(row + " 1\n"))
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(records) != 1 || len(records[0].States) != len(row) {
		t.Errorf("got %d records, want one with %d states", len(records), len(row))
	}
}
