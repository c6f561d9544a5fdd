package springs

import (
	"context"
	"errors"
	"math"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"crosswarped.com/springs/pkg/primitives"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleInput = `???.### 1,1,3
.??..??...?##. 1,1,3
?#?#?#?#?#?#?#? 1,3,1,6
????.#...#... 4,1,1
????.######..#####. 1,6,5
?###???????? 3,2,1`

func loadSample(t testing.TB) []primitives.Record {
	t.Helper()
	records, err := primitives.ParseRecords(strings.NewReader(sampleInput))
	require.NoError(t, err)
	require.Len(t, records, 6)
	return records
}

func TestSolver_Total(t *testing.T) {
	records := loadSample(t)
	solver := CreateSolver(SolverParams{})

	total, err := solver.Total(t.Context(), records, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), total)

	total, err = solver.Total(t.Context(), records, DefaultUnfoldFactor)
	require.NoError(t, err)
	assert.Equal(t, uint64(525152), total)
}

func TestSolver_Counts(t *testing.T) {
	records := loadSample(t)
	solver := CreateSolver(SolverParams{Workers: 2})

	counts, err := solver.Counts(t.Context(), records, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 4, 1, 1, 4, 10}, counts)

	counts, err = solver.Counts(t.Context(), records, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 16384, 1, 16, 2500, 506250}, counts)
}

func TestSolver_WorkerCountDoesNotChangeResult(t *testing.T) {
	records := loadSample(t)
	for _, workers := range []int{1, 2, 3, 8, 64} {
		solver := CreateSolver(SolverParams{Workers: workers})
		total, err := solver.Total(t.Context(), records, 5)
		require.NoError(t, err)
		assert.Equal(t, uint64(525152), total, "workers=%d", workers)
	}
}

func TestSolver_ZeroValue(t *testing.T) {
	var solver Solver
	assert.Equal(t, runtime.NumCPU(), solver.Workers())

	total, err := solver.Total(t.Context(), loadSample(t), 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), total)

	totals, err := (&Solver{}).Totals(t.Context(), loadSample(t), 5)
	require.NoError(t, err)
	assert.Equal(t, map[int]uint64{5: 525152}, totals)
}

func TestCreateSolver_Workers(t *testing.T) {
	assert.Equal(t, 3, CreateSolver(SolverParams{Workers: 3}).Workers())
	assert.Equal(t, runtime.NumCPU(), CreateSolver(SolverParams{Workers: -2}).Workers())
}

func TestSolver_Totals(t *testing.T) {
	solver := CreateSolver(SolverParams{})
	totals, err := solver.Totals(t.Context(), loadSample(t), 1, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, map[int]uint64{1: 21, 5: 525152}, totals)
}

func TestSolver_EmptyInput(t *testing.T) {
	solver := CreateSolver(SolverParams{})
	total, err := solver.Total(t.Context(), nil, 5)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSolver_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	solver := CreateSolver(SolverParams{Workers: 1})
	_, err := solver.Total(ctx, loadSample(t), 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolver_ReportsRecordOverflow(t *testing.T) {
	rules := make([]int, 50)
	for i := range rules {
		rules[i] = 1
	}
	records := []primitives.Record{primitives.MustRecord(strings.Repeat("?", 200), rules...)}

	solver := CreateSolver(SolverParams{})
	_, err := solver.Total(t.Context(), records, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOverflow))
	assert.Contains(t, err.Error(), "record 1")
}

func TestSolver_LogsPerRecordAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	solver := CreateSolver(SolverParams{Logger: zap.New(core)})

	_, err := solver.Total(t.Context(), loadSample(t), 1)
	require.NoError(t, err)
	assert.Equal(t, 6, logs.FilterMessage("counted record").Len())
	assert.Equal(t, 1, logs.FilterMessage("total computed").Len())
}

func TestSum(t *testing.T) {
	total, err := Sum([]uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(6), total)

	total, err = Sum([]uint64{math.MaxUint64, 0})
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), total)

	_, err = Sum([]uint64{math.MaxUint64, 1})
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSolver_Arrangements(t *testing.T) {
	solver := CreateSolver(SolverParams{})
	var got []string
	for a := range solver.Arrangements(t.Context(), primitives.MustRecord(".??..??...?##.", 1, 1, 3)) {
		got = append(got, a.Repr())
	}
	assert.Equal(t, []string{
		"..#...#...###.",
		"..#..#....###.",
		".#....#...###.",
		".#...#....###.",
	}, got)
}

func TestSolver_ArrangementsStopsEarly(t *testing.T) {
	solver := CreateSolver(SolverParams{})
	n := 0
	for range solver.Arrangements(t.Context(), primitives.MustRecord("?###????????", 3, 2, 1)) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestArrangement(t *testing.T) {
	a := NewArrangement([]primitives.SpringState{primitives.Damaged, primitives.Clear, primitives.Damaged})
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, primitives.Clear, a.Get(1))
	assert.Equal(t, "#.#", a.Repr())
	assert.Contains(t, a.DebugString(), "len: 3")
}

func BenchmarkSolver_Total(b *testing.B) {
	records := loadSample(b)
	b.ReportAllocs()

	for _, tc := range []struct {
		name    string
		workers int
		factor  int
	}{
		{name: "x1", workers: 1, factor: 1},
		{name: "x5/serial", workers: 1, factor: 5},
		{name: "x5/parallel", workers: 0, factor: 5},
	} {
		b.Run(tc.name, func(b *testing.B) {
			solver := CreateSolver(SolverParams{Workers: tc.workers})
			for b.Loop() {
				if _, err := solver.Total(context.Background(), records, tc.factor); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
