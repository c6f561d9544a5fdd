package springs

import (
	"context"
	"fmt"
	"iter"
	"math/bits"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"crosswarped.com/springs/internal"
	"crosswarped.com/springs/pkg/primitives"
)

// ErrOverflow is returned when a count or a total does not fit in 64 bits.
//
// A record's count is at most 2^unknowns, and for puzzle-sized rows unfolded
// five times the counts stay many orders of magnitude below this bound.
var ErrOverflow = internal.ErrOverflow

// DefaultUnfoldFactor is the expansion used by the puzzle's harder variant.
const DefaultUnfoldFactor = 5

// Count returns the number of arrangements of r.
func Count(r primitives.Record) (uint64, error) {
	return internal.CountArrangements(r)
}

// Solver counts arrangements across many records concurrently. The zero
// value is ready to use, with one worker per CPU and logging disabled.
type Solver struct {
	workers int
	logger  *zap.Logger
}

type SolverParams struct {
	// Workers bounds how many records are counted at once. Zero or negative
	// uses runtime.NumCPU().
	Workers int
	Logger  *zap.Logger
}

func CreateSolver(params SolverParams) *Solver {
	s := &Solver{
		workers: params.Workers,
		logger:  params.Logger,
	}
	s.workers = s.Workers()
	s.logger = s.log()
	return s
}

// Workers returns how many records the solver counts at once.
func (s *Solver) Workers() int {
	if s.workers <= 0 {
		return runtime.NumCPU()
	}
	return s.workers
}

func (s *Solver) log() *zap.Logger {
	if s.logger == nil {
		return zap.NewNop()
	}
	return s.logger
}

// Counts returns the arrangement count of every record unfolded by factor,
// in input order.
func (s *Solver) Counts(ctx context.Context, records []primitives.Record, factor int) ([]uint64, error) {
	counts := make([]uint64, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers())
	logger := s.log()
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := Count(primitives.Unfold(rec, factor))
			if err != nil {
				return fmt.Errorf("record %d (%s): %w", i+1, rec, err)
			}
			counts[i] = n
			logger.Debug("counted record",
				zap.Int("index", i),
				zap.Stringer("record", rec),
				zap.Int("factor", factor),
				zap.Uint64("count", n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Total returns the sum of the arrangement counts of all records unfolded by
// factor.
func (s *Solver) Total(ctx context.Context, records []primitives.Record, factor int) (uint64, error) {
	start := time.Now()
	counts, err := s.Counts(ctx, records, factor)
	if err != nil {
		return 0, err
	}
	total, err := Sum(counts)
	if err != nil {
		return 0, err
	}
	s.log().Info("total computed",
		zap.Int("records", len(records)),
		zap.Int("factor", factor),
		zap.Uint64("total", total),
		zap.Duration("took", time.Since(start)))
	return total, nil
}

// Totals computes Total once per factor.
func (s *Solver) Totals(ctx context.Context, records []primitives.Record, factors ...int) (map[int]uint64, error) {
	totals := make(map[int]uint64, len(factors))
	for _, f := range factors {
		if _, ok := totals[f]; ok {
			continue
		}
		t, err := s.Total(ctx, records, f)
		if err != nil {
			return nil, fmt.Errorf("factor %d: %w", f, err)
		}
		totals[f] = t
	}
	return totals, nil
}

// Arrangements lists the concrete arrangements of r by exhaustive search.
// Records with more than MaxEnumerateUnknowns unknowns yield nothing.
func (s *Solver) Arrangements(ctx context.Context, r primitives.Record) iter.Seq[Arrangement] {
	return func(yield func(Arrangement) bool) {
		for states := range internal.EnumerateArrangements(r) {
			if ctx.Err() != nil {
				return
			}
			if !yield(NewArrangement(states)) {
				return
			}
		}
	}
}

// MaxEnumerateUnknowns is the largest number of unknowns Arrangements expands.
const MaxEnumerateUnknowns = internal.MaxEnumerateUnknowns

// Sum adds counts, failing with ErrOverflow instead of wrapping.
func Sum(counts []uint64) (uint64, error) {
	var total uint64
	for _, c := range counts {
		var carry uint64
		total, carry = bits.Add64(total, c, 0)
		if carry != 0 {
			return 0, ErrOverflow
		}
	}
	return total, nil
}
