package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"crosswarped.com/springs"
	"crosswarped.com/springs/pkg/primitives"
)

var arrangementsCmd = &cobra.Command{
	Use:     "arrangements <row> <rules>",
	Short:   "List every arrangement of a single record",
	Example: `  springscli arrangements '?###????????' 3,2,1`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := primitives.ParseRecord(strings.Join(args, " "))
		if err != nil {
			return err
		}
		limit := min(cfg.MaxEnumerateUnknowns, springs.MaxEnumerateUnknowns)
		return runArrangements(cmd.Context(), newSolver(), rec, limit, cmd.OutOrStdout())
	},
}

func runArrangements(ctx context.Context, solver *springs.Solver, rec primitives.Record, limit int, out io.Writer) error {
	if u := rec.Unknowns(); u > limit {
		return fmt.Errorf("record has %d unknowns; listing is limited to %d", u, limit)
	}

	n := 0
	for a := range solver.Arrangements(ctx, rec) {
		n++
		fmt.Fprintln(out, a.Repr())
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d arrangements\n", n)
	return nil
}
