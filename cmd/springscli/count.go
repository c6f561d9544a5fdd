package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"crosswarped.com/springs"
	"crosswarped.com/springs/pkg/primitives"
)

var (
	factor    int
	perRecord bool
)

var countCmd = &cobra.Command{
	Use:   "count [file]",
	Short: "Print the base and unfolded arrangement totals of a record file",
	Long: `Reads condition records from file (or stdin when omitted) and prints the
sum of their arrangement counts, once as written and once unfolded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		unfold := cfg.UnfoldFactor
		if cmd.Flags().Changed("factor") {
			unfold = factor
		}
		if unfold < 1 || unfold > cfg.MaxFactor {
			return fmt.Errorf("factor %d must be between 1 and %d", unfold, cfg.MaxFactor)
		}
		return runCount(cmd.Context(), newSolver(), in, cmd.OutOrStdout(), unfold, perRecord)
	},
}

func init() {
	countCmd.Flags().IntVarP(&factor, "factor", "f", springs.DefaultUnfoldFactor, "Unfold factor for the second total")
	countCmd.Flags().BoolVar(&perRecord, "per-record", false, "Print the count of every record")
}

func runCount(ctx context.Context, solver *springs.Solver, in io.Reader, out io.Writer, unfold int, perRecord bool) error {
	records, err := primitives.ParseRecords(in)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records found")
	}

	for _, f := range []int{1, unfold} {
		var total uint64
		if perRecord {
			counts, err := solver.Counts(ctx, records, f)
			if err != nil {
				return err
			}
			for i, c := range counts {
				fmt.Fprintf(out, "x%d\t%s\t%d\n", f, records[i], c)
			}
			if total, err = springs.Sum(counts); err != nil {
				return err
			}
		} else if total, err = solver.Total(ctx, records, f); err != nil {
			return err
		}
		fmt.Fprintf(out, "total x%d: %d\n", f, total)
		if unfold == 1 {
			break
		}
	}
	return nil
}
