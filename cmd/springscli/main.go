package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crosswarped.com/springs"
	"crosswarped.com/springs/internal/config"
)

var (
	configPath  string
	verbose     bool
	workers     int
	profile     bool
	profileFile string

	cfg    *config.Config
	logger *zap.Logger

	profileOut *os.File
)

var rootCmd = &cobra.Command{
	Use:   "springscli",
	Short: "Count the arrangements of damaged spring condition records",
	Long: `springscli counts how many ways the unknown springs in each condition
record can be resolved so that the damaged runs match the record's rules.

Records are read one per line, e.g. "???.### 1,1,3".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = workers
		}
		logger, err = cfg.NewLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if profile {
			profileOut, err = os.Create(profileFile)
			if err != nil {
				return fmt.Errorf("creating profile file: %w", err)
			}
			if err := pprof.StartCPUProfile(profileOut); err != nil {
				return fmt.Errorf("starting CPU profile: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Records counted concurrently (0 = number of CPUs)")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Write a CPU profile")
	rootCmd.PersistentFlags().StringVar(&profileFile, "profile-file", "cpu.pprof", "The file to write the CPU profile to")

	rootCmd.AddCommand(countCmd, arrangementsCmd)
}

func newSolver() *springs.Solver {
	return springs.CreateSolver(springs.SolverParams{
		Workers: cfg.Workers,
		Logger:  logger,
	})
}

// execute runs the root command. The profile is flushed and the logger
// synced even when the command fails.
func execute() error {
	defer func() {
		if profileOut != nil {
			pprof.StopCPUProfile()
			profileOut.Close()
			profileOut = nil
		}
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
