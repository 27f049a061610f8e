// Command greenhouse solves rectangular covering problems: given grids of
// berries and a greenhouse budget per instance, it prints the cheapest
// covering found for each along with the total cost of the batch.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gitrdm/greenhouse/internal/batch"
	"github.com/gitrdm/greenhouse/internal/config"
)

var (
	cfgPath string
	cfg     = config.Default()
	logger  *zap.Logger

	flagInput         string
	flagSeed          int64
	flagWorkers       int
	flagGoal          int
	flagMaxSuccessors int
	flagStrict        bool
	flagVerbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "greenhouse",
	Short: "Heuristic solver for rectangular berry coverings",
	Long: `greenhouse reads a batch of problem instances and builds, for each, a
low-cost set of non-overlapping rectangles covering every berry. Each
rectangle costs 10 plus 1 per covered cell. The solver is a greedy
agglomeration heuristic: fast, reproducible under a fixed seed, and not
guaranteed optimal.

Instances are separated by blank lines; each starts with the maximum
number of greenhouses, followed by the grid with '@' marking berries.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath != "" {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		applyFlagOverrides(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		zapCfg := zap.NewProductionConfig()
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if cfg.Verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve every instance in the problems file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Input == "" {
			return fmt.Errorf("no input file; pass --input or set it in the config file")
		}

		runner := batch.NewRunner(cfg, logger)
		summary, err := runner.RunFile(cmd.Context(), cfg.Input)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, res := range summary.Results {
			if res.Err != nil {
				logger.Error("instance failed", zap.Int("instance", res.Index), zap.Error(res.Err))
				continue
			}
			fmt.Fprintln(out, res.Solution.Score)
			fmt.Fprintln(out, res.Grid)
		}
		fmt.Fprintf(out, "Total cost for all greenhouses: %d\n", summary.TotalCost)

		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d instances failed", summary.Failed, len(summary.Results))
		}
		return nil
	},
}

// applyFlagOverrides lets explicitly set flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command) {
	if cmd.Flags().Changed("input") {
		cfg.Input = flagInput
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = flagSeed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if cmd.Flags().Changed("goal") {
		cfg.Goal = flagGoal
	}
	if cmd.Flags().Changed("max-successors") {
		cfg.MaxSuccessors = flagMaxSuccessors
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = flagStrict
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = flagVerbose
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path of a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	solveCmd.Flags().StringVarP(&flagInput, "input", "i", "", "problems file to solve")
	solveCmd.Flags().Int64Var(&flagSeed, "seed", 0, "base random seed (0 = non-reproducible)")
	solveCmd.Flags().IntVar(&flagWorkers, "workers", 0, "concurrent instances (0 = all cores)")
	solveCmd.Flags().IntVar(&flagGoal, "goal", cfg.Goal, "cardinality the search drives down toward")
	solveCmd.Flags().IntVar(&flagMaxSuccessors, "max-successors", cfg.MaxSuccessors, "candidate cap per search round")
	solveCmd.Flags().BoolVar(&flagStrict, "strict", false, "reject instances outside the documented bounds")

	rootCmd.AddCommand(solveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
